package client

import "context"

// VisionClient is the boundary to a vision-capable model backend. It takes
// a PNG-encoded image plus an instruction and returns the model's raw text;
// reply interpretation belongs to the parsing layer, not the transport.
type VisionClient interface {
	Query(ctx context.Context, model, prompt string, png []byte) (string, error)
}
