package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// defaultTimeout bounds a single vision query when the caller's context
// carries no deadline. Vision models on CPU can be very slow.
const defaultTimeout = 300 * time.Second

// Client wraps the Ollama API client.
type Client struct {
	client *api.Client
}

// NewClient creates a new Ollama client from a server URL. Any path on the
// URL (like /api/chat) is dropped; the API client builds its own routes.
func NewClient(ollamaURL string) (*Client, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &Client{client: api.NewClient(baseURL, http.DefaultClient)}, nil
}

// Query sends the instruction and the PNG image in a single chat turn and
// returns the model's raw reply text.
func (c *Client) Query(ctx context.Context, model, prompt string, png []byte) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(png)},
			},
		},
		Stream: &streamFalse,
		// No Format field: the prompt states the contract and the parser
		// tolerates deviations, so the reply stays free-form.
	}

	var responseContent string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %v", err)
	}

	if responseContent == "" {
		return "", fmt.Errorf("empty response from ollama")
	}

	return responseContent, nil
}
