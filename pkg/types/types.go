package types

import "image"

// Frame is a captured raster together with its physical pixel dimensions.
// Physical pixels are what the capture source produced, which may differ
// from the operating system's logical (DPI-scaled) resolution.
type Frame struct {
	Image  image.Image
	Width  int
	Height int
}

// FrameOf wraps an image in a Frame, taking dimensions from its bounds.
func FrameOf(img image.Image) Frame {
	b := img.Bounds()
	return Frame{Image: img, Width: b.Dx(), Height: b.Dy()}
}

// GridReply is the structured payload the vision model is asked to return.
// HexCoord is nil when the model explicitly reports no matching element,
// which is distinct from a malformed reply.
type GridReply struct {
	HexCoord  *string `json:"hex_coord"`
	Reasoning string  `json:"reasoning"`
}

// TargetPoint is a cell center in physical pixels.
type TargetPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ActionPoint is the click position in logical pixels, the coordinate
// space the input-injection layer works in.
type ActionPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}
