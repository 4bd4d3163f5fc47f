// Package transform converts a decoded grid-cell origin into the logical
// click point the input layer acts on.
package transform

import (
	"errors"
	"fmt"
	"image"

	"github.com/OpenBitX/seeclaw/pkg/types"
)

// ErrOutOfRange reports a point that cannot be brought inside the display
// bounds, which only happens with degenerate dimensions.
var ErrOutOfRange = errors.New("target point outside display bounds")

// CellCenter derives the click target from a cell origin: the cell's
// center, clamped to the capture so that short edge cells never produce a
// point past the border.
func CellCenter(origin image.Point, cellSize, physW, physH int) types.TargetPoint {
	return types.TargetPoint{
		X: clampInt(origin.X+cellSize/2, 0, physW-1),
		Y: clampInt(origin.Y+cellSize/2, 0, physH-1),
	}
}

// ToActionPoint scales a physical target point into logical display
// coordinates. The two axis ratios are applied independently; capture and
// display resolutions are not assumed to scale uniformly.
func ToActionPoint(target types.TargetPoint, physW, physH, logW, logH int) (types.ActionPoint, error) {
	if physW <= 0 || physH <= 0 || logW <= 0 || logH <= 0 {
		return types.ActionPoint{}, fmt.Errorf("%w: physical %dx%d, logical %dx%d",
			ErrOutOfRange, physW, physH, logW, logH)
	}

	ax := int(float64(target.X)*float64(logW)/float64(physW) + 0.5)
	ay := int(float64(target.Y)*float64(logH)/float64(physH) + 0.5)

	ax = clampInt(ax, 0, logW)
	ay = clampInt(ay, 0, logH)

	// The clamps above keep any finite input inside the display; this
	// re-check guards the extreme-boundary numerical case.
	if ax < 0 || ax > logW || ay < 0 || ay > logH {
		return types.ActionPoint{}, fmt.Errorf("%w: (%d,%d) vs %dx%d",
			ErrOutOfRange, ax, ay, logW, logH)
	}

	return types.ActionPoint{X: ax, Y: ay}, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
