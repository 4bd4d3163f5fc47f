// Package grid implements the hexadecimal coordinate codec used to ground
// vision-model answers in screen pixels.
//
// The capture is partitioned into fixed-size square cells. Every cell is
// identified by the hex encoding of its top-left origin in physical pixels,
// rendered as "XXXX,YYYY" (two uppercase 4-digit fields). The label is what
// the model is asked to transcribe back, so decoding a label is a string
// parse plus a bounds check, never an estimation.
package grid

import (
	"errors"
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"
)

// DefaultCellSize is the grid pitch in physical pixels. Smaller cells give
// finer targeting but denser labels; this is a deployment tunable.
const DefaultCellSize = 40

var (
	// ErrMalformed reports a label that does not match the
	// 4-hex-digit,4-hex-digit shape.
	ErrMalformed = errors.New("malformed coordinate label")

	// ErrOutOfRange reports a well-formed label whose origin lies outside
	// the capture dimensions.
	ErrOutOfRange = errors.New("coordinate label out of range")
)

// labelRe is the strict label shape. Decoding tolerates lowercase since
// models occasionally down-case hex; everything else is rejected.
var labelRe = regexp.MustCompile(`^([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})$`)

// Spec holds the grid configuration. The label format is fixed; the only
// degree of freedom is the cell size.
type Spec struct {
	CellSize int
}

// DefaultSpec returns a Spec with the default cell size.
func DefaultSpec() Spec {
	return Spec{CellSize: DefaultCellSize}
}

// Validate checks that the spec can partition any non-empty capture.
func (s Spec) Validate() error {
	if s.CellSize <= 0 {
		return fmt.Errorf("grid cell size must be positive, got %d", s.CellSize)
	}
	return nil
}

// Columns returns the number of grid columns for a capture width.
// A capture narrower than one cell still yields one column.
func (s Spec) Columns(width int) int {
	return ceilDiv(width, s.CellSize)
}

// Rows returns the number of grid rows for a capture height.
func (s Spec) Rows(height int) int {
	return ceilDiv(height, s.CellSize)
}

// CellOrigin returns the top-left origin of a cell in physical pixels.
func (s Spec) CellOrigin(col, row int) image.Point {
	return image.Point{X: col * s.CellSize, Y: row * s.CellSize}
}

// CellAt returns the (column, row) of the cell containing a pixel.
func (s Spec) CellAt(x, y int) (int, int) {
	return x / s.CellSize, y / s.CellSize
}

// FormatLabel encodes a cell origin as its coordinate label.
func FormatLabel(x, y int) string {
	return fmt.Sprintf("%04X,%04X", x, y)
}

// ResolveLabel decodes a coordinate label back into a pixel origin and
// validates it against the capture dimensions.
//
// Any in-range pair is accepted even if it is not an exact cell-size
// multiple: a model that reads a neighbouring label imprecisely should
// still produce a usable point, and downstream clamping absorbs boundary
// excursions. Do not add snapping here.
func ResolveLabel(label string, width, height int) (image.Point, error) {
	m := labelRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return image.Point{}, fmt.Errorf("%w: %q", ErrMalformed, label)
	}

	x, err := strconv.ParseUint(m[1], 16, 16)
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %q", ErrMalformed, label)
	}
	y, err := strconv.ParseUint(m[2], 16, 16)
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %q", ErrMalformed, label)
	}

	if int(x) >= width || int(y) >= height {
		return image.Point{}, fmt.Errorf("%w: %q exceeds %dx%d", ErrOutOfRange, label, width, height)
	}

	return image.Point{X: int(x), Y: int(y)}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
