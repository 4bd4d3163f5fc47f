// Package screen implements the capture and input-injection collaborators
// on top of RobotGo. Capture yields physical pixels; injection works in the
// operating system's logical coordinate space, which RobotGo uses natively.
package screen

import (
	"fmt"
	"image"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/OpenBitX/seeclaw/pkg/processing"
)

// Controller drives the local display: full-surface capture, logical
// screen size, and move-and-click injection.
type Controller struct {
	screenWidth  int
	screenHeight int
	settle       time.Duration
}

// NewController creates a Controller. The settle delay is slept between
// moving the cursor and pressing the button so the UI under the cursor can
// react (hover states, tooltips displacing the target, focus changes).
func NewController(settle time.Duration) *Controller {
	width, height := robotgo.GetScreenSize()

	return &Controller{
		screenWidth:  width,
		screenHeight: height,
		settle:       settle,
	}
}

// Capture grabs the full virtual display surface at native resolution:
// the union of every attached monitor, not just the main display.
func (c *Controller) Capture() (image.Image, error) {
	r := virtualBounds(robotgo.DisplaysNum(), robotgo.GetDisplayBounds)
	bitmap := robotgo.CaptureScreen(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	if bitmap == nil {
		return nil, fmt.Errorf("failed to capture screen")
	}
	defer robotgo.FreeBitmap(bitmap)

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, fmt.Errorf("failed to convert bitmap to image")
	}

	return img, nil
}

// ScreenSize returns the logical display dimensions.
func (c *Controller) ScreenSize() (int, int) {
	return c.screenWidth, c.screenHeight
}

// MoveClick moves the cursor to logical coordinates, waits the settle
// delay, then performs a single left click.
func (c *Controller) MoveClick(x, y int) error {
	if x < 0 || y < 0 || x > c.screenWidth || y > c.screenHeight {
		return fmt.Errorf("invalid coordinates: (%d,%d) exceeds screen bounds (%d,%d)",
			x, y, c.screenWidth, c.screenHeight)
	}

	robotgo.Move(x, y)
	if c.settle > 0 {
		time.Sleep(c.settle)
	}
	robotgo.Click("left", false)

	return nil
}

// virtualBounds unions the bounds of n attached displays. A monitor left
// of or above the primary gives the union a negative origin.
func virtualBounds(n int, bounds func(int) (x, y, w, h int)) image.Rectangle {
	if n < 1 {
		n = 1
	}

	x, y, w, h := bounds(0)
	union := image.Rect(x, y, x+w, y+h)
	for i := 1; i < n; i++ {
		x, y, w, h = bounds(i)
		union = union.Union(image.Rect(x, y, x+w, y+h))
	}
	return union
}

// FileCapturer replays a saved screenshot instead of grabbing the display.
// Used for dry runs against recorded captures.
type FileCapturer struct {
	Path string

	proc *processing.Processor
}

// NewFileCapturer creates a capturer that loads the given image file.
func NewFileCapturer(path string) *FileCapturer {
	return &FileCapturer{Path: path, proc: processing.NewProcessor()}
}

// Capture loads the file; jpg, png and webp are supported.
func (f *FileCapturer) Capture() (image.Image, error) {
	img, err := f.proc.LoadImage(f.Path)
	if err != nil {
		return nil, fmt.Errorf("load capture file: %w", err)
	}
	return img, nil
}

// NopActor satisfies the injection contract without touching the mouse.
// It reports the given logical screen size and swallows clicks; paired
// with FileCapturer for dry runs.
type NopActor struct {
	Width  int
	Height int
}

func (n *NopActor) ScreenSize() (int, int) {
	return n.Width, n.Height
}

func (n *NopActor) MoveClick(x, y int) error {
	return nil
}
