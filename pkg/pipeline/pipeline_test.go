package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/OpenBitX/seeclaw/pkg/grid"
	"github.com/OpenBitX/seeclaw/pkg/parse"
	"github.com/OpenBitX/seeclaw/pkg/types"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 128) / width)
			g := uint8((y * 128) / height)
			img.Set(x, y, color.RGBA{r, g, 64, 255})
		}
	}

	return img
}

type stubCapturer struct {
	img image.Image
	err error
}

func (s *stubCapturer) Capture() (image.Image, error) {
	return s.img, s.err
}

type stubVision struct {
	reply     string
	err       error
	gotPrompt string
	gotPNG    []byte
}

func (s *stubVision) Query(_ context.Context, _, prompt string, png []byte) (string, error) {
	s.gotPrompt = prompt
	s.gotPNG = png
	return s.reply, s.err
}

type stubActor struct {
	width  int
	height int
	err    error
	clicks []types.ActionPoint
}

func (s *stubActor) ScreenSize() (int, int) {
	return s.width, s.height
}

func (s *stubActor) MoveClick(x, y int) error {
	if s.err != nil {
		return s.err
	}
	s.clicks = append(s.clicks, types.ActionPoint{X: x, Y: y})
	return nil
}

func newTestPipeline(t *testing.T, cap Capturer, vis *stubVision, act *stubActor) *Pipeline {
	t.Helper()

	p, err := New(cap, vis, act, Options{
		Model: "test-model",
		Grid:  grid.Spec{CellSize: 40},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestRunEndToEnd(t *testing.T) {
	capturer := &stubCapturer{img: createTestImage(1920, 1080)}
	vision := &stubVision{reply: `{"hex_coord": "0280,0140", "reasoning": "save button"}`}
	actor := &stubActor{width: 1920, height: 1080} // logical == physical

	p := newTestPipeline(t, capturer, vision, actor)

	res, err := p.Run(context.Background(), "click the save button")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.State != StateActed {
		t.Errorf("expected StateActed, got %s", res.State)
	}
	if res.Label != "0280,0140" {
		t.Errorf("expected label 0280,0140, got %s", res.Label)
	}
	if res.Origin.X != 640 || res.Origin.Y != 320 {
		t.Errorf("expected origin (640,320), got %v", res.Origin)
	}
	if res.Target.X != 660 || res.Target.Y != 340 {
		t.Errorf("expected target (660,340), got (%d,%d)", res.Target.X, res.Target.Y)
	}
	if res.Action.X != 660 || res.Action.Y != 340 {
		t.Errorf("expected action (660,340), got (%d,%d)", res.Action.X, res.Action.Y)
	}

	if len(actor.clicks) != 1 {
		t.Fatalf("expected exactly one click, got %d", len(actor.clicks))
	}
	if actor.clicks[0] != (types.ActionPoint{X: 660, Y: 340}) {
		t.Errorf("clicked at %v", actor.clicks[0])
	}

	if !strings.Contains(vision.gotPrompt, "click the save button") {
		t.Error("goal missing from instruction")
	}
	if !strings.Contains(vision.gotPrompt, "48 columns x 27 rows") {
		t.Error("grid dimensions missing from instruction")
	}
	if len(vision.gotPNG) == 0 {
		t.Error("no image sent to the model")
	}
}

func TestRunAppliesDisplayScaling(t *testing.T) {
	capturer := &stubCapturer{img: createTestImage(2560, 1440)}
	vision := &stubVision{reply: `{"hex_coord": "0280,01E0", "reasoning": "icon"}`}
	actor := &stubActor{width: 1280, height: 720} // 0.5 per axis

	p := newTestPipeline(t, capturer, vision, actor)

	res, err := p.Run(context.Background(), "click the icon")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Target.X != 660 || res.Target.Y != 500 {
		t.Errorf("expected target (660,500), got (%d,%d)", res.Target.X, res.Target.Y)
	}
	if res.Action.X != 330 || res.Action.Y != 250 {
		t.Errorf("expected action (330,250), got (%d,%d)", res.Action.X, res.Action.Y)
	}
}

func TestRunFallbackParseFromProse(t *testing.T) {
	capturer := &stubCapturer{img: createTestImage(1920, 1080)}
	vision := &stubVision{reply: "I think around 0280, 0140 you'll find it"}
	actor := &stubActor{width: 1920, height: 1080}

	p := newTestPipeline(t, capturer, vision, actor)

	res, err := p.Run(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Label != "0280,0140" {
		t.Errorf("expected fallback label 0280,0140, got %s", res.Label)
	}
}

func TestRunCaptureFailure(t *testing.T) {
	capturer := &stubCapturer{err: fmt.Errorf("no capturable surface")}
	p := newTestPipeline(t, capturer, &stubVision{}, &stubActor{width: 1, height: 1})

	res, err := p.Run(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected failure")
	}

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if f.Kind != CaptureUnavailable {
		t.Errorf("expected CaptureUnavailable, got %s", f.Kind)
	}
	if f.State != StateIdle {
		t.Errorf("expected failure at idle, got %s", f.State)
	}
	if res.State != StateFailed {
		t.Errorf("expected StateFailed, got %s", res.State)
	}
}

func TestRunQueryFailure(t *testing.T) {
	capturer := &stubCapturer{img: createTestImage(200, 200)}
	vision := &stubVision{err: fmt.Errorf("connection refused")}
	p := newTestPipeline(t, capturer, vision, &stubActor{width: 200, height: 200})

	_, err := p.Run(context.Background(), "anything")

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.Kind != QueryFailed {
		t.Errorf("expected QueryFailed, got %s", f.Kind)
	}
	if f.State != StateOverlaid {
		t.Errorf("expected failure after overlaid, got %s", f.State)
	}
}

func TestRunNoTargetFound(t *testing.T) {
	capturer := &stubCapturer{img: createTestImage(200, 200)}
	vision := &stubVision{reply: `{"hex_coord": null, "reasoning": "nothing matches"}`}
	actor := &stubActor{width: 200, height: 200}

	p := newTestPipeline(t, capturer, vision, actor)

	_, err := p.Run(context.Background(), "anything")

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.Kind != TargetNotFound {
		t.Errorf("expected TargetNotFound, got %s", f.Kind)
	}
	if !errors.Is(err, parse.ErrNoTarget) {
		t.Error("expected the cause to unwrap to parse.ErrNoTarget")
	}
	if len(actor.clicks) != 0 {
		t.Error("a failed run must not click")
	}
}

func TestRunOutOfRangeLabel(t *testing.T) {
	capturer := &stubCapturer{img: createTestImage(200, 200)}
	// Fallback pass picks this up; resolution against 200x200 rejects it.
	vision := &stubVision{reply: "the target is at FFFF,FFFF"}
	actor := &stubActor{width: 200, height: 200}

	p := newTestPipeline(t, capturer, vision, actor)

	_, err := p.Run(context.Background(), "anything")

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.Kind != CoordinateOutOfRange {
		t.Errorf("expected CoordinateOutOfRange, got %s", f.Kind)
	}
	if !errors.Is(err, grid.ErrOutOfRange) {
		t.Error("expected the cause to unwrap to grid.ErrOutOfRange")
	}
}

func TestRunActionFailure(t *testing.T) {
	capturer := &stubCapturer{img: createTestImage(200, 200)}
	vision := &stubVision{reply: `{"hex_coord": "0028,0028", "reasoning": "x"}`}
	actor := &stubActor{width: 200, height: 200, err: fmt.Errorf("injection rejected")}

	p := newTestPipeline(t, capturer, vision, actor)

	_, err := p.Run(context.Background(), "anything")

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if f.Kind != ActionFailed {
		t.Errorf("expected ActionFailed, got %s", f.Kind)
	}
	if f.State != StateTransformed {
		t.Errorf("expected failure after transformed, got %s", f.State)
	}
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	_, err := New(&stubCapturer{}, &stubVision{}, &stubActor{}, Options{
		Grid: grid.Spec{CellSize: 0},
	})
	if err == nil {
		t.Error("expected error for invalid grid spec")
	}
}

func TestSelfTest(t *testing.T) {
	capturer := &stubCapturer{img: createTestImage(100, 100)}
	vision := &stubVision{reply: "A grey gradient test pattern."}

	p := newTestPipeline(t, capturer, vision, &stubActor{width: 100, height: 100})

	reply, err := p.SelfTest(context.Background())
	if err != nil {
		t.Fatalf("SelfTest failed: %v", err)
	}

	if reply != "A grey gradient test pattern." {
		t.Errorf("unexpected reply: %s", reply)
	}
	if !strings.Contains(vision.gotPrompt, "What do you see") {
		t.Error("self-test prompt not sent")
	}
}
