// Package pipeline orchestrates one targeting run: capture the screen,
// burn in the coordinate grid, ask the vision model for a label, parse the
// reply, transform the label into a logical click point and act on it.
//
// A run is a single linear pass with no internal retries and no feedback
// loop; concurrent runs against one display are not supported and must be
// serialized by the caller.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/OpenBitX/seeclaw/internal/utils"
	"github.com/OpenBitX/seeclaw/pkg/client"
	"github.com/OpenBitX/seeclaw/pkg/grid"
	"github.com/OpenBitX/seeclaw/pkg/parse"
	"github.com/OpenBitX/seeclaw/pkg/processing"
	"github.com/OpenBitX/seeclaw/pkg/prompt"
	"github.com/OpenBitX/seeclaw/pkg/transform"
	"github.com/OpenBitX/seeclaw/pkg/types"
)

// Capturer yields the current display content in physical pixels.
type Capturer interface {
	Capture() (image.Image, error)
}

// Actor injects pointer input in logical display coordinates.
type Actor interface {
	ScreenSize() (int, int)
	MoveClick(x, y int) error
}

// Options configures a Pipeline.
type Options struct {
	Model string
	Grid  grid.Spec

	// DebugDir, when set, receives the raw capture, the grid overlay and
	// the target-mark image of every run. Advisory artifacts only.
	DebugDir     string
	DebugFormat  string
	DebugQuality int

	Logger *zap.Logger
}

// Result describes a completed run. On success State is StateActed; a
// failed run additionally surfaces a *Failure as the error.
type Result struct {
	State   State
	Label   string
	Origin  image.Point
	Target  types.TargetPoint
	Action  types.ActionPoint
	Reply   string
	Elapsed time.Duration
}

// Pipeline wires the three collaborators to the grid codec, the prompt
// protocol, the reply parser and the coordinate transform.
type Pipeline struct {
	capturer Capturer
	vision   client.VisionClient
	actor    Actor
	proc     *processing.Processor
	opts     Options
	log      *zap.Logger
}

// New creates a Pipeline. The grid spec is validated here; everything
// downstream assumes a positive cell size.
func New(capturer Capturer, vision client.VisionClient, actor Actor, opts Options) (*Pipeline, error) {
	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}
	if opts.DebugFormat == "" {
		opts.DebugFormat = "png"
	}
	if opts.DebugQuality <= 0 {
		opts.DebugQuality = 92
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Pipeline{
		capturer: capturer,
		vision:   vision,
		actor:    actor,
		proc:     processing.NewProcessor(),
		opts:     opts,
		log:      log,
	}, nil
}

// Run performs one targeting attempt for the given natural-language goal.
func (p *Pipeline) Run(ctx context.Context, goal string) (*Result, error) {
	start := time.Now()
	res := &Result{State: StateIdle}

	img, err := p.capturer.Capture()
	if err != nil {
		return p.failed(res, fail(CaptureUnavailable, StateIdle, err))
	}
	frame := types.FrameOf(img)
	res.State = StateCaptured
	p.log.Debug("captured screen",
		zap.Int("width", frame.Width), zap.Int("height", frame.Height))
	p.saveDebug(img, "capture")

	overlay := grid.RenderOverlay(img, p.opts.Grid)
	res.State = StateOverlaid
	p.saveDebug(overlay, "overlay")

	pngBytes, err := p.proc.EncodePNG(overlay)
	if err != nil {
		// Not a transport error, but an unencodable frame means the query
		// can never be issued; callers see it under the query class.
		return p.failed(res, fail(QueryFailed, StateOverlaid, err))
	}

	instruction := prompt.BuildInstruction(goal, p.opts.Grid, frame.Width, frame.Height)
	reply, err := p.vision.Query(ctx, p.opts.Model, instruction, pngBytes)
	if err != nil {
		return p.failed(res, fail(QueryFailed, StateOverlaid, err))
	}
	res.State = StateQueried
	res.Reply = reply
	p.log.Debug("model replied", zap.Int("reply_len", len(reply)))

	label, err := parse.Extract(reply, frame.Width, frame.Height)
	if err != nil {
		return p.failed(res, fail(TargetNotFound, StateQueried, err))
	}
	res.Label = label

	origin, err := grid.ResolveLabel(label, frame.Width, frame.Height)
	if err != nil {
		return p.failed(res, fail(CoordinateOutOfRange, StateQueried, err))
	}
	res.State = StateParsed
	res.Origin = origin
	p.log.Info("target located",
		zap.String("label", label), zap.Int("x", origin.X), zap.Int("y", origin.Y))

	target := transform.CellCenter(origin, p.opts.Grid.CellSize, frame.Width, frame.Height)
	logW, logH := p.actor.ScreenSize()
	action, err := transform.ToActionPoint(target, frame.Width, frame.Height, logW, logH)
	if err != nil {
		return p.failed(res, fail(CoordinateOutOfRange, StateParsed, err))
	}
	res.State = StateTransformed
	res.Target = target
	res.Action = action
	p.saveDebug(p.proc.DrawTargetMark(img, origin, p.opts.Grid.CellSize, target), "target")

	if err := p.actor.MoveClick(action.X, action.Y); err != nil {
		return p.failed(res, fail(ActionFailed, StateTransformed, err))
	}
	res.State = StateActed
	res.Elapsed = time.Since(start)
	p.log.Info("clicked",
		zap.Int("x", action.X), zap.Int("y", action.Y),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}

// SelfTest sends a plain describe-prompt with the current capture to
// verify the backend can see images at all.
func (p *Pipeline) SelfTest(ctx context.Context) (string, error) {
	img, err := p.capturer.Capture()
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}

	pngBytes, err := p.proc.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	return p.vision.Query(ctx, p.opts.Model, prompt.SelfTestPrompt, pngBytes)
}

func (p *Pipeline) failed(res *Result, f *Failure) (*Result, error) {
	res.State = StateFailed
	p.log.Warn("run failed",
		zap.String("classification", f.Kind.String()),
		zap.String("reached", f.State.String()),
		zap.Error(f.Err))
	return res, f
}

// saveDebug persists a debug artifact when a debug directory is set. A
// save failure is logged and otherwise ignored; artifacts are not part of
// the run's contract.
func (p *Pipeline) saveDebug(img image.Image, stem string) {
	if p.opts.DebugDir == "" {
		return
	}

	path, err := utils.ArtifactPath(p.opts.DebugDir, stem, p.opts.DebugFormat)
	if err != nil {
		p.log.Warn("debug artifact skipped", zap.Error(err))
		return
	}

	if err := p.proc.SaveImage(img, path, p.opts.DebugFormat, p.opts.DebugQuality, false); err != nil {
		p.log.Warn("debug artifact save failed", zap.String("path", path), zap.Error(err))
		return
	}
	p.log.Debug("wrote debug artifact", zap.String("path", path))
}
