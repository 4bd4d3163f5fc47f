// Package seeclaw provides grid-based visual grounding for desktop UI
// automation: it lets a vision-capable model cause a click on an on-screen
// element without native accessibility APIs.
//
// Instead of asking the model to estimate pixel coordinates, seeclaw burns a
// machine-readable hexadecimal coordinate grid into a screenshot and asks
// the model to transcribe the label of the cell containing the target. The
// label decodes back to a pixel origin, which is transformed through the
// capture-to-logical display scaling into a click point.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"time"
//
//		"github.com/OpenBitX/seeclaw"
//		"github.com/OpenBitX/seeclaw/pkg/grid"
//		"github.com/OpenBitX/seeclaw/pkg/ollama"
//		"github.com/OpenBitX/seeclaw/pkg/pipeline"
//		"github.com/OpenBitX/seeclaw/pkg/screen"
//	)
//
//	func main() {
//		vision, err := ollama.NewClient("http://localhost:11434")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		controller := screen.NewController(500 * time.Millisecond)
//		targeter, err := seeclaw.New(controller, vision, controller, pipeline.Options{
//			Model: "qwen2.5vl",
//			Grid:  grid.DefaultSpec(),
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		res, err := targeter.Click(context.Background(), "the browser address bar")
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("clicked %s at (%d,%d)", res.Label, res.Action.X, res.Action.Y)
//	}
//
// The package consists of five components, wired by pkg/pipeline:
//
// 1. Grid codec (pkg/grid): hex label encode/decode and overlay rendering
// 2. Prompt protocol (pkg/prompt): the instruction and reply grammar
// 3. Response parser (pkg/parse): structured-then-pattern label extraction
// 4. Coordinate transform (pkg/transform): physical center to logical point
// 5. Collaborators: screen capture and input injection (pkg/screen), vision
// backends (pkg/ollama, pkg/llamacpp)
//
// Each run is stateless and strictly sequential; callers must not start a
// second run while one is in flight on the same display.
package seeclaw

import (
	"context"

	"github.com/OpenBitX/seeclaw/pkg/client"
	"github.com/OpenBitX/seeclaw/pkg/pipeline"
)

// Version of the seeclaw library
const Version = "1.0.0"

// Targeter is the high-level interface: one call, one capture, one click.
type Targeter struct {
	pipeline *pipeline.Pipeline
}

// New creates a Targeter from the three collaborators. A single value may
// serve as both Capturer and Actor, as screen.Controller does.
func New(capturer pipeline.Capturer, vision client.VisionClient, actor pipeline.Actor, opts pipeline.Options) (*Targeter, error) {
	p, err := pipeline.New(capturer, vision, actor, opts)
	if err != nil {
		return nil, err
	}
	return &Targeter{pipeline: p}, nil
}

// Click locates the UI element described by goal and clicks it. The
// returned Result carries the resolved label and points even when the run
// fails partway; the error, if any, is a *pipeline.Failure classifying
// which stage died and why.
func (t *Targeter) Click(ctx context.Context, goal string) (*pipeline.Result, error) {
	return t.pipeline.Run(ctx, goal)
}

// SelfTest verifies the vision backend can see images by asking it to
// describe the current capture.
func (t *Targeter) SelfTest(ctx context.Context) (string, error) {
	return t.pipeline.SelfTest(ctx)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
