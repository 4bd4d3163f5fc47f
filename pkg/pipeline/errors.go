package pipeline

import "fmt"

// FailureKind classifies a failed run. Every stage-local error is mapped
// to exactly one kind; retry policy is the caller's decision.
type FailureKind int

const (
	// CaptureUnavailable: the capture collaborator produced no image.
	CaptureUnavailable FailureKind = iota
	// QueryFailed: transport or API failure talking to the vision model.
	QueryFailed
	// TargetNotFound: the model reported no match, or neither parse stage
	// recovered a label from its reply.
	TargetNotFound
	// CoordinateOutOfRange: a decoded or transformed point falls outside
	// the capture or display bounds.
	CoordinateOutOfRange
	// ActionFailed: the input-injection collaborator rejected the point.
	ActionFailed
)

func (k FailureKind) String() string {
	switch k {
	case CaptureUnavailable:
		return "capture unavailable"
	case QueryFailed:
		return "query failed"
	case TargetNotFound:
		return "no target located"
	case CoordinateOutOfRange:
		return "out-of-bounds target"
	case ActionFailed:
		return "action failed"
	default:
		return "unknown failure"
	}
}

// State is a position in the run's linear state machine. A run walks the
// states in order exactly once; no state is revisited.
type State int

const (
	StateIdle State = iota
	StateCaptured
	StateOverlaid
	StateQueried
	StateParsed
	StateTransformed
	StateActed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCaptured:
		return "captured"
	case StateOverlaid:
		return "overlaid"
	case StateQueried:
		return "queried"
	case StateParsed:
		return "parsed"
	case StateTransformed:
		return "transformed"
	case StateActed:
		return "acted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Failure is the terminal error of a failed run: its classification, the
// last state the run reached, and the underlying cause.
type Failure struct {
	Kind  FailureKind
	State State
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("targeting failed after %s: %s: %v", f.State, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func fail(kind FailureKind, state State, err error) *Failure {
	return &Failure{Kind: kind, State: state, Err: err}
}
