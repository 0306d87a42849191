package telephony

import (
	"errors"
	"fmt"
)

// State represents the lifecycle state of a call session.
type State int

const (
	// StateWaitingStart - Connection accepted, stream not yet bound.
	StateWaitingStart State = iota
	// StateStreaming - Stream bound, media flowing.
	StateStreaming
	// StateEnded - Session torn down. Terminal; every event after this
	// is an idempotent no-op.
	StateEnded
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateWaitingStart:
		return "WAITING_START"
	case StateStreaming:
		return "STREAMING"
	case StateEnded:
		return "ENDED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// IsTerminal returns true if the state is terminal.
func (s State) IsTerminal() bool {
	return s == StateEnded
}

// Errors for invalid state transitions.
var (
	ErrSessionEnded     = errors.New("session has ended")
	ErrStreamNotStarted = errors.New("stream has not started")
)
