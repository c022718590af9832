package lifecycle

// State is the position of a server in its Accepting → Draining → Stopped
// progression. Transitions only move forward.
type State int32

const (
	StateAccepting State = iota + 1
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateAccepting:
		return "accepting"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// EventStateChanged is the event type of StateChanged on the dispatcher.
const EventStateChanged = 0x5c01

// StateChanged is published on every state transition of a Handle.
type StateChanged struct {
	Addr string
	From State
	To   State

	// Err is the completion error, only set when To is StateStopped.
	Err error
}

func (StateChanged) Type() uint32 { return EventStateChanged }
