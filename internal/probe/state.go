package probe

// State is the integrity classification of a single media file.
type State int

const (
	StateUnknown State = iota
	StateHealthy
	StateMissing
	StateEmpty
	StateDecodeError
)

var stateNames = map[State]string{
	StateUnknown:     "unknown",
	StateHealthy:     "healthy",
	StateMissing:     "missing",
	StateEmpty:       "empty",
	StateDecodeError: "decode-error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the state name for JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// States lists every classification in display order.
func States() []State {
	return []State{StateHealthy, StateMissing, StateEmpty, StateDecodeError}
}
