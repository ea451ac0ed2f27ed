package state

// RunState represents the lifecycle of a range run
type RunState int

const (
	StateLoading RunState = iota
	StateRunning
	StatePaused
	StateFinished
	StateFailed
)

// String returns the string representation of the run state
func (s RunState) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateFinished:
		return "Finished"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Active reports whether ticks may still be stepped
func (s RunState) Active() bool {
	return s == StateRunning || s == StatePaused
}

// Toggle switches between running and paused; other states are unchanged
func (s RunState) Toggle() RunState {
	switch s {
	case StateRunning:
		return StatePaused
	case StatePaused:
		return StateRunning
	default:
		return s
	}
}
