package profiling

// State is the coordinator's lifecycle state.
type State int

const (
	// StateIdle means the profiler is constructed but not sampling.
	StateIdle State = iota
	// StateMonitoring means periodic sampling is active.
	StateMonitoring
	// StateDisabled means the profiler is administratively off; every
	// operation except Enable is suppressed.
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMonitoring:
		return "monitoring"
	case StateDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}
