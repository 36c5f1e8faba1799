package panel

// State is a panel's lifecycle position.
type State int

const (
	// StateLoading: the surface has not signalled readiness; no plugin
	// attachment exists whatever the enabled flag says.
	StateLoading State = iota
	// StateReady: surface ready, plugin disabled, no attachment.
	StateReady
	// StateAttached: surface ready, plugin enabled, attachment live.
	StateAttached
	// StateFailed: surface or plugin setup failed. Terminal for this panel.
	StateFailed
	// StateDestroyed: panel removed. Terminal.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateAttached:
		return "Attached"
	case StateFailed:
		return "Failed"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateFailed || s == StateDestroyed
}
