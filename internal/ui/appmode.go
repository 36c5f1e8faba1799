package ui

// AppMode represents which region receives keys.
type AppMode int

const (
	ModeGrid AppMode = iota
	ModeEventLog
)

func (m AppMode) String() string {
	switch m {
	case ModeGrid:
		return "Grid"
	case ModeEventLog:
		return "EventLog"
	default:
		return "Unknown"
	}
}
