package service

// State is the phase of the coverage service's refresh machinery. It is
// owned exclusively by the Service and only changes through its operations.
type State int

const (
	StateInitializing State = iota
	StateLoading
	StateRendering
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateLoading:
		return "loading"
	case StateRendering:
		return "rendering"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
