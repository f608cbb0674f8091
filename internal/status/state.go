// internal/status/state.go
package status

// State is the externally visible reachability of a logger.
// The numeric value is written verbatim into the status block.
type State uint16

const (
	StateUnknown State = 0
	StateOnline  State = 1
	StateLimbo   State = 2
	StateOffline State = 3
)

func (s State) String() string {
	switch s {
	case StateOnline:
		return "online"
	case StateLimbo:
		return "limbo"
	case StateOffline:
		return "offline"
	default:
		return "unknown"
	}
}
