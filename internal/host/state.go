package host

// State is the lifecycle phase of a host messenger's channel.
type State int

const (
	// StateIdle means no channel port is retained.
	StateIdle State = iota
	// StateAwaitingConnection means a port was transferred but nothing has
	// arrived over it yet.
	StateAwaitingConnection
	// StateConnected means at least one valid message arrived over the port.
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConnection:
		return "awaiting_connection"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// channelState is the mutable connection state of one messenger. It is only
// touched with the messenger's mutex held.
type channelState struct {
	phase State
}

// transition moves to next and reports whether the connected flag flipped.
func (s *channelState) transition(next State) bool {
	was := s.phase == StateConnected
	s.phase = next

	return was != (next == StateConnected)
}

func (s *channelState) connected() bool {
	return s.phase == StateConnected
}
