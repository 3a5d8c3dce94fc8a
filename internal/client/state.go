package client

// Phase is the lifecycle phase of a Manager's channel.
type Phase int

const (
	// PhaseUnattached means no port is held and no request is outstanding.
	PhaseUnattached Phase = iota
	// PhaseRequestSent means a channel request was posted to the parent.
	PhaseRequestSent
	// PhaseEndpointReceived means a port arrived and is being set up.
	PhaseEndpointReceived
	// PhaseHandshakeSent means the handshake went out over the port.
	PhaseHandshakeSent
	// PhaseConnected means a valid message arrived over the port.
	PhaseConnected
)

func (p Phase) String() string {
	switch p {
	case PhaseUnattached:
		return "unattached"
	case PhaseRequestSent:
		return "request_sent"
	case PhaseEndpointReceived:
		return "endpoint_received"
	case PhaseHandshakeSent:
		return "handshake_sent"
	case PhaseConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// channelState is the Manager's mutable connection state. It is only touched
// with the Manager's mutex held.
type channelState struct {
	phase     Phase
	connected bool

	// pending is set when the channel is lost while handles are still
	// connected, and cleared once a request reaches the parent.
	pending bool
}

// attached records a freshly received port.
func (s *channelState) attached() {
	s.phase = PhaseEndpointReceived
	s.connected = true
	s.pending = false
}

// handshakeSent advances past EndpointReceived unless traffic already
// arrived.
func (s *channelState) handshakeSent() {
	if s.phase == PhaseEndpointReceived {
		s.phase = PhaseHandshakeSent
	}
}

func (s *channelState) received() {
	s.phase = PhaseConnected
	s.connected = true
}

func (s *channelState) requested() {
	s.pending = false

	if s.phase == PhaseUnattached {
		s.phase = PhaseRequestSent
	}
}

// lost drops back to Unattached. retry marks a re-request as owed.
func (s *channelState) lost(retry bool) {
	s.phase = PhaseUnattached
	s.connected = false
	s.pending = retry
}
