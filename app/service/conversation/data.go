package conversation

import "statebot/app/service/geo"

// Conversation states. StateNew and StateActive are equivalent gateways
// into message handling; StateAwaitingLocation is entered by the processing
// layer when it prompts for a location and exited here once coordinates
// arrive.
const (
	StateNew              = "new"
	StateAwaitingLocation = "awaiting_location"
	StateActive           = "active"
)

// InboundEvent is one normalized unit of user activity extracted from a
// webhook delivery. At most one of Text and Coordinates is meaningful; an
// event carrying neither is a no-op.
type InboundEvent struct {
	SenderID    string
	Text        string
	Coordinates *geo.Coordinates
}

// Signal tells the processing layer which transition branch fired.
type Signal int

const (
	SignalNone Signal = iota
	SignalTextReceived
	SignalLocationReceived
)

func (s Signal) String() string {
	switch s {
	case SignalTextReceived:
		return "text_received"
	case SignalLocationReceived:
		return "location_received"
	default:
		return "none"
	}
}
