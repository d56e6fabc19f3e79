package conversation

import (
	"log/slog"
	"statebot/app/service/users"

	"github.com/samber/do"
)

// Service advances a user's conversation state for one inbound event. It
// only mutates the user and reports which branch fired; jurisdiction
// resolution and replies belong to the processing layer.
type Service struct {
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

// Transition applies first-match-wins rules: a location share wins over an
// accompanying text caption, text comes second, an empty event is a no-op.
func (s *Service) Transition(user *users.User, event InboundEvent) Signal {
	if event.Coordinates != nil {
		user.AddCoordinates(event.Coordinates.Lat, event.Coordinates.Long)
		user.State = StateActive

		slog.Debug("Recorded coordinates",
			"sender_id", user.ID,
			"lat", event.Coordinates.Lat,
			"long", event.Coordinates.Long,
			"state", user.State)

		return SignalLocationReceived
	}

	if event.Text != "" {
		user.AppendMessage(event.Text)

		if user.State == "" {
			user.State = StateNew
		}

		slog.Debug("Recorded message",
			"sender_id", user.ID,
			"text", event.Text,
			"state", user.State)

		return SignalTextReceived
	}

	return SignalNone
}
