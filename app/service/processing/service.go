package processing

import (
	"context"
	"fmt"
	"log/slog"

	"statebot/app/client/lookup"
	"statebot/app/client/messenger"
	"statebot/app/service/conversation"
	"statebot/app/service/geo"
	"statebot/app/service/users"

	"github.com/samber/do"
)

// Sender delivers formatted replies to a platform user.
type Sender interface {
	SendText(ctx context.Context, recipientID, text string) error
	RequestLocation(ctx context.Context, recipientID string) error
}

// Resolver maps coordinates to a jurisdiction.
type Resolver interface {
	Resolve(lat, long float64) (string, bool)
}

// Rules is the downstream business-rule lookup.
type Rules interface {
	Lookup(ctx context.Context, params map[string]any) (map[string]any, error)
}

var _ Sender = (*messenger.Client)(nil)
var _ Resolver = (*geo.Service)(nil)
var _ Rules = (*lookup.Client)(nil)

// Service reacts to state machine signals: it prompts for locations,
// resolves jurisdictions and replies with lookup results.
type Service struct {
	resolver Resolver
	sender   Sender
	rules    Rules
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*geo.Service](di),
		do.MustInvoke[*messenger.Client](di),
		do.MustInvoke[*lookup.Client](di),
	), nil
}

func NewService(resolver Resolver, sender Sender, rules Rules) *Service {
	return &Service{
		resolver: resolver,
		sender:   sender,
		rules:    rules,
	}
}

// HandleSignal dispatches one state machine outcome for a user.
func (s *Service) HandleSignal(ctx context.Context, user *users.User, signal conversation.Signal) error {
	switch signal {
	case conversation.SignalTextReceived:
		return s.processUserMessage(ctx, user)
	case conversation.SignalLocationReceived:
		return s.userLocationUpdate(ctx, user)
	default:
		return nil
	}
}

// processUserMessage handles a plain text message. A user without a known
// location is asked to share one; otherwise their last location answers the
// message.
func (s *Service) processUserMessage(ctx context.Context, user *users.User) error {
	if user.Coordinates == nil {
		user.State = conversation.StateAwaitingLocation

		if err := s.sender.RequestLocation(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to request location: %w", err)
		}

		return nil
	}

	return s.replyWithJurisdiction(ctx, user)
}

// userLocationUpdate handles a fresh location share. A geocode miss is
// degraded gracefully by asking again instead of surfacing an error.
func (s *Service) userLocationUpdate(ctx context.Context, user *users.User) error {
	slog.Info("User shared location",
		"sender_id", user.ID,
		"state", user.State)

	return s.replyWithJurisdiction(ctx, user)
}

func (s *Service) replyWithJurisdiction(ctx context.Context, user *users.User) error {
	state, found := s.resolver.Resolve(user.Coordinates.Lat, user.Coordinates.Long)
	if !found {
		user.State = conversation.StateAwaitingLocation

		if err := s.sender.RequestLocation(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to re-request location: %w", err)
		}

		return nil
	}

	user.State = conversation.StateActive

	reply := fmt.Sprintf("Looks like you're in %s.", state)

	result, err := s.rules.Lookup(ctx, map[string]any{"state": state})
	if err != nil {
		slog.Error("Rules lookup failed", "state", state, "error", err)
	} else if msg, ok := result["message"].(string); ok && msg != "" {
		reply = msg
	}

	if err := s.sender.SendText(ctx, user.ID, reply); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	return nil
}
