package processing

import (
	"context"
	"errors"
	"testing"

	"statebot/app/service/conversation"
	"statebot/app/service/users"

	"github.com/stretchr/testify/require"
)

type stubSender struct {
	texts           []string
	locationAsks    int
	sendErr         error
	requestErr      error
	lastRecipientID string
}

func (s *stubSender) SendText(_ context.Context, recipientID, text string) error {
	s.lastRecipientID = recipientID
	s.texts = append(s.texts, text)
	return s.sendErr
}

func (s *stubSender) RequestLocation(_ context.Context, recipientID string) error {
	s.lastRecipientID = recipientID
	s.locationAsks++
	return s.requestErr
}

type stubResolver struct {
	state string
	found bool
}

func (s *stubResolver) Resolve(_, _ float64) (string, bool) {
	return s.state, s.found
}

type stubRules struct {
	result map[string]any
	err    error
	params map[string]any
}

func (s *stubRules) Lookup(_ context.Context, params map[string]any) (map[string]any, error) {
	s.params = params
	return s.result, s.err
}

func TestTextWithoutLocation_PromptsForLocation(t *testing.T) {
	sender := &stubSender{}
	svc := NewService(&stubResolver{}, sender, &stubRules{})

	user := users.NewUser(users.PlatformFacebook, "u1")
	user.AppendMessage("hello")

	err := svc.HandleSignal(context.Background(), user, conversation.SignalTextReceived)
	require.NoError(t, err)
	require.Equal(t, 1, sender.locationAsks)
	require.Empty(t, sender.texts)
	require.Equal(t, conversation.StateAwaitingLocation, user.State)
}

func TestLocationMiss_RepromptsInsteadOfFailing(t *testing.T) {
	sender := &stubSender{}
	svc := NewService(&stubResolver{found: false}, sender, &stubRules{})

	user := users.NewUser(users.PlatformFacebook, "u1")
	user.AddCoordinates(0, 0)

	err := svc.HandleSignal(context.Background(), user, conversation.SignalLocationReceived)
	require.NoError(t, err)
	require.Equal(t, 1, sender.locationAsks)
	require.Empty(t, sender.texts)
	require.Equal(t, conversation.StateAwaitingLocation, user.State)
}

func TestLocationHit_RepliesWithLookupResult(t *testing.T) {
	sender := &stubSender{}
	rules := &stubRules{result: map[string]any{"message": "NY has 27 representatives."}}
	svc := NewService(&stubResolver{state: "NY", found: true}, sender, rules)

	user := users.NewUser(users.PlatformFacebook, "u1")
	user.AddCoordinates(40.7135, -74.0082)

	err := svc.HandleSignal(context.Background(), user, conversation.SignalLocationReceived)
	require.NoError(t, err)
	require.Equal(t, []string{"NY has 27 representatives."}, sender.texts)
	require.Equal(t, "u1", sender.lastRecipientID)
	require.Equal(t, map[string]any{"state": "NY"}, rules.params)
	require.Equal(t, conversation.StateActive, user.State)
	require.Zero(t, sender.locationAsks)
}

func TestLookupFailure_FallsBackToStateReply(t *testing.T) {
	sender := &stubSender{}
	rules := &stubRules{err: errors.New("downstream unavailable")}
	svc := NewService(&stubResolver{state: "NY", found: true}, sender, rules)

	user := users.NewUser(users.PlatformFacebook, "u1")
	user.AddCoordinates(40.7135, -74.0082)

	err := svc.HandleSignal(context.Background(), user, conversation.SignalLocationReceived)
	require.NoError(t, err)
	require.Equal(t, []string{"Looks like you're in NY."}, sender.texts)
}

func TestTextWithKnownLocation_AnswersFromLastCoordinates(t *testing.T) {
	sender := &stubSender{}
	rules := &stubRules{result: map[string]any{"message": "CA rules apply."}}
	svc := NewService(&stubResolver{state: "CA", found: true}, sender, rules)

	user := users.NewUser(users.PlatformFacebook, "u1")
	user.AddCoordinates(37.77, -122.41)
	user.AppendMessage("what about me?")

	err := svc.HandleSignal(context.Background(), user, conversation.SignalTextReceived)
	require.NoError(t, err)
	require.Equal(t, []string{"CA rules apply."}, sender.texts)
	require.Zero(t, sender.locationAsks)
}

func TestSendFailure_IsSurfacedToTheCaller(t *testing.T) {
	sender := &stubSender{requestErr: errors.New("network timeout")}
	svc := NewService(&stubResolver{}, sender, &stubRules{})

	user := users.NewUser(users.PlatformFacebook, "u1")

	err := svc.HandleSignal(context.Background(), user, conversation.SignalTextReceived)
	require.Error(t, err)
}

func TestNoneSignal_IsIgnored(t *testing.T) {
	sender := &stubSender{}
	svc := NewService(&stubResolver{}, sender, &stubRules{})

	user := users.NewUser(users.PlatformFacebook, "u1")

	err := svc.HandleSignal(context.Background(), user, conversation.SignalNone)
	require.NoError(t, err)
	require.Zero(t, sender.locationAsks)
	require.Empty(t, sender.texts)
}
