package conversation

import (
	"testing"

	"statebot/app/service/geo"
	"statebot/app/service/users"

	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T) *Service {
	t.Helper()

	svc, err := New(nil)
	require.NoError(t, err)

	return svc
}

func TestTransition_TextAppendsToHistory(t *testing.T) {
	svc := newMachine(t)
	user := users.NewUser(users.PlatformFacebook, "u1")

	signal := svc.Transition(user, InboundEvent{SenderID: "u1", Text: "hello"})
	require.Equal(t, SignalTextReceived, signal)
	require.Equal(t, []string{"hello"}, user.MessageHistory)
	require.Equal(t, StateNew, user.State)

	signal = svc.Transition(user, InboundEvent{SenderID: "u1", Text: "again"})
	require.Equal(t, SignalTextReceived, signal)
	require.Equal(t, []string{"hello", "again"}, user.MessageHistory)
}

func TestTransition_LocationRecordsCoordinates(t *testing.T) {
	svc := newMachine(t)
	user := users.NewUser(users.PlatformFacebook, "u1")
	user.State = StateAwaitingLocation

	signal := svc.Transition(user, InboundEvent{
		SenderID:    "u1",
		Coordinates: &geo.Coordinates{Lat: 40.7135, Long: -74.0082},
	})
	require.Equal(t, SignalLocationReceived, signal)
	require.Equal(t, StateActive, user.State)
	require.NotNil(t, user.Coordinates)
	require.InDelta(t, 40.7135, user.Coordinates.Lat, 1e-9)
}

func TestTransition_LocationWinsOverCaption(t *testing.T) {
	svc := newMachine(t)
	user := users.NewUser(users.PlatformFacebook, "u1")

	signal := svc.Transition(user, InboundEvent{
		SenderID:    "u1",
		Text:        "here I am",
		Coordinates: &geo.Coordinates{Lat: 40, Long: -74},
	})
	require.Equal(t, SignalLocationReceived, signal)
	require.Empty(t, user.MessageHistory)
	require.NotNil(t, user.Coordinates)
}

func TestTransition_EmptyEventIsNoOp(t *testing.T) {
	svc := newMachine(t)
	user := users.NewUser(users.PlatformFacebook, "u1")
	user.State = StateAwaitingLocation

	signal := svc.Transition(user, InboundEvent{SenderID: "u1"})
	require.Equal(t, SignalNone, signal)
	require.Equal(t, StateAwaitingLocation, user.State)
	require.Empty(t, user.MessageHistory)
	require.Nil(t, user.Coordinates)
}

func TestTransition_NewCoordinatesOverwriteOld(t *testing.T) {
	svc := newMachine(t)
	user := users.NewUser(users.PlatformFacebook, "u1")

	svc.Transition(user, InboundEvent{SenderID: "u1", Coordinates: &geo.Coordinates{Lat: 1, Long: 2}})
	svc.Transition(user, InboundEvent{SenderID: "u1", Coordinates: &geo.Coordinates{Lat: 3, Long: 4}})

	require.InDelta(t, 3.0, user.Coordinates.Lat, 1e-9)
	require.InDelta(t, 4.0, user.Coordinates.Long, 1e-9)
}
