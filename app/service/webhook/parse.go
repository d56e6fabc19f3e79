package webhook

import (
	"encoding/json"
	"errors"
	"fmt"

	"statebot/app/service/conversation"
	"statebot/app/service/geo"
)

var (
	// ErrUnrecognizedPayload marks a top-level object other than "page".
	ErrUnrecognizedPayload = errors.New("unrecognized payload shape")
	// ErrMalformedEvent marks a messaging event the parser cannot use.
	ErrMalformedEvent = errors.New("malformed messaging event")
)

type payload struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	Messaging []messagingEvent `json:"messaging"`
}

type messagingEvent struct {
	Sender struct {
		ID string `json:"id"`
	} `json:"sender"`
	Message *message `json:"message"`
}

type message struct {
	Text        string       `json:"text"`
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	Payload struct {
		Coordinates *coordinatesField `json:"coordinates"`
	} `json:"payload"`
}

// coordinatesField keeps lat/long untyped so that one event carrying
// non-numeric values fails alone instead of failing the whole payload.
type coordinatesField struct {
	Lat  any `json:"lat"`
	Long any `json:"long"`
}

// ParseResult is one messaging event, independently success/error-tagged so
// the dispatch loop can skip failures and keep going.
type ParseResult struct {
	Event conversation.InboundEvent
	Err   error
}

// ParsePayload unpacks a webhook delivery into normalized events, in array
// order. Events without a message key are dropped silently; only the
// top-level shape check is fatal.
func ParsePayload(body []byte) ([]ParseResult, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedPayload, err)
	}

	if p.Object != "page" {
		return nil, fmt.Errorf("%w: object %q", ErrUnrecognizedPayload, p.Object)
	}

	var results []ParseResult

	for _, e := range p.Entry {
		for _, me := range e.Messaging {
			if me.Message == nil {
				continue
			}

			result := parseEvent(me)

			// an event carrying neither text nor a location is ignored
			if result.Err == nil && result.Event.Text == "" && result.Event.Coordinates == nil {
				continue
			}

			results = append(results, result)
		}
	}

	return results, nil
}

func parseEvent(me messagingEvent) ParseResult {
	if me.Sender.ID == "" {
		return ParseResult{Err: fmt.Errorf("%w: missing sender id", ErrMalformedEvent)}
	}

	coords, err := extractCoordinates(me.Message)
	if err != nil {
		return ParseResult{Err: err}
	}

	return ParseResult{Event: conversation.InboundEvent{
		SenderID:    me.Sender.ID,
		Text:        me.Message.Text,
		Coordinates: coords,
	}}
}

// extractCoordinates pulls a location out of the first attachment. Absent
// or empty attachments mean "no coordinates", not an error.
func extractCoordinates(m *message) (*geo.Coordinates, error) {
	if len(m.Attachments) == 0 {
		return nil, nil
	}

	coords := m.Attachments[0].Payload.Coordinates
	if coords == nil {
		return nil, fmt.Errorf("%w: attachment without coordinates", ErrMalformedEvent)
	}

	lat, ok := coords.Lat.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: non-numeric latitude %v", ErrMalformedEvent, coords.Lat)
	}

	long, ok := coords.Long.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: non-numeric longitude %v", ErrMalformedEvent, coords.Long)
	}

	return &geo.Coordinates{Lat: lat, Long: long}, nil
}
