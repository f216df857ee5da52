package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Client -> server events.
const (
	EventJoinRoom     = "join_room"
	EventCreateRoom   = "create_room"
	EventLeaveRoom    = "leave_room"
	EventStartGame    = "start_game"
	EventWordSelected = "word_selected"
	EventDraw         = "draw"
	EventChatMessage  = "chat_message"
)

// Server -> client events. EventDraw and EventChatMessage flow both ways.
const (
	EventGameState         = "game_state"
	EventSystemMessage     = "system_message"
	EventTimerUpdate       = "timer_update"
	EventSecretWord        = "secret_word"
	EventWordSelectOptions = "word_select_options"
	EventRoundEnd          = "round_end"
	EventRoomJoined        = "room_joined"
	EventError             = "error"
)

// DefaultRoomID is used when a join request carries no room id.
const DefaultRoomID = "default"

var ErrMalformedMessage = errors.New("malformed message")

// Envelope is the frame exchanged in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode wraps payload in an envelope.
func Encode(event string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event, err)
		}
		data = b
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

// Decode parses a frame. Any failure wraps ErrMalformedMessage.
func Decode(frame []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("%w: missing event", ErrMalformedMessage)
	}
	return &env, nil
}

// Bind unmarshals the envelope payload into v.
func (e *Envelope) Bind(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedMessage, e.Event, err)
	}
	return nil
}

// NormalizeRoomID trims the requested id and falls back to DefaultRoomID.
func NormalizeRoomID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultRoomID
	}
	return id
}
