package network

import "encoding/json"

type JoinRoomRequest struct {
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

type CreateRoomRequest struct {
	Username string `json:"username"`
}

// RoomRequest is the common shape of commands addressed to a room.
type RoomRequest struct {
	RoomID string `json:"roomId"`
}

type WordSelectedRequest struct {
	RoomID string `json:"roomId"`
	Word   string `json:"word"`
}

type ChatRequest struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// Stroke is a draw event. The server only reads the room id; the raw
// payload is relayed untouched.
type Stroke struct {
	RoomID  string          `json:"roomId"`
	X       json.RawMessage `json:"x,omitempty"`
	Y       json.RawMessage `json:"y,omitempty"`
	Color   json.RawMessage `json:"color,omitempty"`
	IsStart json.RawMessage `json:"isStart,omitempty"`
}

// PlayerState is the public view of a player.
type PlayerState struct {
	Username   string `json:"username"`
	Score      int    `json:"score"`
	IsDrawer   bool   `json:"isDrawer"`
	HasGuessed bool   `json:"hasGuessed"`
}

// GameState is the public room snapshot. It never carries the secret word.
type GameState struct {
	RoomID       string        `json:"roomId"`
	State        string        `json:"state"`
	CurrentRound int           `json:"currentRound"`
	MaxRounds    int           `json:"maxRounds"`
	Players      []PlayerState `json:"players"`
}

type ChatMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type RoundEnd struct {
	Word string `json:"word"`
}

type RoomJoined struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}
