// models/models.go
package models

import (
	"time"
)

// PlayerScore is one line of a finished game's scoreboard.
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// GameRecord is the archived summary of one finished game.
type GameRecord struct {
	ID        uint          `json:"id"`
	RoomID    string        `json:"roomId"`
	Rounds    int           `json:"rounds"`
	Winner    string        `json:"winner"`
	Scores    []PlayerScore `json:"scores"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   time.Time     `json:"endedAt"`
}

// Duration is how long the game ran.
func (r *GameRecord) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
