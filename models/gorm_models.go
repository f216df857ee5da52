// models/gorm_models.go
package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormGameRecord is the game_records table.
type GormGameRecord struct {
	gorm.Model
	RoomID    string         `gorm:"size:64;index;not null"`
	Rounds    int            `gorm:"not null"`
	Winner    string         `gorm:"size:64"`
	Scores    datatypes.JSON `gorm:"type:jsonb;not null"`
	Duration  int            `gorm:"default:0"` // seconds
	StartedAt time.Time      `gorm:"not null"`
	EndedAt   time.Time      `gorm:"index;not null"`
}

func (GormGameRecord) TableName() string {
	return "game_records"
}

// NewGormGameRecord converts a record into its table row.
func NewGormGameRecord(r *GameRecord) (*GormGameRecord, error) {
	scores, err := json.Marshal(r.Scores)
	if err != nil {
		return nil, err
	}
	return &GormGameRecord{
		RoomID:    r.RoomID,
		Rounds:    r.Rounds,
		Winner:    r.Winner,
		Scores:    datatypes.JSON(scores),
		Duration:  int(r.Duration() / time.Second),
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
	}, nil
}

// GameRecord converts the row back into a record.
func (g *GormGameRecord) GameRecord() (*GameRecord, error) {
	var scores []PlayerScore
	if len(g.Scores) > 0 {
		if err := json.Unmarshal(g.Scores, &scores); err != nil {
			return nil, err
		}
	}
	return &GameRecord{
		ID:        g.ID,
		RoomID:    g.RoomID,
		Rounds:    g.Rounds,
		Winner:    g.Winner,
		Scores:    scores,
		StartedAt: g.StartedAt,
		EndedAt:   g.EndedAt,
	}, nil
}
