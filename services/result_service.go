// services/result_service.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/models"
	"github.com/wfunc/drawguess/persistence"
	"github.com/wfunc/drawguess/room"
)

var ErrArchiveDisabled = errors.New("game archive disabled")

const saveTimeout = 5 * time.Second

// ResultService archives finished games. It is a room.Observer; saves run
// off the room lock.
type ResultService struct {
	room.NopObserver

	db persistence.Database
	wg sync.WaitGroup
}

// NewResultService accepts a nil db, in which case games are not archived.
func NewResultService(db persistence.Database) *ResultService {
	return &ResultService{db: db}
}

func (s *ResultService) Enabled() bool {
	return s.db != nil
}

func (s *ResultService) GameOver(result room.Result) {
	if s.db == nil {
		return
	}
	record := NewGameRecord(result)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.db.SaveGameRecord(ctx, record); err != nil {
			logger.Log.Errorf("Room %s: archiving game failed: %v", record.RoomID, err)
			return
		}
		logger.Log.Infof("Room %s: game archived as record %d", record.RoomID, record.ID)
	}()
}

// Wait blocks until pending saves finish.
func (s *ResultService) Wait() {
	s.wg.Wait()
}

// RecentGames returns the newest archived games.
func (s *ResultService) RecentGames(ctx context.Context, limit int) ([]*models.GameRecord, error) {
	if s.db == nil {
		return nil, ErrArchiveDisabled
	}
	return s.db.RecentGameRecords(ctx, limit)
}

// NewGameRecord converts a room result. Standings arrive sorted, so the
// first entry is the winner.
func NewGameRecord(result room.Result) *models.GameRecord {
	scores := make([]models.PlayerScore, len(result.Standings))
	for i, s := range result.Standings {
		scores[i] = models.PlayerScore{Name: s.Name, Score: s.Score}
	}
	var winner string
	if len(scores) > 0 {
		winner = scores[0].Name
	}
	return &models.GameRecord{
		RoomID:    result.RoomID,
		Rounds:    result.Rounds,
		Winner:    winner,
		Scores:    scores,
		StartedAt: result.StartedAt,
		EndedAt:   result.EndedAt,
	}
}
