// persistence/interface.go
package persistence

import (
	"context"
	"errors"

	"github.com/wfunc/drawguess/models"
)

// Database archives finished games.
type Database interface {
	SaveGameRecord(ctx context.Context, record *models.GameRecord) error
	RecentGameRecords(ctx context.Context, limit int) ([]*models.GameRecord, error)
	Close() error
}

var ErrInvalidRecord = errors.New("invalid game record")
