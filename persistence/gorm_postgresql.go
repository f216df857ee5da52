// persistence/gorm_postgresql.go
package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wfunc/drawguess/logger"
	"github.com/wfunc/drawguess/models"
)

// MaxRecentRecords caps RecentGameRecords.
const MaxRecentRecords = 100

// GormPostgreSQL is the PostgreSQL Database backed by GORM.
type GormPostgreSQL struct {
	db *gorm.DB
}

// Options describe the PostgreSQL connection.
type Options struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (o Options) DSN() string {
	sslmode := o.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		o.Host, o.Port, o.User, o.Password, o.DBName, sslmode)
}

// zapWriter routes GORM's logger through the application logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Log.Warnf(format, args...)
}

// NewGormPostgreSQL connects, configures the pool and migrates the schema.
func NewGormPostgreSQL(opts Options) (*GormPostgreSQL, error) {
	gormLogger := gormlogger.New(
		zapWriter{},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(opts.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}
	return newGormPostgreSQL(db)
}

func newGormPostgreSQL(db *gorm.DB) (*GormPostgreSQL, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormPostgreSQL{db: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormGameRecord{},
	)
}

func (p *GormPostgreSQL) SaveGameRecord(ctx context.Context, record *models.GameRecord) error {
	if record == nil || record.RoomID == "" {
		return ErrInvalidRecord
	}
	row, err := models.NewGormGameRecord(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := p.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	record.ID = row.ID
	return nil
}

// RecentGameRecords returns the newest records first.
func (p *GormPostgreSQL) RecentGameRecords(ctx context.Context, limit int) ([]*models.GameRecord, error) {
	limit = clampLimit(limit)

	var rows []models.GormGameRecord
	if err := p.db.WithContext(ctx).Order("ended_at desc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]*models.GameRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].GameRecord()
		if err != nil {
			logger.Log.Warnf("skipping game record %d: %v", rows[i].ID, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > MaxRecentRecords:
		return MaxRecentRecords
	}
	return limit
}
