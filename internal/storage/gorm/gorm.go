// Package gormstorage implements the storage.Backend interface on top of GORM.
// The same backend serves SQLite and PostgreSQL; the dialect is picked by
// database.Manager when the connection is opened.
package gormstorage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/flappyballoon/balloon/pkg/core"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run is one journaled run.
type Run struct {
	ID              uint      `gorm:"primarykey"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	Score           int       `gorm:"index;not null"`
	AvgMicLevel     float64   `gorm:"not null;default:0"`
	MaxMicLevel     float64   `gorm:"not null;default:0"`
	DurationSeconds int       `gorm:"not null;default:0"`
	FinishedAt      time.Time `gorm:"index"`
	Tuning          datatypes.JSONMap
}

// TableName pins the table name.
func (Run) TableName() string {
	return "runs"
}

func fromResult(r *core.RunResult) Run {
	return Run{
		Score:           r.Score,
		AvgMicLevel:     r.AvgMicLevel,
		MaxMicLevel:     r.MaxMicLevel,
		DurationSeconds: r.DurationSeconds,
		FinishedAt:      r.FinishedAt.UTC(),
		Tuning:          datatypes.JSONMap(r.Tuning),
	}
}

func (m Run) toResult() core.RunResult {
	return core.RunResult{
		ID:              m.ID,
		Score:           m.Score,
		AvgMicLevel:     m.AvgMicLevel,
		MaxMicLevel:     m.MaxMicLevel,
		DurationSeconds: m.DurationSeconds,
		FinishedAt:      m.FinishedAt,
		Tuning:          map[string]any(m.Tuning),
	}
}

// Backend journals runs through GORM.
type Backend struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a GORM backend over an open connection.
func New(db *gorm.DB, log zerolog.Logger) *Backend {
	return &Backend{db: db, log: log}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("gorm backend: no database connection")
	}
	if err := b.db.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.log.Info().Str("dialect", b.db.Dialector.Name()).Msg("Run journal ready")
	return nil
}

// Close closes the underlying connection pool.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// RecordRun inserts the run and copies the assigned ID back.
func (b *Backend) RecordRun(r *core.RunResult) error {
	row := fromResult(r)
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	r.ID = row.ID
	return nil
}

// BestScore returns the highest journaled score.
func (b *Backend) BestScore() (int, error) {
	var best sql.NullInt64
	if err := b.db.Model(&Run{}).Select("MAX(score)").Scan(&best).Error; err != nil {
		return 0, fmt.Errorf("failed to query best score: %w", err)
	}
	if !best.Valid {
		return 0, core.ErrNoRuns
	}
	return int(best.Int64), nil
}

// RecentRuns returns up to n runs, newest first.
func (b *Backend) RecentRuns(n int) ([]core.RunResult, error) {
	var rows []Run
	if err := b.db.Order("finished_at desc").Order("id desc").Limit(n).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	out := make([]core.RunResult, len(rows))
	for i, row := range rows {
		out[i] = row.toResult()
	}
	return out, nil
}
