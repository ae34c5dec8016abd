package repository

import (
	"context"
	"time"

	"github.com/osgood/armorytrack/internal/domain"
)

// Progress defines the interface for daily progress snapshot persistence.
// At most one record exists per (character, day).
type Progress interface {
	// GetRecord returns the record for (character, day), nil when absent
	GetRecord(ctx context.Context, characterID int, day time.Time) (*domain.ProgressRecord, error)
	// GetRecordsInRange returns records with from <= record_day <= to,
	// ordered by record_day ascending
	GetRecordsInRange(ctx context.Context, characterID int, from, to time.Time) ([]domain.ProgressRecord, error)
	// Upsert inserts or updates the record keyed on (character, day) in one
	// transaction; a failure leaves no partial write
	Upsert(ctx context.Context, record *domain.ProgressRecord) error
}
