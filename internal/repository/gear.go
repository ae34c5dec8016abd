package repository

import (
	"context"
	"time"

	"github.com/osgood/armorytrack/internal/domain"
)

// Gear defines the interface for per-slot gear snapshot persistence.
// At most one record exists per (character, slot, day); Upsert enforces this
// with a single transaction per call.
type Gear interface {
	// GetRecord returns the record for (character, slot, day), nil when absent
	GetRecord(ctx context.Context, characterID int, slot domain.Slot, day time.Time) (*domain.GearRecord, error)
	// GetRecordsForDay returns all slot records for (character, day)
	GetRecordsForDay(ctx context.Context, characterID int, day time.Time) ([]domain.GearRecord, error)
	// Upsert inserts or updates one slot record keyed on (character, slot, day)
	Upsert(ctx context.Context, record *domain.GearRecord) error
}
