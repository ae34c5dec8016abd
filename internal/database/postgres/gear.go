package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osgood/armorytrack/internal/database"
	"github.com/osgood/armorytrack/internal/domain"
)

// GearRepository implements the gear record repository for PostgreSQL
type GearRepository struct {
	db *pgxpool.Pool
}

// NewGearRepository creates a new GearRepository
func NewGearRepository(db *pgxpool.Pool) *GearRepository {
	return &GearRepository{db: db}
}

// GetRecord returns the record for (character, slot, day), nil when absent
func (r *GearRepository) GetRecord(ctx context.Context, characterID int, slot domain.Slot, day time.Time) (*domain.GearRecord, error) {
	query := `
		SELECT gear_id, character_id, record_day, slot, item_id, ilevel, name, quality, size
		FROM gear_log
		WHERE character_id = $1 AND slot = $2 AND record_day = $3
	`
	var record domain.GearRecord
	err := r.db.QueryRow(ctx, query, characterID, string(slot), domain.Day(day)).Scan(
		&record.ID, &record.CharacterID, &record.RecordDay, &record.Slot,
		&record.ItemID, &record.ItemLevel, &record.Name, &record.Quality, &record.Size,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get gear record: %w", err)
	}

	return &record, nil
}

// GetRecordsForDay returns all slot records for (character, day)
func (r *GearRepository) GetRecordsForDay(ctx context.Context, characterID int, day time.Time) ([]domain.GearRecord, error) {
	query := `
		SELECT gear_id, character_id, record_day, slot, item_id, ilevel, name, quality, size
		FROM gear_log
		WHERE character_id = $1 AND record_day = $2
		ORDER BY slot
	`
	rows, err := r.db.Query(ctx, query, characterID, domain.Day(day))
	if err != nil {
		return nil, fmt.Errorf("failed to query gear records: %w", err)
	}
	defer rows.Close()

	var records []domain.GearRecord
	for rows.Next() {
		var record domain.GearRecord
		if err := rows.Scan(
			&record.ID, &record.CharacterID, &record.RecordDay, &record.Slot,
			&record.ItemID, &record.ItemLevel, &record.Name, &record.Quality, &record.Size,
		); err != nil {
			return nil, fmt.Errorf("failed to scan gear record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read gear records: %w", err)
	}

	return records, nil
}

// Upsert inserts or updates one slot record keyed on (character, slot, day)
func (r *GearRepository) Upsert(ctx context.Context, record *domain.GearRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	query := `
		INSERT INTO gear_log (character_id, record_day, slot, item_id, ilevel, name, quality, size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (character_id, slot, record_day) DO UPDATE
		SET item_id = EXCLUDED.item_id,
		    ilevel = EXCLUDED.ilevel,
		    name = EXCLUDED.name,
		    quality = EXCLUDED.quality,
		    size = EXCLUDED.size,
		    updated_at = NOW()
		RETURNING gear_id
	`
	err = tx.QueryRow(ctx, query,
		record.CharacterID, domain.Day(record.RecordDay), string(record.Slot),
		record.ItemID, record.ItemLevel, record.Name, string(record.Quality), record.Size,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert gear record: %w", err)
	}

	return tx.Commit(ctx)
}
