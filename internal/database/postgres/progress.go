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

// ProgressRepository implements the progress record repository for PostgreSQL
type ProgressRepository struct {
	db *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetRecord returns the record for (character, day), nil when absent
func (r *ProgressRepository) GetRecord(ctx context.Context, characterID int, day time.Time) (*domain.ProgressRecord, error) {
	query := `
		SELECT progress_id, character_id, character_level, record_day, average_item_level,
		       pinnacle_quest_done, profession_1_quest_done, profession_2_quest_done, delves_completed
		FROM progress_log
		WHERE character_id = $1 AND record_day = $2
	`
	var record domain.ProgressRecord
	err := r.db.QueryRow(ctx, query, characterID, domain.Day(day)).Scan(
		&record.ID, &record.CharacterID, &record.CharacterLevel, &record.RecordDay,
		&record.AverageItemLevel, &record.PinnacleQuestDone,
		&record.Profession1QuestDone, &record.Profession2QuestDone, &record.DelvesCompleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}

	return &record, nil
}

// GetRecordsInRange returns records with from <= record_day <= to for the
// character, ordered by record_day ascending
func (r *ProgressRepository) GetRecordsInRange(ctx context.Context, characterID int, from, to time.Time) ([]domain.ProgressRecord, error) {
	query := `
		SELECT progress_id, character_id, character_level, record_day, average_item_level,
		       pinnacle_quest_done, profession_1_quest_done, profession_2_quest_done, delves_completed
		FROM progress_log
		WHERE character_id = $1 AND record_day >= $2 AND record_day <= $3
		ORDER BY record_day
	`
	rows, err := r.db.Query(ctx, query, characterID, domain.Day(from), domain.Day(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query progress records: %w", err)
	}
	defer rows.Close()

	var records []domain.ProgressRecord
	for rows.Next() {
		var record domain.ProgressRecord
		if err := rows.Scan(
			&record.ID, &record.CharacterID, &record.CharacterLevel, &record.RecordDay,
			&record.AverageItemLevel, &record.PinnacleQuestDone,
			&record.Profession1QuestDone, &record.Profession2QuestDone, &record.DelvesCompleted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read progress records: %w", err)
	}

	return records, nil
}

// Upsert inserts or updates the record keyed on (character, day)
func (r *ProgressRepository) Upsert(ctx context.Context, record *domain.ProgressRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	query := `
		INSERT INTO progress_log (character_id, character_level, record_day, average_item_level,
			pinnacle_quest_done, profession_1_quest_done, profession_2_quest_done, delves_completed,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (character_id, record_day) DO UPDATE
		SET character_level = EXCLUDED.character_level,
		    average_item_level = EXCLUDED.average_item_level,
		    pinnacle_quest_done = EXCLUDED.pinnacle_quest_done,
		    profession_1_quest_done = EXCLUDED.profession_1_quest_done,
		    profession_2_quest_done = EXCLUDED.profession_2_quest_done,
		    delves_completed = EXCLUDED.delves_completed,
		    updated_at = NOW()
		RETURNING progress_id
	`
	err = tx.QueryRow(ctx, query,
		record.CharacterID, record.CharacterLevel, domain.Day(record.RecordDay),
		record.AverageItemLevel, record.PinnacleQuestDone,
		record.Profession1QuestDone, record.Profession2QuestDone, record.DelvesCompleted,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert progress record: %w", err)
	}

	return tx.Commit(ctx)
}
