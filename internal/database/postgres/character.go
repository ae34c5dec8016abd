package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osgood/armorytrack/internal/database"
	"github.com/osgood/armorytrack/internal/domain"
)

// CharacterRepository implements the character repository for PostgreSQL
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a new CharacterRepository
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// GetByKey returns the character stored under the canonical key, or nil when
// no character is tracked under it
func (r *CharacterRepository) GetByKey(ctx context.Context, key string) (*domain.Character, error) {
	query := `
		SELECT character_id, key, region, realm, name, level
		FROM wow_character
		WHERE key = $1
	`
	var character domain.Character
	err := r.db.QueryRow(ctx, query, key).Scan(
		&character.ID, &character.Key, &character.Region,
		&character.Realm, &character.Name, &character.Level,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	return &character, nil
}

// List returns all tracked characters ordered by key
func (r *CharacterRepository) List(ctx context.Context) ([]domain.Character, error) {
	query := `
		SELECT character_id, key, region, realm, name, level
		FROM wow_character
		ORDER BY key
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	var characters []domain.Character
	for rows.Next() {
		var character domain.Character
		if err := rows.Scan(
			&character.ID, &character.Key, &character.Region,
			&character.Realm, &character.Name, &character.Level,
		); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read characters: %w", err)
	}

	return characters, nil
}

// Upsert inserts or updates the character keyed on its canonical key and
// writes the generated ID back onto the passed record
func (r *CharacterRepository) Upsert(ctx context.Context, character *domain.Character) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	query := `
		INSERT INTO wow_character (key, region, realm, name, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (key) DO UPDATE
		SET level = EXCLUDED.level, updated_at = NOW()
		RETURNING character_id
	`
	err = tx.QueryRow(ctx, query,
		character.Key, character.Region, character.Realm,
		character.Name, character.Level,
	).Scan(&character.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert character: %w", err)
	}

	return tx.Commit(ctx)
}
