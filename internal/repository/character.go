package repository

import (
	"context"

	"github.com/osgood/armorytrack/internal/domain"
)

// Character defines the interface for character persistence.
// Each call is one logical transaction; Upsert creates the character when the
// key is unseen and otherwise updates the stored row in place.
type Character interface {
	// GetByKey returns the character for a canonical key, nil when absent
	GetByKey(ctx context.Context, key string) (*domain.Character, error)
	// List returns all tracked characters ordered by key
	List(ctx context.Context) ([]domain.Character, error)
	// Upsert inserts or updates a character keyed on its canonical key and
	// writes the generated ID back onto the passed record
	Upsert(ctx context.Context, character *domain.Character) error
}
