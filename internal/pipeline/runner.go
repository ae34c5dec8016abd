package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osgood/armorytrack/internal/domain"
	"github.com/osgood/armorytrack/internal/gear"
	"github.com/osgood/armorytrack/internal/logger"
	"github.com/osgood/armorytrack/internal/metrics"
	"github.com/osgood/armorytrack/internal/profile"
	"github.com/osgood/armorytrack/internal/progress"
	"github.com/osgood/armorytrack/internal/repository"
)

// ArmoryClient is the slice of the upstream API the pipeline consumes
type ArmoryClient interface {
	GetCharacterProfile(ctx context.Context, character *domain.Character) (map[string]any, error)
	GetCharacterEquipment(ctx context.Context, character *domain.Character) ([]domain.EquippedItem, error)
}

// Snapshotter builds and persists the per-slot gear snapshot for one day
type Snapshotter interface {
	BuildSnapshot(ctx context.Context, character *domain.Character, items []domain.EquippedItem, day time.Time) (*gear.Snapshot, error)
}

// Aggregator rolls a day's gear and progress data into the weekly view
type Aggregator interface {
	Aggregate(ctx context.Context, character *domain.Character, day time.Time) (*progress.Result, error)
}

// Exporter writes the snapshot's slot attributes to external storage
type Exporter interface {
	WriteSnapshot(ctx context.Context, character *domain.Character, snapshot *gear.Snapshot) error
}

// Runner drives one poll cycle: for each configured character it fetches the
// profile and equipment, persists the gear snapshot, exports it, and
// aggregates weekly progress. Characters are processed sequentially and a
// failure in one never blocks the next.
type Runner struct {
	client       ArmoryClient
	characters   repository.Character
	materializer *profile.Materializer
	snapshotter  Snapshotter
	aggregator   Aggregator
	exporter     Exporter
	keys         []string
}

// NewRunner creates a Runner polling the given canonical character keys
func NewRunner(
	client ArmoryClient,
	characters repository.Character,
	materializer *profile.Materializer,
	snapshotter Snapshotter,
	aggregator Aggregator,
	exporter Exporter,
	keys []string,
) *Runner {
	return &Runner{
		client:       client,
		characters:   characters,
		materializer: materializer,
		snapshotter:  snapshotter,
		aggregator:   aggregator,
		exporter:     exporter,
		keys:         keys,
	}
}

// RunCycle polls every configured character once. The returned error is nil
// as long as the cycle itself ran; per-character failures are logged, counted,
// and skipped.
func (r *Runner) RunCycle(ctx context.Context) error {
	ctx = logger.WithCycleID(ctx, logger.GenerateCycleID())
	log := logger.FromContext(ctx)

	day := domain.Day(time.Now().UTC())
	log.Info("Poll cycle starting", "characters", len(r.keys), "day", day.Format(time.DateOnly))
	metrics.PollCyclesTotal.Inc()

	failures := 0
	for _, key := range r.keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.processCharacter(ctx, key, day); err != nil {
			log.Error("Character processing failed", "character", key, "error", err)
			metrics.CharactersProcessed.WithLabelValues(metrics.OutcomeFailed).Inc()
			failures++
			continue
		}
		metrics.CharactersProcessed.WithLabelValues(metrics.OutcomeOK).Inc()
	}

	log.Info("Poll cycle completed", "characters", len(r.keys), "failures", failures)
	return nil
}

func (r *Runner) processCharacter(ctx context.Context, key string, day time.Time) error {
	log := logger.FromContext(ctx).With("character", key)

	character, err := r.ensureCharacter(ctx, key)
	if err != nil {
		return err
	}

	// Profile first: the level and identity fields feed the progress record
	doc, err := r.client.GetCharacterProfile(ctx, character)
	if err != nil {
		return fmt.Errorf("fetching profile: %w", err)
	}

	materialized, err := r.materializer.Materialize(ctx, doc)
	if err != nil {
		return fmt.Errorf("materializing profile: %w", err)
	}

	if level, ok := materialized.Level(); ok {
		if character.Level == nil || *character.Level != level {
			character.Level = &level
			if err := r.characters.Upsert(ctx, character); err != nil {
				return fmt.Errorf("updating character level: %w", err)
			}
			log.Debug("Character level updated", "level", level)
		}
	}

	items, err := r.client.GetCharacterEquipment(ctx, character)
	if err != nil {
		return fmt.Errorf("fetching equipment: %w", err)
	}

	snapshot, err := r.snapshotter.BuildSnapshot(ctx, character, items, day)
	if err != nil {
		return fmt.Errorf("building gear snapshot: %w", err)
	}

	if r.exporter != nil {
		if err := r.exporter.WriteSnapshot(ctx, character, snapshot); err != nil {
			// Export is a convenience copy; the database already has the data
			log.Warn("Snapshot export failed", "error", err)
		}
	}

	if _, err := r.aggregator.Aggregate(ctx, character, day); err != nil {
		return fmt.Errorf("aggregating progress: %w", err)
	}

	return nil
}

// ensureCharacter returns the stored character for a key, registering it on
// first sight
func (r *Runner) ensureCharacter(ctx context.Context, key string) (*domain.Character, error) {
	character, err := r.characters.GetByKey(ctx, strings.ToLower(key))
	if err != nil {
		return nil, fmt.Errorf("looking up character: %w", err)
	}
	if character != nil {
		return character, nil
	}

	character, err = domain.NewCharacter(key, "", "", "")
	if err != nil {
		return nil, err
	}
	if err := r.characters.Upsert(ctx, character); err != nil {
		return nil, fmt.Errorf("registering character: %w", err)
	}
	logger.FromContext(ctx).Info("Registered new character", "character", character.Key)
	return character, nil
}
