// Package progress reconciles daily gear snapshots into weekly progress
// records anchored to the game's reset weekday.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/osgood/armorytrack/internal/domain"
	"github.com/osgood/armorytrack/internal/logger"
	"github.com/osgood/armorytrack/internal/metrics"
	"github.com/osgood/armorytrack/internal/repository"
)

// WeeklySummary is the accumulated view of the reset week containing the
// target day: quest flags OR'd and delve counters summed across the window's
// daily records.
type WeeklySummary struct {
	WindowStart          time.Time `json:"window_start"`
	WindowEnd            time.Time `json:"window_end"`
	AverageItemLevel     int       `json:"average_item_level"`
	PinnacleQuestDone    bool      `json:"pinnacle_quest_done"`
	Profession1QuestDone bool      `json:"profession_1_quest_done"`
	Profession2QuestDone bool      `json:"profession_2_quest_done"`
	DelvesCompleted      int       `json:"delves_completed"`
}

// Result pairs the upserted daily record with the weekly summary
type Result struct {
	Record  *domain.ProgressRecord
	Summary WeeklySummary
}

// Aggregator computes the daily average item level and the weekly
// accumulation, and upserts one progress record per character per day.
type Aggregator struct {
	gearRepo     repository.Gear
	progressRepo repository.Progress
	reset        time.Weekday
}

func NewAggregator(gearRepo repository.Gear, progressRepo repository.Progress) *Aggregator {
	return &Aggregator{
		gearRepo:     gearRepo,
		progressRepo: progressRepo,
		reset:        ResetWeekday,
	}
}

// Aggregate runs one aggregation for (character, day). It is idempotent:
// re-running with unchanged gear data yields an identical stored record and
// never a duplicate row. Quest flags are monotonic within the week - once
// any day in the window reports a flag, the aggregate keeps reporting it.
// The stored record's delve counter is a per-day value owned by whoever
// records delves; the weekly total is returned in the summary.
func (a *Aggregator) Aggregate(ctx context.Context, character *domain.Character, day time.Time) (*Result, error) {
	if character == nil || character.ID == 0 {
		return nil, fmt.Errorf("%w: aggregation requires a stored character", domain.ErrCharacterNotFound)
	}

	log := logger.FromContext(ctx).With("character", character.Key)
	day = domain.Day(day)

	avgItemLevel, err := a.averageItemLevel(ctx, character.ID, day)
	if err != nil {
		metrics.AggregationRunsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}

	from, to := WeekWindow(day, a.reset)
	windowRecords, err := a.progressRepo.GetRecordsInRange(ctx, character.ID, from, to)
	if err != nil {
		metrics.AggregationRunsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("reading weekly window records: %w", err)
	}

	summary := WeeklySummary{
		WindowStart:      from,
		WindowEnd:        to,
		AverageItemLevel: avgItemLevel,
	}
	for _, record := range windowRecords {
		summary.PinnacleQuestDone = summary.PinnacleQuestDone || record.PinnacleQuestDone
		summary.Profession1QuestDone = summary.Profession1QuestDone || record.Profession1QuestDone
		summary.Profession2QuestDone = summary.Profession2QuestDone || record.Profession2QuestDone
		summary.DelvesCompleted += record.DelvesCompleted
	}

	record, err := a.progressRepo.GetRecord(ctx, character.ID, day)
	if err != nil {
		metrics.AggregationRunsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("reading progress record: %w", err)
	}
	if record == nil {
		record = &domain.ProgressRecord{
			CharacterID: character.ID,
			RecordDay:   day,
		}
	}

	record.CharacterLevel = character.Level
	record.AverageItemLevel = avgItemLevel
	record.PinnacleQuestDone = record.PinnacleQuestDone || summary.PinnacleQuestDone
	record.Profession1QuestDone = record.Profession1QuestDone || summary.Profession1QuestDone
	record.Profession2QuestDone = record.Profession2QuestDone || summary.Profession2QuestDone

	if err := a.progressRepo.Upsert(ctx, record); err != nil {
		metrics.AggregationRunsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("upserting progress record: %w", err)
	}

	log.Info("Aggregated weekly progress",
		"day", day.Format(time.DateOnly),
		"average_item_level", avgItemLevel,
		"window_start", from.Format(time.DateOnly),
		"weekly_delves", summary.DelvesCompleted)
	metrics.AggregationRunsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	return &Result{Record: record, Summary: summary}, nil
}

// averageItemLevel floors the sum of the day's slot item levels divided by
// the 16 canonical slots. A missing slot contributes 0; a two-handed
// main-hand weapon counts twice, since it fills both hand slots. This is the
// single place the doubling rule is applied.
func (a *Aggregator) averageItemLevel(ctx context.Context, characterID int, day time.Time) (int, error) {
	records, err := a.gearRepo.GetRecordsForDay(ctx, characterID, day)
	if err != nil {
		return 0, fmt.Errorf("reading gear records: %w", err)
	}

	total := 0
	for _, record := range records {
		total += record.ItemLevel
		if record.Slot == domain.SlotMainHand && record.IsTwoHanded() {
			total += record.ItemLevel
		}
	}

	return total / len(domain.CanonicalSlots), nil
}
