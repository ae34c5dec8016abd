package progress

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osgood/armorytrack/internal/domain"
)

type mockGearRepo struct {
	records map[string][]domain.GearRecord // keyed on characterID/day
	failGet bool
}

func newMockGearRepo() *mockGearRepo {
	return &mockGearRepo{records: make(map[string][]domain.GearRecord)}
}

func dayKey(characterID int, day time.Time) string {
	return fmt.Sprintf("%d/%s", characterID, domain.Day(day).Format(time.DateOnly))
}

func (m *mockGearRepo) addRecord(characterID int, day time.Time, slot domain.Slot, ilevel int, size *string) {
	key := dayKey(characterID, day)
	m.records[key] = append(m.records[key], domain.GearRecord{
		CharacterID: characterID,
		RecordDay:   domain.Day(day),
		Slot:        slot,
		ItemLevel:   ilevel,
		Size:        size,
	})
}

func (m *mockGearRepo) GetRecord(ctx context.Context, characterID int, slot domain.Slot, day time.Time) (*domain.GearRecord, error) {
	return nil, nil
}

func (m *mockGearRepo) GetRecordsForDay(ctx context.Context, characterID int, day time.Time) ([]domain.GearRecord, error) {
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	return m.records[dayKey(characterID, day)], nil
}

func (m *mockGearRepo) Upsert(ctx context.Context, record *domain.GearRecord) error {
	return nil
}

type mockProgressRepo struct {
	records    map[string]*domain.ProgressRecord
	nextID     int
	failUpsert bool
	failRange  bool
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{records: make(map[string]*domain.ProgressRecord)}
}

func (m *mockProgressRepo) GetRecord(ctx context.Context, characterID int, day time.Time) (*domain.ProgressRecord, error) {
	record, ok := m.records[dayKey(characterID, day)]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (m *mockProgressRepo) GetRecordsInRange(ctx context.Context, characterID int, from, to time.Time) ([]domain.ProgressRecord, error) {
	if m.failRange {
		return nil, errors.New("connection refused")
	}
	var out []domain.ProgressRecord
	for _, record := range m.records {
		if record.CharacterID != characterID {
			continue
		}
		if !record.RecordDay.Before(from) && !record.RecordDay.After(to) {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (m *mockProgressRepo) Upsert(ctx context.Context, record *domain.ProgressRecord) error {
	if m.failUpsert {
		return errors.New("connection refused")
	}
	key := dayKey(record.CharacterID, record.RecordDay)
	if existing, ok := m.records[key]; ok {
		record.ID = existing.ID
	} else {
		m.nextID++
		record.ID = m.nextID
	}
	clone := *record
	m.records[key] = &clone
	return nil
}

func (m *mockProgressRepo) count() int {
	return len(m.records)
}

func testCharacter() *domain.Character {
	level := 80
	return &domain.Character{ID: 1, Key: "us|icecrown|littlegizmo", Level: &level}
}

// fillGearDay stores 16 slot records that sum to the given total, with the
// main-hand slot holding mainHandLevel.
func fillGearDay(repo *mockGearRepo, characterID int, day time.Time, total, mainHandLevel int, mainHandSize *string) {
	perSlot := (total - mainHandLevel) / 15
	remainder := (total - mainHandLevel) % 15
	for i, slot := range domain.CanonicalSlots {
		if slot == domain.SlotMainHand {
			repo.addRecord(characterID, day, slot, mainHandLevel, mainHandSize)
			continue
		}
		level := perSlot
		if i == 0 {
			level += remainder
		}
		repo.addRecord(characterID, day, slot, level, nil)
	}
}

// Friday of the week whose reset Tuesday is 2026-08-25
var friday = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func TestAggregateAverageItemLevelOneHanded(t *testing.T) {
	gearRepo := newMockGearRepo()
	progressRepo := newMockProgressRepo()
	fillGearDay(gearRepo, 1, friday, 1280, 80, nil)

	result, err := NewAggregator(gearRepo, progressRepo).Aggregate(context.Background(), testCharacter(), friday)
	require.NoError(t, err)

	assert.Equal(t, 80, result.Record.AverageItemLevel)
	assert.Equal(t, 80, result.Summary.AverageItemLevel)
}

func TestAggregateAverageItemLevelTwoHanded(t *testing.T) {
	gearRepo := newMockGearRepo()
	progressRepo := newMockProgressRepo()
	twoHand := domain.WeaponSizeTwoHanded
	// 15 slots summing to 1140 plus a two-handed main hand at 80, counted
	// twice: floor((1140+80+80)/16) = 81
	fillGearDay(gearRepo, 1, friday, 1220, 80, &twoHand)

	result, err := NewAggregator(gearRepo, progressRepo).Aggregate(context.Background(), testCharacter(), friday)
	require.NoError(t, err)

	assert.Equal(t, 81, result.Record.AverageItemLevel)
}

func TestAggregateNoGearRecords(t *testing.T) {
	result, err := NewAggregator(newMockGearRepo(), newMockProgressRepo()).
		Aggregate(context.Background(), testCharacter(), friday)
	require.NoError(t, err, "missing gear data is not an error")

	assert.Equal(t, 0, result.Record.AverageItemLevel)
}

func TestAggregateIdempotent(t *testing.T) {
	gearRepo := newMockGearRepo()
	progressRepo := newMockProgressRepo()
	fillGearDay(gearRepo, 1, friday, 1280, 80, nil)

	aggregator := NewAggregator(gearRepo, progressRepo)

	first, err := aggregator.Aggregate(context.Background(), testCharacter(), friday)
	require.NoError(t, err)
	second, err := aggregator.Aggregate(context.Background(), testCharacter(), friday)
	require.NoError(t, err)

	assert.Equal(t, 1, progressRepo.count(), "re-running must not create a duplicate row")
	assert.Equal(t, first.Record, second.Record)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestAggregateWeeklyFlagAccumulation(t *testing.T) {
	gearRepo := newMockGearRepo()
	progressRepo := newMockProgressRepo()

	wednesday := friday.AddDate(0, 0, -2)
	thursday := friday.AddDate(0, 0, -1)

	// Wednesday: nothing done yet. Thursday: pinnacle quest completed.
	progressRepo.records[dayKey(1, wednesday)] = &domain.ProgressRecord{
		ID: 1, CharacterID: 1, RecordDay: wednesday,
	}
	progressRepo.records[dayKey(1, thursday)] = &domain.ProgressRecord{
		ID: 2, CharacterID: 1, RecordDay: thursday,
		PinnacleQuestDone: true, DelvesCompleted: 3,
	}

	result, err := NewAggregator(gearRepo, progressRepo).Aggregate(context.Background(), testCharacter(), friday)
	require.NoError(t, err)

	assert.True(t, result.Record.PinnacleQuestDone, "flag set earlier in the window must stay true")
	assert.True(t, result.Summary.PinnacleQuestDone)
	assert.False(t, result.Summary.Profession1QuestDone)
	assert.Equal(t, 3, result.Summary.DelvesCompleted)
}

func TestAggregateWindowExcludesPreviousWeek(t *testing.T) {
	gearRepo := newMockGearRepo()
	progressRepo := newMockProgressRepo()

	// Monday before the reset: flags from last week must not leak through.
	lastMonday := friday.AddDate(0, 0, -4)
	progressRepo.records[dayKey(1, lastMonday)] = &domain.ProgressRecord{
		ID: 1, CharacterID: 1, RecordDay: lastMonday,
		PinnacleQuestDone: true, DelvesCompleted: 9,
	}

	result, err := NewAggregator(gearRepo, progressRepo).Aggregate(context.Background(), testCharacter(), friday)
	require.NoError(t, err)

	assert.False(t, result.Record.PinnacleQuestDone)
	assert.Equal(t, 0, result.Summary.DelvesCompleted)
}

func TestAggregatePreservesTargetDayDelves(t *testing.T) {
	gearRepo := newMockGearRepo()
	progressRepo := newMockProgressRepo()

	progressRepo.records[dayKey(1, friday)] = &domain.ProgressRecord{
		ID: 1, CharacterID: 1, RecordDay: friday, DelvesCompleted: 4,
	}

	result, err := NewAggregator(gearRepo, progressRepo).Aggregate(context.Background(), testCharacter(), friday)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Record.DelvesCompleted, "per-day delve count is owned by its recorder")
	assert.Equal(t, 4, result.Summary.DelvesCompleted)
	assert.Equal(t, 1, progressRepo.count())
}

func TestAggregateFailuresPropagate(t *testing.T) {
	t.Run("gear read failure", func(t *testing.T) {
		gearRepo := newMockGearRepo()
		gearRepo.failGet = true
		_, err := NewAggregator(gearRepo, newMockProgressRepo()).
			Aggregate(context.Background(), testCharacter(), friday)
		assert.Error(t, err)
	})

	t.Run("window read failure", func(t *testing.T) {
		progressRepo := newMockProgressRepo()
		progressRepo.failRange = true
		_, err := NewAggregator(newMockGearRepo(), progressRepo).
			Aggregate(context.Background(), testCharacter(), friday)
		assert.Error(t, err)
	})

	t.Run("upsert failure leaves no record", func(t *testing.T) {
		progressRepo := newMockProgressRepo()
		progressRepo.failUpsert = true
		_, err := NewAggregator(newMockGearRepo(), progressRepo).
			Aggregate(context.Background(), testCharacter(), friday)
		assert.Error(t, err)
		assert.Equal(t, 0, progressRepo.count())
	})

	t.Run("unstored character", func(t *testing.T) {
		_, err := NewAggregator(newMockGearRepo(), newMockProgressRepo()).
			Aggregate(context.Background(), &domain.Character{}, friday)
		assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
	})
}
