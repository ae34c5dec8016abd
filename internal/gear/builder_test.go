package gear

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

// Mock gear repository keyed on (character, slot, day)
type mockGearRepo struct {
	records     map[string]*domain.GearRecord
	failSlots   map[domain.Slot]bool
	upsertCalls int
	nextID      int
}

func newMockGearRepo() *mockGearRepo {
	return &mockGearRepo{
		records:   make(map[string]*domain.GearRecord),
		failSlots: make(map[domain.Slot]bool),
	}
}

func gearKey(characterID int, slot domain.Slot, day time.Time) string {
	return fmt.Sprintf("%d/%s/%s", characterID, slot, domain.Day(day).Format("2006-01-02"))
}

func (m *mockGearRepo) GetRecord(ctx context.Context, characterID int, slot domain.Slot, day time.Time) (*domain.GearRecord, error) {
	if m.failSlots[slot] {
		return nil, errors.New("connection refused")
	}
	record, ok := m.records[gearKey(characterID, slot, day)]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (m *mockGearRepo) GetRecordsForDay(ctx context.Context, characterID int, day time.Time) ([]domain.GearRecord, error) {
	var out []domain.GearRecord
	for _, record := range m.records {
		if record.CharacterID == characterID && record.RecordDay.Equal(domain.Day(day)) {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (m *mockGearRepo) Upsert(ctx context.Context, record *domain.GearRecord) error {
	if m.failSlots[record.Slot] {
		return errors.New("connection refused")
	}
	m.upsertCalls++
	key := gearKey(record.CharacterID, record.Slot, record.RecordDay)
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

func testCharacter() *domain.Character {
	return &domain.Character{ID: 1, Key: "us|icecrown|littlegizmo", Region: "us", Realm: "icecrown", Name: "littlegizmo"}
}

// fullEquipment returns entries for all 16 canonical slots at the given item level
func fullEquipment(ilevel int) []domain.EquippedItem {
	items := make([]domain.EquippedItem, 0, len(domain.CanonicalSlots))
	for i, slot := range domain.CanonicalSlots {
		item := domain.EquippedItem{
			SlotType:  slot,
			ItemID:    1000 + i,
			ItemLevel: ilevel,
			Name:      "Item " + string(slot),
			Quality:   domain.QualityEpic,
		}
		if slot == domain.SlotMainHand {
			item.InventoryType = "WEAPON"
		}
		items = append(items, item)
	}
	return items
}

func dropSlot(items []domain.EquippedItem, slot domain.Slot) []domain.EquippedItem {
	out := items[:0]
	for _, item := range items {
		if item.SlotType != slot {
			out = append(out, item)
		}
	}
	return out
}

func TestBuildSnapshotAllSlots(t *testing.T) {
	repo := newMockGearRepo()
	builder := NewBuilder(repo)
	day := time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC)

	snapshot, err := builder.BuildSnapshot(context.Background(), testCharacter(), fullEquipment(600), day)
	require.NoError(t, err)

	assert.Len(t, snapshot.Attributes, 16)
	assert.Empty(t, snapshot.MissingSlots)
	assert.Empty(t, snapshot.FailedSlots)
	assert.Equal(t, 16, repo.upsertCalls)

	// Day is normalized to midnight UTC
	assert.Equal(t, domain.Day(day), snapshot.Day)

	// Size derived only for MAIN_HAND
	mainHand := snapshot.Attributes[domain.SlotMainHand]
	require.NotNil(t, mainHand.Size)
	assert.Equal(t, "WEAPON", *mainHand.Size)
	assert.Nil(t, snapshot.Attributes[domain.SlotHead].Size)
}

func TestBuildSnapshotMissingSlotTolerated(t *testing.T) {
	repo := newMockGearRepo()
	builder := NewBuilder(repo)
	items := dropSlot(fullEquipment(600), domain.SlotOffHand)

	snapshot, err := builder.BuildSnapshot(context.Background(), testCharacter(), items, time.Now())
	require.NoError(t, err)

	assert.Len(t, snapshot.Attributes, 15)
	assert.Equal(t, []domain.Slot{domain.SlotOffHand}, snapshot.MissingSlots)
	assert.Equal(t, 15, repo.upsertCalls)
}

func TestBuildSnapshotUpdatesInPlace(t *testing.T) {
	repo := newMockGearRepo()
	builder := NewBuilder(repo)
	character := testCharacter()
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	_, err := builder.BuildSnapshot(context.Background(), character, fullEquipment(600), day)
	require.NoError(t, err)

	headBefore, err := repo.GetRecord(context.Background(), character.ID, domain.SlotHead, day)
	require.NoError(t, err)
	require.NotNil(t, headBefore)

	// Second run same day with an upgraded head item
	items := fullEquipment(600)
	for i := range items {
		if items[i].SlotType == domain.SlotHead {
			items[i].ItemLevel = 615
		}
	}
	_, err = builder.BuildSnapshot(context.Background(), character, items, day)
	require.NoError(t, err)

	headAfter, err := repo.GetRecord(context.Background(), character.ID, domain.SlotHead, day)
	require.NoError(t, err)
	require.NotNil(t, headAfter)
	assert.Equal(t, headBefore.ID, headAfter.ID, "same-day refresh must update, not duplicate")
	assert.Equal(t, 615, headAfter.ItemLevel)
}

func TestBuildSnapshotSkipsUnchangedRecords(t *testing.T) {
	repo := newMockGearRepo()
	builder := NewBuilder(repo)
	character := testCharacter()
	day := time.Now()

	_, err := builder.BuildSnapshot(context.Background(), character, fullEquipment(600), day)
	require.NoError(t, err)
	firstRun := repo.upsertCalls

	_, err = builder.BuildSnapshot(context.Background(), character, fullEquipment(600), day)
	require.NoError(t, err)

	assert.Equal(t, firstRun, repo.upsertCalls, "identical refresh must not rewrite records")
}

func TestBuildSnapshotPartialPersistenceFailure(t *testing.T) {
	repo := newMockGearRepo()
	repo.failSlots[domain.SlotChest] = true
	builder := NewBuilder(repo)

	snapshot, err := builder.BuildSnapshot(context.Background(), testCharacter(), fullEquipment(600), time.Now())
	require.NoError(t, err, "one slot's failure must not abort the snapshot")

	assert.Equal(t, []domain.Slot{domain.SlotChest}, snapshot.FailedSlots)
	assert.Equal(t, 15, repo.upsertCalls)
	// The failed slot still appears in the exported attributes
	assert.Contains(t, snapshot.Attributes, domain.SlotChest)
}

func TestBuildSnapshotRequiresStoredCharacter(t *testing.T) {
	builder := NewBuilder(newMockGearRepo())

	_, err := builder.BuildSnapshot(context.Background(), &domain.Character{}, fullEquipment(600), time.Now())
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)

	_, err = builder.BuildSnapshot(context.Background(), nil, fullEquipment(600), time.Now())
	assert.Error(t, err)
}

func TestBuildSnapshotIgnoresNonCanonicalSlots(t *testing.T) {
	repo := newMockGearRepo()
	builder := NewBuilder(repo)

	items := append(fullEquipment(600), domain.EquippedItem{
		SlotType:  domain.Slot("TABARD"),
		ItemID:    9999,
		ItemLevel: 1,
		Name:      "Guild Tabard",
		Quality:   domain.QualityCommon,
	})

	snapshot, err := builder.BuildSnapshot(context.Background(), testCharacter(), items, time.Now())
	require.NoError(t, err)

	assert.Len(t, snapshot.Attributes, 16)
	assert.NotContains(t, snapshot.Attributes, domain.Slot("TABARD"))
}
