// Package gear builds the per-slot daily snapshot from a character's
// equipped-items collection.
package gear

import (
	"context"
	"fmt"
	"time"

	"github.com/osgood/armorytrack/internal/domain"
	"github.com/osgood/armorytrack/internal/logger"
	"github.com/osgood/armorytrack/internal/metrics"
	"github.com/osgood/armorytrack/internal/repository"
)

// SlotAttributes is the finalized per-slot view handed to the aggregator and
// the snapshot export writer.
type SlotAttributes struct {
	Name      string             `json:"name"`
	ItemID    int                `json:"item_id"`
	ItemLevel int                `json:"ilevel"`
	Quality   domain.QualityTier `json:"quality"`
	Size      *string            `json:"size"`
}

// Snapshot is the outcome of one build run for one character and day
type Snapshot struct {
	Day          time.Time
	Attributes   map[domain.Slot]SlotAttributes
	MissingSlots []domain.Slot // slots with no equipped entry (not fatal)
	FailedSlots  []domain.Slot // slots whose persistence failed (not fatal)
}

// Builder persists one gear record per equipped slot per day
type Builder struct {
	repo repository.Gear
}

func NewBuilder(repo repository.Gear) *Builder {
	return &Builder{repo: repo}
}

// BuildSnapshot walks the 16 canonical slots, derives each slot's attributes
// from the equipped-items collection and reconciles them against any stored
// record for (character, slot, day). Persistence runs one transaction per
// slot; a slot failure is logged and the remaining slots still process.
// Missing slots (an empty off-hand, say) produce a diagnostic and are skipped.
func (b *Builder) BuildSnapshot(ctx context.Context, character *domain.Character, items []domain.EquippedItem, day time.Time) (*Snapshot, error) {
	if character == nil || character.ID == 0 {
		return nil, fmt.Errorf("%w: gear snapshot requires a stored character", domain.ErrCharacterNotFound)
	}

	log := logger.FromContext(ctx).With("character", character.Key)
	day = domain.Day(day)

	bySlot := make(map[domain.Slot]domain.EquippedItem, len(items))
	available := make([]domain.Slot, 0, len(items))
	for _, item := range items {
		bySlot[item.SlotType] = item
		available = append(available, item.SlotType)
	}

	snapshot := &Snapshot{
		Day:        day,
		Attributes: make(map[domain.Slot]SlotAttributes, len(domain.CanonicalSlots)),
	}

	for _, slot := range domain.CanonicalSlots {
		item, ok := bySlot[slot]
		if !ok {
			log.Warn("Slot missing from equipped items",
				"slot", slot,
				"returned_slots", available)
			snapshot.MissingSlots = append(snapshot.MissingSlots, slot)
			continue
		}

		attrs := SlotAttributes{
			Name:      item.Name,
			ItemID:    item.ItemID,
			ItemLevel: item.ItemLevel,
			Quality:   item.Quality,
		}
		if slot == domain.SlotMainHand && item.InventoryType != "" {
			size := item.InventoryType
			attrs.Size = &size
		}
		snapshot.Attributes[slot] = attrs

		if err := b.persistSlot(ctx, character.ID, slot, day, attrs); err != nil {
			log.Error("Failed to persist gear record", "slot", slot, "error", err)
			metrics.GearSlotFailures.WithLabelValues(string(slot)).Inc()
			snapshot.FailedSlots = append(snapshot.FailedSlots, slot)
		}
	}

	return snapshot, nil
}

// persistSlot reconciles one slot against storage: update in place when a
// record for the day exists, insert otherwise.
func (b *Builder) persistSlot(ctx context.Context, characterID int, slot domain.Slot, day time.Time, attrs SlotAttributes) error {
	existing, err := b.repo.GetRecord(ctx, characterID, slot, day)
	if err != nil {
		return fmt.Errorf("looking up gear record: %w", err)
	}

	record := existing
	if record == nil {
		record = &domain.GearRecord{
			CharacterID: characterID,
			RecordDay:   day,
			Slot:        slot,
		}
	} else if !recordDiffers(record, attrs) {
		return nil
	}

	record.ItemID = attrs.ItemID
	record.ItemLevel = attrs.ItemLevel
	record.Name = attrs.Name
	record.Quality = attrs.Quality
	record.Size = attrs.Size

	if err := b.repo.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upserting gear record: %w", err)
	}
	return nil
}

// recordDiffers reports whether the freshly derived attributes change the
// stored record
func recordDiffers(record *domain.GearRecord, attrs SlotAttributes) bool {
	if record.ItemID != attrs.ItemID ||
		record.ItemLevel != attrs.ItemLevel ||
		record.Name != attrs.Name ||
		record.Quality != attrs.Quality {
		return true
	}
	switch {
	case record.Size == nil && attrs.Size == nil:
		return false
	case record.Size == nil || attrs.Size == nil:
		return true
	default:
		return *record.Size != *attrs.Size
	}
}
