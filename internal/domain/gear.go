package domain

import "time"

// Slot is a fixed equipment position. The API reports slots as upper-case
// type tags (e.g. "MAIN_HAND").
type Slot string

const (
	SlotHead     Slot = "HEAD"
	SlotNeck     Slot = "NECK"
	SlotShoulder Slot = "SHOULDER"
	SlotBack     Slot = "BACK"
	SlotChest    Slot = "CHEST"
	SlotWrist    Slot = "WRIST"
	SlotHands    Slot = "HANDS"
	SlotWaist    Slot = "WAIST"
	SlotLegs     Slot = "LEGS"
	SlotFeet     Slot = "FEET"
	SlotFinger1  Slot = "FINGER_1"
	SlotFinger2  Slot = "FINGER_2"
	SlotTrinket1 Slot = "TRINKET_1"
	SlotTrinket2 Slot = "TRINKET_2"
	SlotMainHand Slot = "MAIN_HAND"
	SlotOffHand  Slot = "OFF_HAND"
)

// CanonicalSlots lists the 16 tracked equipment slots in display order.
// Item level averaging always divides by len(CanonicalSlots).
var CanonicalSlots = []Slot{
	SlotHead, SlotNeck, SlotShoulder, SlotBack,
	SlotChest, SlotWrist, SlotHands, SlotWaist,
	SlotLegs, SlotFeet, SlotFinger1, SlotFinger2,
	SlotTrinket1, SlotTrinket2, SlotMainHand, SlotOffHand,
}

// IsCanonicalSlot reports whether s is one of the 16 tracked slots
func IsCanonicalSlot(s Slot) bool {
	for _, slot := range CanonicalSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// WeaponSizeTwoHanded is the inventory_type tag for a two-handed main-hand
// weapon. A two-hander fills both hand slots, so its item level counts twice
// when averaging.
const WeaponSizeTwoHanded = "TWOHWEAPON"

// GearRecord is one equipped item for one character on one calendar day.
// At most one record exists per (character, slot, day); later refreshes for
// the same day update the record in place.
type GearRecord struct {
	ID          int         `json:"gear_id" db:"gear_id"`
	CharacterID int         `json:"character_id" db:"character_id"`
	RecordDay   time.Time   `json:"record_day" db:"record_day"`
	Slot        Slot        `json:"slot" db:"slot"`
	ItemID      int         `json:"item_id" db:"item_id"`
	ItemLevel   int         `json:"ilevel" db:"ilevel"`
	Name        string      `json:"name" db:"name"`
	Quality     QualityTier `json:"quality" db:"quality"`
	Size        *string     `json:"size,omitempty" db:"size"` // set for MAIN_HAND only
}

// IsTwoHanded reports whether the record describes a two-handed weapon
func (g *GearRecord) IsTwoHanded() bool {
	return g.Size != nil && *g.Size == WeaponSizeTwoHanded
}
