package domain

// EquippedItem is one entry of a character's equipped-items collection after
// the API wire shape has been flattened. InventoryType is only meaningful for
// the main-hand slot, where it distinguishes one- and two-handed weapons.
type EquippedItem struct {
	SlotType      Slot
	ItemID        int
	ItemLevel     int
	Name          string
	Quality       QualityTier
	InventoryType string
}
