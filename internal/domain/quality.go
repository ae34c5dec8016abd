package domain

// QualityTier represents the rarity classification of an item
type QualityTier string

const (
	QualityCommon   QualityTier = "COMMON"
	QualityUncommon QualityTier = "UNCOMMON"
	QualityRare     QualityTier = "RARE"
	QualityEpic     QualityTier = "EPIC"
)

// qualityRank orders tiers for comparison: COMMON < UNCOMMON < RARE < EPIC
var qualityRank = map[QualityTier]int{
	QualityCommon:   0,
	QualityUncommon: 1,
	QualityRare:     2,
	QualityEpic:     3,
}

// IsValid reports whether q is a recognized quality tier
func (q QualityTier) IsValid() bool {
	_, ok := qualityRank[q]
	return ok
}

// Rank returns the ordinal position of the tier, -1 for unrecognized tiers
func (q QualityTier) Rank() int {
	if rank, ok := qualityRank[q]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether q is the same tier as other or a higher one
func (q QualityTier) AtLeast(other QualityTier) bool {
	return q.Rank() >= other.Rank() && q.Rank() >= 0
}
