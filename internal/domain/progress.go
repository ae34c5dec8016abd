package domain

import "time"

// ProgressRecord is one aggregate snapshot for one character on one day.
// At most one record exists per (character, day); an aggregation run either
// creates the day's record or updates it in place.
type ProgressRecord struct {
	ID                   int       `json:"progress_id" db:"progress_id"`
	CharacterID          int       `json:"character_id" db:"character_id"`
	CharacterLevel       *int      `json:"character_level,omitempty" db:"character_level"`
	RecordDay            time.Time `json:"record_day" db:"record_day"`
	AverageItemLevel     int       `json:"average_item_level" db:"average_item_level"`
	PinnacleQuestDone    bool      `json:"pinnacle_quest_done" db:"pinnacle_quest_done"`
	Profession1QuestDone bool      `json:"profession_1_quest_done" db:"profession_1_quest_done"`
	Profession2QuestDone bool      `json:"profession_2_quest_done" db:"profession_2_quest_done"`
	DelvesCompleted      int       `json:"delves_completed" db:"delves_completed"`
}

// Day normalizes t to a date at midnight UTC. All record_day values are
// stored in this form so day equality is exact.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
