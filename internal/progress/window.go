package progress

import "time"

// ResetWeekday is the weekday on which weekly progress counters reset.
const ResetWeekday = time.Weekday(time.Tuesday)

// WeekWindow returns the inclusive [from, to] day range of the reset week
// containing day: the target day back through the first day after the most
// recent reset weekday. On the reset weekday itself the window is the target
// day alone, since the week restarts that morning. The reset weekday never
// appears in the lookback.
func WeekWindow(day time.Time, reset time.Weekday) (from, to time.Time) {
	to = normalize(day)

	offset := (int(to.Weekday()) - int(reset) + 7) % 7
	if offset == 0 {
		return to, to
	}
	return to.AddDate(0, 0, -(offset - 1)), to
}

func normalize(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
