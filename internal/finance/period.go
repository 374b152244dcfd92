package finance

import "time"

type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
)

// PeriodStart returns the inclusive lower bound of period at now, in now's
// location. The second result is false for "all" and unknown periods.
func PeriodStart(period Period, now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	loc := now.Location()

	switch period {
	case PeriodWeek:
		// ISO weeks start on Monday; Sunday closes the previous week.
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc), true
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), true
	case PeriodQuarter:
		first := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, loc), true
	case PeriodYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// calendarDay pins t's calendar date to midnight in loc so dates stored as
// UTC midnight compare by day, not by instant.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
