// Package goals computes Monday–Sunday week windows and weekly goal
// progress per activity.
package goals

import "time"

// DateLayout is the log date string format.
const DateLayout = "2006-01-02"

// Week is a Monday 00:00 to Sunday 23:59:59.999 window.
type Week struct {
	Start time.Time // Monday 00:00:00.000
	End   time.Time // Sunday 23:59:59.999
}

// FirstDay returns the Monday date string.
func (w Week) FirstDay() string { return w.Start.Format(DateLayout) }

// LastDay returns the Sunday date string.
func (w Week) LastDay() string { return w.End.Format(DateLayout) }

// Contains reports whether the date string falls inside the week. Date
// strings compare lexically in calendar order.
func (w Week) Contains(dateStr string) bool {
	return dateStr >= w.FirstDay() && dateStr <= w.LastDay()
}

// WeekRange returns the week containing now in now's location, shifted by
// offset weeks (-1 is last week).
func WeekRange(now time.Time, offset int) Week {
	y, m, d := now.Date()
	monday := time.Date(y, m, d-daysSinceMonday(now.Weekday())+7*offset, 0, 0, 0, 0, now.Location())
	sunday := time.Date(monday.Year(), monday.Month(), monday.Day()+6, 23, 59, 59, int(999*time.Millisecond), now.Location())
	return Week{Start: monday, End: sunday}
}

// DaysLeft returns how many days remain after today in the Monday–Sunday
// week: 6 on Monday, 0 on Sunday.
func DaysLeft(now time.Time) int {
	return 6 - daysSinceMonday(now.Weekday())
}

func daysSinceMonday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}
