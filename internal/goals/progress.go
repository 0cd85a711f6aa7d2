package goals

import (
	"math"
	"time"

	"github.com/abhisek/kidtimer/internal/store"
)

// Progress is one activity's standing against its weekly goal.
type Progress struct {
	ActivityID         string `json:"activity_id"`
	Name               string `json:"name"`
	Icon               string `json:"icon"`
	CompletedSessions  int    `json:"completed_sessions"`
	TargetSessions     int    `json:"target_sessions"`
	MinutesPerSession  int    `json:"minutes_per_session"`
	TotalMinutes       int64  `json:"total_minutes"`
	TargetTotalMinutes int    `json:"target_total_minutes"`
	Percent            int    `json:"percent"`
}

// Done reports whether the session target has been reached.
func (p Progress) Done() bool {
	return p.CompletedSessions >= p.TargetSessions
}

// Report is the weekly progress of every goal-enabled activity.
type Report struct {
	Week     Week       `json:"-"`
	From     string     `json:"from"`
	To       string     `json:"to"`
	DaysLeft int        `json:"days_left"`
	Goals    []Progress `json:"goals"`
}

// Compute builds progress for activities whose goal is enabled with a
// positive session target. Each log dated inside the week counts as one
// completed session regardless of its length.
func Compute(activities []store.Activity, logs []store.LogEntry, week Week) []Progress {
	type agg struct {
		count int
		ms    int64
	}
	byActivity := make(map[string]*agg)
	for _, l := range logs {
		if !week.Contains(l.DateStr) {
			continue
		}
		a := byActivity[l.ActivityID]
		if a == nil {
			a = &agg{}
			byActivity[l.ActivityID] = a
		}
		a.count++
		a.ms += l.Duration
	}

	var out []Progress
	for _, act := range activities {
		if !act.Goal.Active() {
			continue
		}
		p := Progress{
			ActivityID:         act.ID,
			Name:               act.Name,
			Icon:               act.Icon,
			TargetSessions:     act.Goal.Sessions,
			MinutesPerSession:  act.Goal.MinutesPerSession,
			TargetTotalMinutes: act.Goal.Sessions * act.Goal.MinutesPerSession,
		}
		if a := byActivity[act.ID]; a != nil {
			p.CompletedSessions = a.count
			p.TotalMinutes = a.ms / int64(time.Minute/time.Millisecond)
		}
		p.Percent = Percent(p.CompletedSessions, p.TargetSessions)
		out = append(out, p)
	}
	return out
}

// Percent returns completed/target as a rounded percentage clamped to
// [0, 100]. A non-positive target yields 0.
func Percent(completed, target int) int {
	if target <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(target) * 100))
	return min(100, max(0, pct))
}

// Weekly computes the report for the week at offset relative to now.
func Weekly(activities []store.Activity, logs []store.LogEntry, now time.Time, offset int) Report {
	week := WeekRange(now, offset)
	r := Report{
		Week:  week,
		From:  week.FirstDay(),
		To:    week.LastDay(),
		Goals: Compute(activities, logs, week),
	}
	if offset == 0 {
		r.DaysLeft = DaysLeft(now)
	}
	return r
}
