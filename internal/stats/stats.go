// Package stats derives display totals from logs: today's per-activity
// time and reward, per reward bucket breakdowns, running totals and the
// daily history.
package stats

import (
	"sort"
	"time"

	"github.com/abhisek/kidtimer/internal/store"
)

// ActivityTotal sums one activity's sessions.
type ActivityTotal struct {
	ActivityID string  `json:"activity_id"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Color      string  `json:"color,omitempty"`
	Sessions   int     `json:"sessions"`
	DurationMs int64   `json:"duration_ms"`
	EarnedMs   float64 `json:"earned_ms"`
}

// RewardTotal sums earned time per reward bucket. Logs earned without a
// linked reward are grouped under an empty RewardID.
type RewardTotal struct {
	RewardID string  `json:"reward_id"`
	Name     string  `json:"name"`
	Icon     string  `json:"icon"`
	EarnedMs float64 `json:"earned_ms"`
}

// Summary is the totals for one day.
type Summary struct {
	Date            string          `json:"date"`
	TotalDurationMs int64           `json:"total_duration_ms"`
	TotalEarnedMs   float64         `json:"total_earned_ms"`
	Activities      []ActivityTotal `json:"activities"`
	Rewards         []RewardTotal   `json:"rewards"`
}

// Day computes the totals of logs dated date. Activities are ordered as
// given; deleted activities that still have logs are appended with their
// id as name.
func Day(date string, activities []store.Activity, rewards []store.Reward, logs []store.LogEntry) Summary {
	sum := Summary{Date: date}

	byActivity := make(map[string]*ActivityTotal)
	var order []string
	for _, a := range activities {
		byActivity[a.ID] = &ActivityTotal{ActivityID: a.ID, Name: a.Name, Icon: a.Icon, Color: a.Color}
		order = append(order, a.ID)
	}

	byReward := make(map[string]*RewardTotal)
	var rewardOrder []string
	for _, r := range rewards {
		byReward[r.ID] = &RewardTotal{RewardID: r.ID, Name: r.Name, Icon: r.Icon}
		rewardOrder = append(rewardOrder, r.ID)
	}

	for _, l := range logs {
		if l.DateStr != date {
			continue
		}
		at := byActivity[l.ActivityID]
		if at == nil {
			at = &ActivityTotal{ActivityID: l.ActivityID, Name: l.ActivityID}
			byActivity[l.ActivityID] = at
			order = append(order, l.ActivityID)
		}
		at.Sessions++
		at.DurationMs += l.Duration
		at.EarnedMs += l.EarnedReward

		rt := byReward[l.RewardID]
		if rt == nil {
			rt = &RewardTotal{RewardID: l.RewardID}
			byReward[l.RewardID] = rt
			rewardOrder = append(rewardOrder, l.RewardID)
		}
		rt.EarnedMs += l.EarnedReward

		sum.TotalDurationMs += l.Duration
		sum.TotalEarnedMs += l.EarnedReward
	}

	for _, id := range order {
		sum.Activities = append(sum.Activities, *byActivity[id])
	}
	for _, id := range rewardOrder {
		if rt := byReward[id]; rt.EarnedMs > 0 {
			sum.Rewards = append(sum.Rewards, *rt)
		}
	}
	return sum
}

// RunningTotal returns today's logged time for activityID plus the elapsed
// time of sess when it is running on the same activity.
func RunningTotal(activityID, today string, logs []store.LogEntry, sess *store.ActiveSession, now time.Time) int64 {
	var total int64
	for _, l := range logs {
		if l.ActivityID == activityID && l.DateStr == today {
			total += l.Duration
		}
	}
	if sess != nil && sess.ActivityID == activityID {
		total += max(now.UnixMilli()-sess.StartTime, 0)
	}
	return total
}

// HistoryDay is one date of the history view.
type HistoryDay struct {
	Date       string          `json:"date"`
	TotalMs    int64           `json:"total_ms"`
	Activities []ActivityTotal `json:"activities"`
}

// History groups logs by date, newest date first. Within a day activities
// are ordered by first appearance in start-time-descending order.
func History(activities []store.Activity, logs []store.LogEntry) []HistoryDay {
	sorted := make([]store.LogEntry, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartTime > sorted[j].StartTime })

	names := make(map[string]store.Activity, len(activities))
	for _, a := range activities {
		names[a.ID] = a
	}

	type dayAgg struct {
		day   HistoryDay
		index map[string]int
	}
	days := make(map[string]*dayAgg)
	var dates []string

	for _, l := range sorted {
		d := days[l.DateStr]
		if d == nil {
			d = &dayAgg{day: HistoryDay{Date: l.DateStr}, index: make(map[string]int)}
			days[l.DateStr] = d
			dates = append(dates, l.DateStr)
		}
		i, ok := d.index[l.ActivityID]
		if !ok {
			at := ActivityTotal{ActivityID: l.ActivityID, Name: l.ActivityID}
			if a, found := names[l.ActivityID]; found {
				at.Name, at.Icon, at.Color = a.Name, a.Icon, a.Color
			}
			d.day.Activities = append(d.day.Activities, at)
			i = len(d.day.Activities) - 1
			d.index[l.ActivityID] = i
		}
		d.day.Activities[i].Sessions++
		d.day.Activities[i].DurationMs += l.Duration
		d.day.Activities[i].EarnedMs += l.EarnedReward
		d.day.TotalMs += l.Duration
	}

	sort.SliceStable(dates, func(i, j int) bool { return dates[i] > dates[j] })
	out := make([]HistoryDay, 0, len(dates))
	for _, date := range dates {
		out = append(out, days[date].day)
	}
	return out
}
