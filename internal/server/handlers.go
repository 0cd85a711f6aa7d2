package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/abhisek/kidtimer/internal/goals"
	"github.com/abhisek/kidtimer/internal/stats"
	"github.com/abhisek/kidtimer/internal/store"
	"github.com/abhisek/kidtimer/internal/tracker"
)

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := s.tracker.Activities(r.Context(), userFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(acts))
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var in tracker.ActivityInput
	if err := decode(w, r, &in, maxBodyBytes); err != nil {
		fail(w, r, err)
		return
	}
	act, err := s.tracker.CreateActivity(r.Context(), userFrom(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, act)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	var p tracker.ActivityPatch
	if err := decode(w, r, &p, maxBodyBytes); err != nil {
		fail(w, r, err)
		return
	}
	act, err := s.tracker.UpdateActivity(r.Context(), userFrom(r.Context()), r.PathValue("id"), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteActivity(r.Context(), userFrom(r.Context()), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := s.tracker.Rewards(r.Context(), userFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rewards))
}

func (s *Server) handleCreateReward(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}
	if err := decode(w, r, &in, maxBodyBytes); err != nil {
		fail(w, r, err)
		return
	}
	rw, err := s.tracker.CreateReward(r.Context(), userFrom(r.Context()), in.Name, in.Icon)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rw)
}

func (s *Server) handleDeleteReward(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteReward(r.Context(), userFrom(r.Context()), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lq := store.LogQuery{
		Date:       q.Get("date"),
		From:       q.Get("from"),
		To:         q.Get("to"),
		ActivityID: q.Get("activity_id"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fail(w, r, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
			return
		}
		lq.Limit = n
	}
	logs, err := s.tracker.Logs(r.Context(), userFrom(r.Context()), lq)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(logs))
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteLog(r.Context(), userFrom(r.Context()), r.PathValue("id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetToday(w http.ResponseWriter, r *http.Request) {
	n, err := s.tracker.ResetToday(r.Context(), userFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.Status(r.Context(), userFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ActivityID string `json:"activity_id"`
	}
	if err := decode(w, r, &in, maxBodyBytes); err != nil {
		fail(w, r, err)
		return
	}
	if in.ActivityID == "" {
		fail(w, r, fmt.Errorf("%w: activity_id is required", tracker.ErrInvalidInput))
		return
	}
	sess, err := s.tracker.Start(r.Context(), userFrom(r.Context()), in.ActivityID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	entry, err := s.tracker.Stop(r.Context(), userFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Cancel(r.Context(), userFrom(r.Context())); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.Settings(r.Context(), userFrom(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p tracker.SettingsPatch
	if err := decode(w, r, &p, maxBodyBytes); err != nil {
		fail(w, r, err)
		return
	}
	st, err := s.tracker.UpdateSettings(r.Context(), userFrom(r.Context()), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type todayResponse struct {
	stats.Summary
	RewardName string         `json:"reward_name"`
	Status     tracker.Status `json:"status"`
}

func (s *Server) handleStatsToday(w http.ResponseWriter, r *http.Request) {
	ctx, user := r.Context(), userFrom(r.Context())

	acts, err := s.tracker.Activities(ctx, user)
	if err != nil {
		fail(w, r, err)
		return
	}
	rewards, err := s.tracker.Rewards(ctx, user)
	if err != nil {
		fail(w, r, err)
		return
	}
	logs, err := s.tracker.TodayLogs(ctx, user)
	if err != nil {
		fail(w, r, err)
		return
	}
	settings, err := s.tracker.Settings(ctx, user)
	if err != nil {
		fail(w, r, err)
		return
	}
	st, err := s.tracker.Status(ctx, user)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todayResponse{
		Summary:    stats.Day(s.tracker.Today(), acts, rewards, logs),
		RewardName: settings.RewardName,
		Status:     st,
	})
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	ctx, user := r.Context(), userFrom(r.Context())
	acts, err := s.tracker.Activities(ctx, user)
	if err != nil {
		fail(w, r, err)
		return
	}
	q := r.URL.Query()
	logs, err := s.tracker.Logs(ctx, user, store.LogQuery{From: q.Get("from"), To: q.Get("to")})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.History(acts, logs))
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if v := r.URL.Query().Get("week_offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail(w, r, fmt.Errorf("%w: week_offset must be an integer", errBadRequest))
			return
		}
		offset = n
	}
	report, err := s.weekly(r, offset)
	if err != nil {
		fail(w, r, err)
		return
	}
	report.Goals = nonNil(report.Goals)
	writeJSON(w, http.StatusOK, report)
}

// weekly computes the goal report of the caller for the week at offset.
func (s *Server) weekly(r *http.Request, offset int) (goals.Report, error) {
	ctx, user := r.Context(), userFrom(r.Context())
	now := s.tracker.Now()
	week := goals.WeekRange(now, offset)

	acts, err := s.tracker.Activities(ctx, user)
	if err != nil {
		return goals.Report{}, err
	}
	logs, err := s.tracker.Logs(ctx, user, store.LogQuery{From: week.FirstDay(), To: week.LastDay()})
	if err != nil {
		return goals.Report{}, err
	}
	return goals.Weekly(acts, logs, now, offset), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
