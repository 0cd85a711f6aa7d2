package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/kidtimer/internal/logger"
	"github.com/abhisek/kidtimer/internal/store"
)

// Activity defaults applied on create.
const (
	DefaultActivityIcon  = "⭐"
	DefaultActivityColor = "#FF6B6B"
	DefaultRewardIcon    = "🏆"
)

// ActivityInput carries the fields of a new activity. A nil multiplier
// means 1.
type ActivityInput struct {
	Name             string           `json:"name"`
	Icon             string           `json:"icon"`
	Color            string           `json:"color"`
	RewardMultiplier *float64         `json:"reward_multiplier"`
	RewardID         string           `json:"reward_id"`
	Goal             store.WeeklyGoal `json:"goal"`
}

// ActivityPatch is a partial edit; nil fields are left unchanged.
type ActivityPatch struct {
	Name              *string  `json:"name"`
	Icon              *string  `json:"icon"`
	Color             *string  `json:"color"`
	RewardMultiplier  *float64 `json:"reward_multiplier"`
	RewardID          *string  `json:"reward_id"`
	GoalEnabled       *bool    `json:"is_goal_enabled"`
	GoalSessions      *int     `json:"weekly_goal_sessions"`
	MinutesPerSession *int     `json:"goal_duration_minutes"`
}

// Activities lists the user's activities in creation order.
func (s *Service) Activities(ctx context.Context, user string) ([]store.Activity, error) {
	acts, err := s.repos.Activities.List(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return acts, nil
}

// Activity returns one activity.
func (s *Service) Activity(ctx context.Context, user, id string) (*store.Activity, error) {
	return s.activity(ctx, user, id)
}

func (s *Service) activity(ctx context.Context, user, id string) (*store.Activity, error) {
	act, err := s.repos.Activities.Get(ctx, user, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
		}
		return nil, fmt.Errorf("load activity: %w", err)
	}
	return act, nil
}

// CreateActivity validates in and stores a new activity.
func (s *Service) CreateActivity(ctx context.Context, user string, in ActivityInput) (*store.Activity, error) {
	act := &store.Activity{
		UserID:           user,
		Name:             strings.TrimSpace(in.Name),
		Icon:             in.Icon,
		Color:            in.Color,
		RewardMultiplier: 1,
		RewardID:         in.RewardID,
		Goal:             in.Goal,
		CreatedAt:        s.now().UnixMilli(),
	}
	if in.RewardMultiplier != nil {
		act.RewardMultiplier = *in.RewardMultiplier
	}
	if act.Icon == "" {
		act.Icon = DefaultActivityIcon
	}
	if act.Color == "" {
		act.Color = DefaultActivityColor
	}
	if err := s.validateActivity(ctx, act); err != nil {
		return nil, err
	}

	if err := s.repos.Activities.Create(ctx, act); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	logger.Info("activity created", "user", user, "id", act.ID, "name", act.Name)
	return act, nil
}

// UpdateActivity applies a partial edit.
func (s *Service) UpdateActivity(ctx context.Context, user, id string, p ActivityPatch) (*store.Activity, error) {
	act, err := s.activity(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		act.Name = strings.TrimSpace(*p.Name)
	}
	if p.Icon != nil {
		act.Icon = *p.Icon
	}
	if p.Color != nil {
		act.Color = *p.Color
	}
	if p.RewardMultiplier != nil {
		act.RewardMultiplier = *p.RewardMultiplier
	}
	if p.RewardID != nil {
		act.RewardID = *p.RewardID
	}
	if p.GoalEnabled != nil {
		act.Goal.Enabled = *p.GoalEnabled
	}
	if p.GoalSessions != nil {
		act.Goal.Sessions = *p.GoalSessions
	}
	if p.MinutesPerSession != nil {
		act.Goal.MinutesPerSession = *p.MinutesPerSession
	}
	if err := s.validateActivity(ctx, act); err != nil {
		return nil, err
	}

	if err := s.repos.Activities.Update(ctx, act); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrActivityNotFound, id)
		}
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return act, nil
}

// DeleteActivity removes an activity. A session running on it is
// cancelled; its past logs are kept.
func (s *Service) DeleteActivity(ctx context.Context, user, id string) error {
	unlock := s.locks.lock(user)
	defer unlock()

	if err := s.repos.Activities.Delete(ctx, user, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrActivityNotFound, id)
		}
		return fmt.Errorf("delete activity: %w", err)
	}

	sess, err := s.repos.Sessions.Get(ctx, user)
	if err != nil {
		return fmt.Errorf("load active session: %w", err)
	}
	if sess != nil && sess.ActivityID == id {
		if err := s.repos.Sessions.Clear(ctx, user); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		logger.Info("cancelled session of deleted activity", "user", user, "activity", id)
	}
	return nil
}

func (s *Service) validateActivity(ctx context.Context, a *store.Activity) error {
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if math.IsNaN(a.RewardMultiplier) || math.IsInf(a.RewardMultiplier, 0) || a.RewardMultiplier < 0 {
		return fmt.Errorf("%w: reward multiplier must be a number >= 0", ErrInvalidInput)
	}
	if a.Goal.Sessions < 0 || a.Goal.MinutesPerSession < 0 {
		return fmt.Errorf("%w: goal sessions and minutes must be >= 0", ErrInvalidInput)
	}
	if a.RewardID != "" {
		if _, err := s.repos.Rewards.Get(ctx, a.UserID, a.RewardID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: reward %s does not exist", ErrInvalidInput, a.RewardID)
			}
			return fmt.Errorf("load reward: %w", err)
		}
	}
	return nil
}

// Rewards lists the user's reward buckets.
func (s *Service) Rewards(ctx context.Context, user string) ([]store.Reward, error) {
	rs, err := s.repos.Rewards.List(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	return rs, nil
}

// CreateReward stores a new reward bucket.
func (s *Service) CreateReward(ctx context.Context, user, name, icon string) (*store.Reward, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if icon == "" {
		icon = DefaultRewardIcon
	}
	r := &store.Reward{UserID: user, Name: name, Icon: icon, CreatedAt: s.now().UnixMilli()}
	if err := s.repos.Rewards.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create reward: %w", err)
	}
	logger.Info("reward created", "user", user, "id", r.ID, "name", r.Name)
	return r, nil
}

// DeleteReward removes a reward bucket and unlinks activities pointing at
// it. Logs keep the id they were earned under.
func (s *Service) DeleteReward(ctx context.Context, user, id string) error {
	if err := s.repos.Rewards.Delete(ctx, user, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrRewardNotFound, id)
		}
		return fmt.Errorf("delete reward: %w", err)
	}

	acts, err := s.repos.Activities.List(ctx, user)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}
	for i := range acts {
		if acts[i].RewardID != id {
			continue
		}
		acts[i].RewardID = ""
		if err := s.repos.Activities.Update(ctx, &acts[i]); err != nil {
			return fmt.Errorf("unlink activity %s: %w", acts[i].ID, err)
		}
	}
	return nil
}
