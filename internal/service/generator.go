package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/templui/goalkeeper/internal/model"
)

const (
	// HistoryWindowDays is how far back completed goals and work rates are considered.
	HistoryWindowDays = 28

	stayGoalCount  = 3
	weeklyFactor   = 5
	pushFactorX10  = 11
	weeklyDuration = 7
)

var (
	ErrNilUser       = errors.New("goal generator requires a user")
	ErrNilHistory    = errors.New("goal generator requires a goal history")
	ErrNilGoalLister = errors.New("goal generator requires a goal lister")
)

// GoalHistory is what goal generation needs to know about the past.
type GoalHistory interface {
	RecommendedIntake(ctx context.Context, unit model.Unit, age int, sex model.Sex) (float64, error)
	CompletedUnits(ctx context.Context, userID string, since time.Time) ([]model.Unit, error)
	AverageWorkRate(ctx context.Context, userID string, unit model.Unit, windowDays int) (float64, error)
}

type GoalLister interface {
	Goals(ctx context.Context, userID string, kind model.GoalKind) ([]*model.Goal, error)
}

// GoalGenerator suggests system goals for one user from recommended intakes and their
// recent exercise history.
type GoalGenerator struct {
	user    *model.User
	history GoalHistory
	goals   GoalLister
	rng     *rand.Rand
}

// NewGoalGenerator builds a generator for user. A nil rng draws from a random seed.
func NewGoalGenerator(user *model.User, history GoalHistory, goals GoalLister, rng *rand.Rand) (*GoalGenerator, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	if history == nil {
		return nil, ErrNilHistory
	}
	if goals == nil {
		return nil, ErrNilGoalLister
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &GoalGenerator{
		user:    user,
		history: history,
		goals:   goals,
		rng:     rng,
	}, nil
}

// Generate returns the day-to-day, daily fitness and weekly fitness goals the user is
// missing, in that order. Goals without data behind them are skipped; collaborator
// errors are returned.
func (g *GoalGenerator) Generate(ctx context.Context) ([]*model.Goal, error) {
	existing, err := g.goals.Goals(ctx, g.user.ID, model.GoalKindSystem)
	if err != nil {
		return nil, fmt.Errorf("failed to load system goals: %w", err)
	}

	var hasDayToDay bool
	var daily, weekly []*model.Goal
	for _, goal := range existing {
		if !goal.IsActive() {
			continue
		}
		switch {
		case goal.Category == model.CategoryDayToDay:
			hasDayToDay = true
		case goal.Period == model.PeriodDaily:
			daily = append(daily, goal)
		case goal.Period == model.PeriodWeekly:
			weekly = append(weekly, goal)
		}
	}

	var generated []*model.Goal

	if !hasDayToDay {
		dayToDay, err := g.dayToDayGoals(ctx)
		if err != nil {
			return nil, err
		}
		generated = append(generated, dayToDay...)
	}

	if len(daily) == 0 {
		daily, err = g.dailyFitnessGoals(ctx)
		if err != nil {
			return nil, err
		}
		generated = append(generated, daily...)
	}

	if len(weekly) == 0 {
		weekly, err = weeklyFitnessGoals(daily)
		if err != nil {
			return nil, err
		}
		generated = append(generated, weekly...)
	}

	for _, goal := range generated {
		goal.UserID = g.user.ID
	}

	slog.Debug("system goals generated", "user_id", g.user.ID, "count", len(generated))
	return generated, nil
}

// dayToDayGoals builds one daily nutrition goal per unit with a recommended intake for
// the user's age and sex. Nothing is generated while the age is unknown.
func (g *GoalGenerator) dayToDayGoals(ctx context.Context) ([]*model.Goal, error) {
	if !g.user.HasAge() {
		return nil, nil
	}

	tomorrow := model.Today().AddDate(0, 0, 1)
	var goals []*model.Goal
	for _, unit := range model.NutritionUnits() {
		amount, err := g.history.RecommendedIntake(ctx, unit, g.user.Age, g.user.Sex)
		if err != nil {
			return nil, fmt.Errorf("failed to look up recommended %s intake: %w", unit, err)
		}
		if amount <= 0 {
			continue
		}

		goal, err := model.NewSystemGoal(amount, unit, tomorrow, model.PeriodDaily, model.CategoryDayToDay, false)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, nil
}

// dailyFitnessGoals picks up to three exercise units the user completed goals in
// recently and pairs a "stay" goal at their average pace with a "push" goal 10% above.
func (g *GoalGenerator) dailyFitnessGoals(ctx context.Context) ([]*model.Goal, error) {
	since := model.Today().AddDate(0, 0, -HistoryWindowDays)
	completed, err := g.history.CompletedUnits(ctx, g.user.ID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed units: %w", err)
	}

	var candidates []model.Unit
	for _, unit := range completed {
		if unit.IsExercise() && !slices.Contains(candidates, unit) {
			candidates = append(candidates, unit)
		}
	}
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > stayGoalCount {
		candidates = candidates[:stayGoalCount]
	}

	tomorrow := model.Today().AddDate(0, 0, 1)
	var stay []*model.Goal
	for _, unit := range candidates {
		rate, err := g.history.AverageWorkRate(ctx, g.user.ID, unit, HistoryWindowDays)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s work rate: %w", unit, err)
		}
		target := max(rate, float64(unit.Minimum()))

		goal, err := model.NewSystemGoal(target, unit, tomorrow, model.PeriodDaily, model.CategoryStay, false)
		if err != nil {
			return nil, err
		}
		stay = append(stay, goal)
	}

	if len(candidates) < stayGoalCount && !slices.Contains(candidates, model.UnitExercise) {
		goal, err := model.NewSystemGoal(model.DefaultExerciseMinutes, model.UnitExercise, tomorrow, model.PeriodDaily, model.CategoryStay, false)
		if err != nil {
			return nil, err
		}
		stay = append(stay, goal)
	}

	goals := make([]*model.Goal, 0, 2*len(stay))
	for _, s := range stay {
		push, err := model.NewSystemGoal(pushTarget(s.Target), s.Unit, s.EndDate(), model.PeriodDaily, model.CategoryPush, false)
		if err != nil {
			return nil, err
		}
		goals = append(goals, s, push)
	}

	return goals, nil
}

// weeklyFitnessGoals scales each daily fitness goal up to a week.
func weeklyFitnessGoals(daily []*model.Goal) ([]*model.Goal, error) {
	goals := make([]*model.Goal, 0, len(daily))
	for _, d := range daily {
		goal, err := model.NewSystemGoal(
			d.Target*weeklyFactor,
			d.Unit,
			d.EndDate().AddDate(0, 0, weeklyDuration),
			model.PeriodWeekly,
			d.Category,
			false,
		)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, nil
}

// pushTarget is 110% of the whole part of target, computed in integers so 30 gives 33.
func pushTarget(target float64) float64 {
	return float64(int(target)*pushFactorX10) / 10
}
