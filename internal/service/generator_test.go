package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalkeeper/internal/model"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func generate(t *testing.T, user *model.User, history GoalHistory, existing []*model.Goal) []*model.Goal {
	t.Helper()
	generator, err := NewGoalGenerator(user, history, &stubLister{goals: existing}, seeded(7))
	require.NoError(t, err)

	goals, err := generator.Generate(context.Background())
	require.NoError(t, err)
	return goals
}

func byPeriod(goals []*model.Goal, period model.UpdatePeriod) []*model.Goal {
	var out []*model.Goal
	for _, goal := range goals {
		if goal.Period == period && goal.Category != model.CategoryDayToDay {
			out = append(out, goal)
		}
	}
	return out
}

func TestGenerateWithoutHistory(t *testing.T) {
	user := &model.User{ID: "user-1"}
	goals := generate(t, user, &stubHistory{}, nil)

	require.Len(t, goals, 4)
	tomorrow := model.Today().AddDate(0, 0, 1)

	expected := []struct {
		target   float64
		period   model.UpdatePeriod
		category model.Category
		endDate  string
	}{
		{30, model.PeriodDaily, model.CategoryStay, tomorrow.Format("2006-01-02")},
		{33, model.PeriodDaily, model.CategoryPush, tomorrow.Format("2006-01-02")},
		{150, model.PeriodWeekly, model.CategoryStay, tomorrow.AddDate(0, 0, 7).Format("2006-01-02")},
		{165, model.PeriodWeekly, model.CategoryPush, tomorrow.AddDate(0, 0, 7).Format("2006-01-02")},
	}

	for i, want := range expected {
		goal := goals[i]
		assert.Equal(t, model.GoalKindSystem, goal.Kind)
		assert.Equal(t, model.UnitExercise, goal.Unit)
		assert.Equal(t, want.target, goal.Target, "goal %d", i)
		assert.Equal(t, want.period, goal.Period, "goal %d", i)
		assert.Equal(t, want.category, goal.Category, "goal %d", i)
		assert.Equal(t, want.endDate, goal.EndDate().Format("2006-01-02"), "goal %d", i)
		assert.Equal(t, "user-1", goal.UserID)
		assert.False(t, goal.Accepted)
		assert.True(t, goal.IsActive())
	}
}

func TestGenerateDayToDay(t *testing.T) {
	user := &model.User{ID: "user-1", Age: 30, Sex: model.SexFemale}
	history := &stubHistory{intakes: map[model.Unit]float64{
		model.UnitProtein:  46,
		model.UnitCalories: 2000,
		model.UnitVitaminC: 75,
	}}

	goals := generate(t, user, history, nil)

	var dayToDay []*model.Goal
	for _, goal := range goals {
		if goal.Category == model.CategoryDayToDay {
			dayToDay = append(dayToDay, goal)
		}
	}

	require.Len(t, dayToDay, 3)
	assert.Equal(t, model.UnitCalories, dayToDay[0].Unit)
	assert.Equal(t, 2000.0, dayToDay[0].Target)
	assert.Equal(t, model.UnitProtein, dayToDay[1].Unit)
	assert.Equal(t, model.UnitVitaminC, dayToDay[2].Unit)
	for _, goal := range dayToDay {
		assert.Equal(t, model.PeriodDaily, goal.Period)
		assert.Equal(t, model.Today().AddDate(0, 0, 1), goal.EndDate())
	}

	// day-to-day goals come first
	assert.Equal(t, model.CategoryDayToDay, goals[0].Category)
}

func TestGenerateSkipsDayToDayWithoutAge(t *testing.T) {
	user := &model.User{ID: "user-1", Sex: model.SexMale}
	history := &stubHistory{intakes: map[model.Unit]float64{model.UnitProtein: 56}}

	goals := generate(t, user, history, nil)

	for _, goal := range goals {
		assert.NotEqual(t, model.CategoryDayToDay, goal.Category)
	}
}

func TestGenerateFitnessFromHistory(t *testing.T) {
	user := &model.User{ID: "user-1"}
	history := &stubHistory{
		completed: []model.Unit{model.UnitRunning, model.UnitProtein},
		rates:     map[model.Unit]float64{model.UnitRunning: 45.5},
	}

	goals := generate(t, user, history, nil)

	daily := byPeriod(goals, model.PeriodDaily)
	require.Len(t, daily, 4)
	assert.Equal(t, model.UnitRunning, daily[0].Unit)
	assert.Equal(t, 45.5, daily[0].Target)
	assert.Equal(t, model.CategoryStay, daily[0].Category)
	assert.Equal(t, model.UnitRunning, daily[1].Unit)
	assert.Equal(t, 49.5, daily[1].Target)
	assert.Equal(t, model.CategoryPush, daily[1].Category)
	assert.Equal(t, model.UnitExercise, daily[2].Unit)
	assert.Equal(t, 30.0, daily[2].Target)
	assert.Equal(t, model.UnitExercise, daily[3].Unit)
	assert.Equal(t, 33.0, daily[3].Target)

	weekly := byPeriod(goals, model.PeriodWeekly)
	require.Len(t, weekly, 4)
	for i := range weekly {
		assert.Equal(t, daily[i].Unit, weekly[i].Unit)
		assert.Equal(t, daily[i].Category, weekly[i].Category)
		assert.Equal(t, daily[i].Target*5, weekly[i].Target)
		assert.Equal(t, daily[i].EndDate().AddDate(0, 0, 7), weekly[i].EndDate())
	}
}

func TestGenerateAppliesMinimum(t *testing.T) {
	user := &model.User{ID: "user-1"}
	history := &stubHistory{
		completed: []model.Unit{model.UnitExercise},
		rates:     map[model.Unit]float64{model.UnitExercise: 12},
	}

	daily := byPeriod(generate(t, user, history, nil), model.PeriodDaily)

	// exercise was picked, so no padding goal is added
	require.Len(t, daily, 2)
	assert.Equal(t, 30.0, daily[0].Target)
	assert.Equal(t, 33.0, daily[1].Target)
}

func TestGeneratePicksAtMostThreeStayUnits(t *testing.T) {
	user := &model.User{ID: "user-1"}
	candidates := []model.Unit{
		model.UnitRunning, model.UnitCycling, model.UnitSwimming,
		model.UnitYoga, model.UnitRowing, model.UnitCalcium,
	}
	history := &stubHistory{
		completed: candidates,
		rates: map[model.Unit]float64{
			model.UnitRunning:  60,
			model.UnitCycling:  40,
			model.UnitSwimming: 35,
			model.UnitYoga:     50,
			model.UnitRowing:   20,
		},
	}

	daily := byPeriod(generate(t, user, history, nil), model.PeriodDaily)
	require.Len(t, daily, 6)

	seen := make(map[model.Unit]bool)
	for i := 0; i < len(daily); i += 2 {
		stay, push := daily[i], daily[i+1]
		assert.Equal(t, model.CategoryStay, stay.Category)
		assert.Equal(t, model.CategoryPush, push.Category)
		assert.Equal(t, stay.Unit, push.Unit)
		assert.True(t, stay.Unit.IsExercise())
		assert.Contains(t, candidates, stay.Unit)
		assert.False(t, seen[stay.Unit])
		seen[stay.Unit] = true

		assert.Equal(t, max(history.rates[stay.Unit], 30), stay.Target)
		assert.Equal(t, pushTarget(stay.Target), push.Target)
	}
}

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	user := &model.User{ID: "user-1"}
	history := &stubHistory{completed: []model.Unit{
		model.UnitRunning, model.UnitCycling, model.UnitSwimming, model.UnitYoga, model.UnitRowing,
	}}

	units := func() []model.Unit {
		generator, err := NewGoalGenerator(user, history, &stubLister{}, seeded(42))
		require.NoError(t, err)
		goals, err := generator.Generate(context.Background())
		require.NoError(t, err)

		var out []model.Unit
		for _, goal := range goals {
			out = append(out, goal.Unit)
		}
		return out
	}

	assert.Equal(t, units(), units())
}

func TestGenerateKeepsExistingSuggestions(t *testing.T) {
	user := &model.User{ID: "user-1", Age: 30, Sex: model.SexMale}
	tomorrow := model.Today().AddDate(0, 0, 1)
	history := &stubHistory{intakes: map[model.Unit]float64{model.UnitProtein: 56}}

	dayToDay, err := model.NewSystemGoal(56, model.UnitProtein, tomorrow, model.PeriodDaily, model.CategoryDayToDay, false)
	require.NoError(t, err)
	dailyStay, err := model.NewSystemGoal(40, model.UnitCycling, tomorrow, model.PeriodDaily, model.CategoryStay, true)
	require.NoError(t, err)

	t.Run("only weekly goals are missing", func(t *testing.T) {
		goals := generate(t, user, history, []*model.Goal{dayToDay, dailyStay})

		require.Len(t, goals, 1)
		assert.Equal(t, model.PeriodWeekly, goals[0].Period)
		assert.Equal(t, model.UnitCycling, goals[0].Unit)
		assert.Equal(t, 200.0, goals[0].Target)
		assert.Equal(t, tomorrow.AddDate(0, 0, 7), goals[0].EndDate())
	})

	t.Run("nothing is missing", func(t *testing.T) {
		weekly, err := model.NewSystemGoal(200, model.UnitCycling, tomorrow.AddDate(0, 0, 7), model.PeriodWeekly, model.CategoryStay, false)
		require.NoError(t, err)

		goals := generate(t, user, history, []*model.Goal{dayToDay, dailyStay, weekly})
		assert.Empty(t, goals)
	})

	t.Run("expired suggestions do not count", func(t *testing.T) {
		expired, err := model.NewSystemGoal(56, model.UnitProtein, model.Today(), model.PeriodDaily, model.CategoryDayToDay, false)
		require.NoError(t, err)

		goals := generate(t, user, history, []*model.Goal{expired})
		assert.Equal(t, model.CategoryDayToDay, goals[0].Category)
	})
}

func TestGenerateErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewGoalGenerator(nil, &stubHistory{}, &stubLister{}, nil)
	assert.ErrorIs(t, err, ErrNilUser)
	_, err = NewGoalGenerator(&model.User{ID: "u"}, nil, &stubLister{}, nil)
	assert.ErrorIs(t, err, ErrNilHistory)
	_, err = NewGoalGenerator(&model.User{ID: "u"}, &stubHistory{}, nil, nil)
	assert.ErrorIs(t, err, ErrNilGoalLister)

	generator, err := NewGoalGenerator(&model.User{ID: "u"}, &stubHistory{}, &stubLister{err: boom}, nil)
	require.NoError(t, err)
	_, err = generator.Generate(context.Background())
	assert.ErrorIs(t, err, boom)

	generator, err = NewGoalGenerator(&model.User{ID: "u", Age: 20}, &stubHistory{err: boom}, &stubLister{}, nil)
	require.NoError(t, err)
	_, err = generator.Generate(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestPushTarget(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{30, 33},
		{150, 165},
		{45.5, 49.5},
		{31, 34.1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pushTarget(tt.in), "pushTarget(%v)", tt.in)
	}
}
