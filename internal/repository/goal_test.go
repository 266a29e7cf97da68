package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalkeeper/internal/model"
)

func stamp(goal *model.Goal, userID string, createdAt time.Time) *model.Goal {
	goal.ID = uuid.New().String()
	goal.UserID = userID
	goal.CreatedAt = createdAt
	goal.UpdatedAt = createdAt
	return goal
}

func TestGoalRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	users := NewUserRepository(database)
	repo := NewGoalRepository(database)
	user := createUser(t, users, "ada@example.com")

	endDate := model.Today().AddDate(0, 0, 3)
	goal, err := model.NewSystemGoal(33, model.UnitExercise, endDate, model.PeriodDaily, model.CategoryPush, false)
	require.NoError(t, err)
	stamp(goal, user.ID, time.Now())
	require.NoError(t, repo.Create(ctx, goal))

	got, err := repo.ByID(ctx, user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, model.GoalKindSystem, got.Kind)
	assert.Equal(t, 33.0, got.Target)
	assert.Equal(t, model.UnitExercise, got.Unit)
	assert.Equal(t, model.PeriodDaily, got.Period)
	assert.Equal(t, model.CategoryPush, got.Category)
	assert.True(t, got.EndDate().Equal(endDate))
	assert.True(t, got.IsActive())
	assert.Empty(t, got.GroupID)

	_, err = repo.ByID(ctx, "someone-else", goal.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestGoalRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewGoalRepository(database)
	user := createUser(t, NewUserRepository(database), "ada@example.com")

	goal, err := model.NewIndividualGoal(30, model.UnitRunning, model.Today().AddDate(0, 0, 1), 0)
	require.NoError(t, err)
	stamp(goal, user.ID, time.Now())
	require.NoError(t, repo.Create(ctx, goal))

	_, err = goal.UpdateProgress(model.UnitRunning, 31)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, goal))

	got, err := repo.ByID(ctx, user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 31.0, got.Progress())
	assert.True(t, got.IsCompleted())
	assert.False(t, got.IsActive())
	require.NotNil(t, got.CompletedAt())

	missing := *goal
	missing.ID = "missing"
	assert.ErrorIs(t, repo.Update(ctx, &missing), ErrGoalNotFound)
}

func TestGoalRepositoryList(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewGoalRepository(database)
	user := createUser(t, NewUserRepository(database), "ada@example.com")
	endDate := model.Today().AddDate(0, 0, 7)
	base := time.Now().Add(-time.Hour)

	individual, err := model.NewIndividualGoal(10, model.UnitYoga, endDate, 0)
	require.NoError(t, err)
	stay, err := model.NewSystemGoal(30, model.UnitExercise, endDate, model.PeriodDaily, model.CategoryStay, false)
	require.NoError(t, err)
	push, err := model.NewSystemGoal(33, model.UnitExercise, endDate, model.PeriodDaily, model.CategoryPush, false)
	require.NoError(t, err)

	require.NoError(t, repo.CreateMany(ctx, []*model.Goal{
		stamp(individual, user.ID, base),
		stamp(stay, user.ID, base.Add(time.Minute)),
		stamp(push, user.ID, base.Add(2*time.Minute)),
	}))

	all, err := repo.Goals(ctx, user.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, push.ID, all[0].ID)
	assert.Equal(t, individual.ID, all[2].ID)

	system, err := repo.Goals(ctx, user.ID, model.GoalKindSystem)
	require.NoError(t, err)
	assert.Len(t, system, 2)

	none, err := repo.Goals(ctx, "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.Delete(ctx, user.ID, stay.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID, stay.ID), ErrGoalNotFound)
}

func TestGoalRepositoryCreateManyIsAtomic(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	repo := NewGoalRepository(database)
	user := createUser(t, NewUserRepository(database), "ada@example.com")

	first, err := model.NewIndividualGoal(10, model.UnitYoga, model.Today().AddDate(0, 0, 1), 0)
	require.NoError(t, err)
	stamp(first, user.ID, time.Now())
	duplicate := *first

	err = repo.CreateMany(ctx, []*model.Goal{first, &duplicate})
	assert.Error(t, err)

	goals, err := repo.Goals(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Empty(t, goals)

	assert.NoError(t, repo.CreateMany(ctx, nil))
}
