package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/repository"
)

var (
	ErrGoalAlreadyAccepted = errors.New("goal already accepted")
	ErrGoalNotAcceptable   = errors.New("only system and group goals can be accepted")
)

// GoalNotifier is told about completed goals. Calls are fire-and-forget.
type GoalNotifier interface {
	GoalCompleted(ctx context.Context, user *model.User, goal *model.Goal) error
}

// GroupGoalListener hears about a member finishing their copy of a group goal.
type GroupGoalListener interface {
	GroupGoalCompleted(ctx context.Context, member *model.User, goal *model.Goal) error
}

type GoalService struct {
	tx       repository.Transactor
	repo     repository.GoalRepository
	history  GoalHistory
	userRepo repository.UserRepository
	notifier GoalNotifier
	groups   GroupGoalListener
	seed     uint64

	locks   *userLocks
	pending sync.WaitGroup
}

// NewGoalService wires the goal lifecycle. A zero seed makes goal generation random,
// any other value makes it reproducible.
func NewGoalService(
	tx repository.Transactor,
	repo repository.GoalRepository,
	history GoalHistory,
	userRepo repository.UserRepository,
	notifier GoalNotifier,
	groups GroupGoalListener,
	seed uint64,
) *GoalService {
	return &GoalService{
		tx:       tx,
		repo:     repo,
		history:  history,
		userRepo: userRepo,
		notifier: notifier,
		groups:   groups,
		seed:     seed,
		locks:    newUserLocks(),
	}
}

func (s *GoalService) CreateIndividual(ctx context.Context, userID string, target float64, unit model.Unit, endDate time.Time) (*model.Goal, error) {
	goal, err := model.NewIndividualGoal(target, unit, endDate, 0)
	if err != nil {
		return nil, err
	}
	stampGoal(goal, userID)

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(ctx, userID, goalID)
}

func (s *GoalService) Goals(ctx context.Context, userID string, kind model.GoalKind) ([]*model.Goal, error) {
	return s.repo.Goals(ctx, userID, kind)
}

// GenerateSystemGoals suggests and stores the system goals the user is currently missing.
func (s *GoalService) GenerateSystemGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.userRepo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	generator, err := NewGoalGenerator(user, s.history, s.repo, s.generatorRand())
	if err != nil {
		return nil, err
	}

	goals, err := generator.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate goals: %w", err)
	}

	for _, goal := range goals {
		stampGoal(goal, userID)
	}

	err = s.repo.CreateMany(ctx, goals)
	if err != nil {
		return nil, fmt.Errorf("failed to store generated goals: %w", err)
	}

	slog.Info("system goals generated", "user_id", userID, "count", len(goals))
	return goals, nil
}

// Accept opts the user into a suggested goal and returns the goal that now tracks
// progress: a new individual copy for system goals, the goal itself for group goals.
// The copy and the accepted flag are written in one transaction.
func (s *GoalService) Accept(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var tracked *model.Goal
	err := s.tx.InTx(ctx, func(repos repository.Repositories) error {
		goal, err := repos.Goals.ByID(ctx, userID, goalID)
		if err != nil {
			return err
		}

		if goal.Kind == model.GoalKindIndividual {
			return ErrGoalNotAcceptable
		}
		if goal.Accepted {
			return ErrGoalAlreadyAccepted
		}

		goal.Accepted = true
		tracked = goal

		if goal.Kind == model.GoalKindSystem {
			tracked, err = model.IndividualFromSystem(goal)
			if err != nil {
				return err
			}
			stampGoal(tracked, userID)

			err = repos.Goals.Create(ctx, tracked)
			if err != nil {
				return fmt.Errorf("failed to create goal from suggestion: %w", err)
			}
		}

		err = repos.Goals.Update(ctx, goal)
		if err != nil {
			return fmt.Errorf("failed to accept goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tracked, nil
}

// LogActivity records an activity and applies it to every goal that tracks its unit.
// It returns the goals whose progress changed. Nothing is stored unless every write succeeds.
func (s *GoalService) LogActivity(ctx context.Context, userID string, unit model.Unit, amount float64, loggedOn time.Time) ([]*model.Goal, error) {
	if !(amount > 0) {
		return nil, model.ErrInvalidAmount
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownUnit, unit)
	}
	if loggedOn.IsZero() {
		loggedOn = model.Today()
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	var updated, completed []*model.Goal
	err := s.tx.InTx(ctx, func(repos repository.Repositories) error {
		err := repos.Activities.Create(ctx, &model.Activity{
			ID:        uuid.New().String(),
			UserID:    userID,
			Unit:      unit,
			Amount:    amount,
			LoggedOn:  loggedOn,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to log activity: %w", err)
		}

		goals, err := repos.Goals.Goals(ctx, userID, "")
		if err != nil {
			return fmt.Errorf("failed to load goals: %w", err)
		}

		for _, goal := range goals {
			if !goal.Tracked() {
				continue
			}

			applied, err := goal.UpdateProgress(unit, amount)
			if err != nil {
				return err
			}
			if !applied {
				continue
			}

			err = repos.Goals.Update(ctx, goal)
			if err != nil {
				return fmt.Errorf("failed to update goal %s: %w", goal.ID, err)
			}
			updated = append(updated, goal)

			if goal.IsCompleted() {
				completed = append(completed, goal)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(completed) > 0 {
		s.notifyCompleted(ctx, userID, completed)
	}

	return updated, nil
}

// Quit gives up on a goal. Completed goals cannot be quit.
func (s *GoalService) Quit(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	err = goal.Quit()
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to quit goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	return s.repo.Delete(ctx, userID, goalID)
}

// Wait blocks until in-flight completion notifications are done.
func (s *GoalService) Wait() {
	s.pending.Wait()
}

func (s *GoalService) notifyCompleted(ctx context.Context, userID string, goals []*model.Goal) {
	if s.notifier == nil && s.groups == nil {
		return
	}

	user, err := s.userRepo.ByID(ctx, userID)
	if err != nil {
		slog.Error("failed to load user for goal notification", "error", err, "user_id", userID)
		return
	}

	for _, goal := range goals {
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()

			ctx := context.WithoutCancel(ctx)
			if s.notifier != nil {
				err := s.notifier.GoalCompleted(ctx, user, goal)
				if err != nil {
					slog.Error("failed to send goal completed notification", "error", err, "user_id", userID, "goal_id", goal.ID)
				}
			}

			if goal.Kind == model.GoalKindGroup && s.groups != nil {
				err := s.groups.GroupGoalCompleted(ctx, user, goal)
				if err != nil {
					slog.Error("failed to signal group goal completion", "error", err, "user_id", userID, "group_id", goal.GroupID)
				}
			}
		}()
	}
}

func (s *GoalService) generatorRand() *rand.Rand {
	if s.seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(s.seed, s.seed))
}

func stampGoal(goal *model.Goal, userID string) {
	now := time.Now()
	goal.ID = uuid.New().String()
	goal.UserID = userID
	goal.CreatedAt = now
	goal.UpdatedAt = now
}
