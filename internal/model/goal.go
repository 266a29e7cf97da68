package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTarget        = errors.New("goal target must be greater than zero")
	ErrMissingUnit          = errors.New("goal unit is required")
	ErrMissingEndDate       = errors.New("goal end date is required")
	ErrInvalidProgress      = errors.New("goal progress cannot be negative")
	ErrInvalidAmount        = errors.New("progress amount must be greater than zero")
	ErrInvalidPeriod        = errors.New("invalid update period")
	ErrInvalidCategory      = errors.New("invalid goal category")
	ErrMissingGroup         = errors.New("group goal requires a group id")
	ErrNotSystemGoal        = errors.New("goal is not a system goal")
	ErrGoalAlreadyCompleted = errors.New("goal already completed")
)

type GoalKind string

const (
	GoalKindIndividual GoalKind = "individual"
	GoalKindSystem     GoalKind = "system"
	GoalKindGroup      GoalKind = "group"
)

type UpdatePeriod string

const (
	PeriodDaily  UpdatePeriod = "daily"
	PeriodWeekly UpdatePeriod = "weekly"
)

func (p UpdatePeriod) Valid() bool {
	return p == PeriodDaily || p == PeriodWeekly
}

type Category string

const (
	CategoryDayToDay Category = "day_to_day"
	CategoryStay     Category = "stay"
	CategoryPush     Category = "push"
)

func (c Category) Valid() bool {
	return c == CategoryDayToDay || c == CategoryStay || c == CategoryPush
}

// Goal is a target amount of a unit to reach by an end date. Kind selects the variant:
// system goals carry Period, Category and Accepted; group goals carry GroupID and Accepted.
//
// Progress, activity and completion are only changed through UpdateProgress and Quit.
type Goal struct {
	ID        string
	UserID    string
	Kind      GoalKind
	Target    float64
	Unit      Unit
	Period    UpdatePeriod
	Category  Category
	Accepted  bool
	GroupID   string
	CreatedAt time.Time
	UpdatedAt time.Time

	endDate     time.Time
	progress    float64
	active      bool
	completed   bool
	completedAt *time.Time
}

// GoalState is the mutable part of a goal, as persisted.
type GoalState struct {
	EndDate     time.Time
	Progress    float64
	Active      bool
	Completed   bool
	CompletedAt *time.Time
}

func NewIndividualGoal(target float64, unit Unit, endDate time.Time, progress float64) (*Goal, error) {
	return newGoal(Goal{Kind: GoalKindIndividual, Target: target, Unit: unit}, endDate, progress)
}

func NewSystemGoal(target float64, unit Unit, endDate time.Time, period UpdatePeriod, category Category, accepted bool) (*Goal, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return newGoal(Goal{
		Kind:     GoalKindSystem,
		Target:   target,
		Unit:     unit,
		Period:   period,
		Category: category,
		Accepted: accepted,
	}, endDate, 0)
}

func NewGroupGoal(target float64, unit Unit, endDate time.Time, groupID string, accepted bool) (*Goal, error) {
	if groupID == "" {
		return nil, ErrMissingGroup
	}
	return newGoal(Goal{
		Kind:     GoalKindGroup,
		Target:   target,
		Unit:     unit,
		GroupID:  groupID,
		Accepted: accepted,
	}, endDate, 0)
}

// IndividualFromSystem copies target, unit and end date of a system goal into a new
// individual goal with its own progress.
func IndividualFromSystem(system *Goal) (*Goal, error) {
	if system == nil || system.Kind != GoalKindSystem {
		return nil, ErrNotSystemGoal
	}
	goal, err := NewIndividualGoal(system.Target, system.Unit, system.endDate, 0)
	if err != nil {
		return nil, err
	}
	goal.UserID = system.UserID
	return goal, nil
}

// RestoreGoal rebuilds a goal loaded from storage. Completion is derived from progress
// and a goal is only active when stored active, incomplete and not yet due.
func RestoreGoal(g Goal, state GoalState) (*Goal, error) {
	if err := validate(g.Target, g.Unit, state.EndDate); err != nil {
		return nil, err
	}
	if state.Progress < 0 {
		return nil, ErrInvalidProgress
	}
	goal := g
	goal.endDate = DateOf(state.EndDate.Local())
	goal.progress = state.Progress
	goal.completed = state.Progress >= goal.Target
	goal.active = state.Active && !goal.completed && goal.endDate.After(Today())
	if goal.completed {
		goal.completedAt = state.CompletedAt
	}
	return &goal, nil
}

func newGoal(g Goal, endDate time.Time, progress float64) (*Goal, error) {
	if err := validate(g.Target, g.Unit, endDate); err != nil {
		return nil, err
	}
	if progress < 0 {
		return nil, ErrInvalidProgress
	}
	goal := g
	goal.endDate = DateOf(endDate)
	goal.progress = progress
	goal.completed = progress >= goal.Target
	goal.active = !goal.completed && goal.endDate.After(Today())
	if goal.completed {
		now := time.Now()
		goal.completedAt = &now
	}
	return &goal, nil
}

func validate(target float64, unit Unit, endDate time.Time) error {
	if !(target > 0) {
		return ErrInvalidTarget
	}
	if unit == "" {
		return ErrMissingUnit
	}
	if !unit.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	if endDate.IsZero() {
		return ErrMissingEndDate
	}
	return nil
}

func (g *Goal) EndDate() time.Time {
	return g.endDate
}

func (g *Goal) Progress() float64 {
	return g.progress
}

func (g *Goal) IsCompleted() bool {
	return g.completed
}

func (g *Goal) CompletedAt() *time.Time {
	return g.completedAt
}

// IsActive reports whether the goal still accepts progress. The end date is checked at
// call time so goals that ran out are never active.
func (g *Goal) IsActive() bool {
	return g.active && !g.completed && g.endDate.After(Today())
}

// Tracked reports whether activity counts toward this goal. System goals are only
// suggestions and group goals need to be accepted first.
func (g *Goal) Tracked() bool {
	switch g.Kind {
	case GoalKindIndividual:
		return true
	case GoalKindGroup:
		return g.Accepted
	default:
		return false
	}
}

func (g *Goal) State() GoalState {
	return GoalState{
		EndDate:     g.endDate,
		Progress:    g.progress,
		Active:      g.IsActive(),
		Completed:   g.completed,
		CompletedAt: g.completedAt,
	}
}

// UpdateProgress adds amount to the goal when it is active, incomplete and measured in
// unit. It returns false without touching the goal otherwise.
func (g *Goal) UpdateProgress(unit Unit, amount float64) (bool, error) {
	if !(amount > 0) {
		return false, ErrInvalidAmount
	}
	if !g.IsActive() || g.completed || g.Unit != unit {
		return false, nil
	}
	g.progress += amount
	if g.progress >= g.Target {
		now := time.Now()
		g.completed = true
		g.active = false
		g.completedAt = &now
	}
	return true, nil
}

// Quit ends the goal today.
func (g *Goal) Quit() error {
	if g.completed {
		return ErrGoalAlreadyCompleted
	}
	g.endDate = Today()
	g.active = false
	return nil
}

// FormatTarget renders the target the way goals are displayed: whole minutes for
// exercise units, a decimal for everything else.
func (g *Goal) FormatTarget() string {
	return FormatAmount(g.Unit, g.Target)
}

func FormatAmount(unit Unit, amount float64) string {
	if unit.Minimum() > 0 {
		return strconv.Itoa(int(amount))
	}
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (g *Goal) String() string {
	return fmt.Sprintf("%s %s by %s", g.FormatTarget(), g.Unit.Label(), g.endDate.Format(time.DateOnly))
}
