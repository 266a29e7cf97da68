package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalkeeper/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	CreateMany(ctx context.Context, goals []*model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	// Goals lists a user's goals, newest first. An empty kind returns every kind.
	Goals(ctx context.Context, userID string, kind model.GoalKind) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
}

type goalRepository struct {
	db dbtx
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// goalRow mirrors the goals table
type goalRow struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Kind        string     `db:"kind"`
	Target      float64    `db:"target"`
	Unit        string     `db:"unit"`
	EndDate     time.Time  `db:"end_date"`
	Progress    float64    `db:"progress"`
	Active      bool       `db:"active"`
	Completed   bool       `db:"completed"`
	CompletedAt *time.Time `db:"completed_at"`
	Period      string     `db:"period"`
	Category    string     `db:"category"`
	Accepted    bool       `db:"accepted"`
	GroupID     *string    `db:"group_id"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func newGoalRow(goal *model.Goal) goalRow {
	state := goal.State()
	row := goalRow{
		ID:          goal.ID,
		UserID:      goal.UserID,
		Kind:        string(goal.Kind),
		Target:      goal.Target,
		Unit:        string(goal.Unit),
		EndDate:     state.EndDate,
		Progress:    state.Progress,
		Active:      state.Active,
		Completed:   state.Completed,
		CompletedAt: state.CompletedAt,
		Period:      string(goal.Period),
		Category:    string(goal.Category),
		Accepted:    goal.Accepted,
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
	}
	if goal.GroupID != "" {
		groupID := goal.GroupID
		row.GroupID = &groupID
	}
	return row
}

func (row goalRow) toModel() (*model.Goal, error) {
	goal := model.Goal{
		ID:        row.ID,
		UserID:    row.UserID,
		Kind:      model.GoalKind(row.Kind),
		Target:    row.Target,
		Unit:      model.Unit(row.Unit),
		Period:    model.UpdatePeriod(row.Period),
		Category:  model.Category(row.Category),
		Accepted:  row.Accepted,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.GroupID != nil {
		goal.GroupID = *row.GroupID
	}

	restored, err := model.RestoreGoal(goal, model.GoalState{
		EndDate:     row.EndDate,
		Progress:    row.Progress,
		Active:      row.Active,
		Completed:   row.Completed,
		CompletedAt: row.CompletedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("corrupt goal %s: %w", row.ID, err)
	}
	return restored, nil
}

const insertGoalQuery = `INSERT INTO goals (id, user_id, kind, target, unit, end_date, progress, active, completed, completed_at, period, category, accepted, group_id, created_at, updated_at)
          VALUES (:id, :user_id, :kind, :target, :unit, :end_date, :progress, :active, :completed, :completed_at, :period, :category, :accepted, :group_id, :created_at, :updated_at)`

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	_, err := r.db.NamedExecContext(ctx, insertGoalQuery, newGoalRow(goal))
	return err
}

func (r *goalRepository) CreateMany(ctx context.Context, goals []*model.Goal) error {
	if len(goals) == 0 {
		return nil
	}

	return inTx(ctx, r.db, func(q dbtx) error {
		for _, goal := range goals {
			_, err := q.NamedExecContext(ctx, insertGoalQuery, newGoalRow(goal))
			if err != nil {
				return fmt.Errorf("failed to create goal %s: %w", goal.ID, err)
			}
		}
		return nil
	})
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	var row goalRow
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &row, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.toModel()
}

func (r *goalRepository) Goals(ctx context.Context, userID string, kind model.GoalKind) ([]*model.Goal, error) {
	var rows []goalRow
	var err error

	if kind == "" {
		query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC`
		err = r.db.SelectContext(ctx, &rows, query, userID)
	} else {
		query := `SELECT * FROM goals WHERE user_id = $1 AND kind = $2 ORDER BY created_at DESC`
		err = r.db.SelectContext(ctx, &rows, query, userID, string(kind))
	}
	if err != nil {
		return nil, err
	}

	goals := make([]*model.Goal, 0, len(rows))
	for _, row := range rows {
		goal, err := row.toModel()
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	state := goal.State()
	query := `UPDATE goals
	          SET end_date = $1, progress = $2, active = $3, completed = $4, completed_at = $5, accepted = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	goal.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		state.EndDate,
		state.Progress,
		state.Active,
		state.Completed,
		state.CompletedAt,
		goal.Accepted,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	return expectRows(result, ErrGoalNotFound)
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}

	return expectRows(result, ErrGoalNotFound)
}
