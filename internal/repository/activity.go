package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalkeeper/internal/model"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	// Activities returns entries of unit logged between from and to, both inclusive.
	Activities(ctx context.Context, userID string, unit model.Unit, from, to time.Time) ([]*model.Activity, error)
}

type activityRepository struct {
	db dbtx
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	query := `INSERT INTO activities (id, user_id, unit, amount, logged_on, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		activity.ID,
		activity.UserID,
		string(activity.Unit),
		activity.Amount,
		model.DateOf(activity.LoggedOn),
		activity.CreatedAt,
	)
	return err
}

func (r *activityRepository) Activities(ctx context.Context, userID string, unit model.Unit, from, to time.Time) ([]*model.Activity, error) {
	var activities []*model.Activity
	query := `SELECT * FROM activities
	          WHERE user_id = $1 AND unit = $2 AND logged_on >= $3 AND logged_on <= $4
	          ORDER BY logged_on ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &activities, query, userID, string(unit), model.DateOf(from), model.DateOf(to))
	if err != nil {
		return nil, err
	}

	return activities, nil
}
