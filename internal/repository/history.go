package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalkeeper/internal/model"
)

// HistoryRepository answers the aggregate questions goal generation asks about a user.
type HistoryRepository interface {
	// RecommendedIntake returns 0 when there is no guidance for the combination.
	RecommendedIntake(ctx context.Context, unit model.Unit, age int, sex model.Sex) (float64, error)
	// CompletedUnits returns the distinct units of goals completed at or after since.
	CompletedUnits(ctx context.Context, userID string, since time.Time) ([]model.Unit, error)
	// AverageWorkRate is the mean amount per logged session over the last windowDays.
	AverageWorkRate(ctx context.Context, userID string, unit model.Unit, windowDays int) (float64, error)
}

type historyRepository struct {
	db dbtx
}

func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) RecommendedIntake(ctx context.Context, unit model.Unit, age int, sex model.Sex) (float64, error) {
	var amount float64
	query := `SELECT amount FROM recommended_intakes
	          WHERE unit = $1 AND sex = $2 AND min_age <= $3 AND max_age >= $4`

	err := r.db.GetContext(ctx, &amount, query, string(unit), string(sex), age, age)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return amount, nil
}

func (r *historyRepository) CompletedUnits(ctx context.Context, userID string, since time.Time) ([]model.Unit, error) {
	var raw []string
	query := `SELECT DISTINCT unit FROM goals
	          WHERE user_id = $1 AND completed = $2 AND completed_at >= $3
	          ORDER BY unit`

	err := r.db.SelectContext(ctx, &raw, query, userID, true, since)
	if err != nil {
		return nil, err
	}

	units := make([]model.Unit, 0, len(raw))
	for _, s := range raw {
		unit, err := model.ParseUnit(s)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	return units, nil
}

func (r *historyRepository) AverageWorkRate(ctx context.Context, userID string, unit model.Unit, windowDays int) (float64, error) {
	var avg sql.NullFloat64
	since := model.Today().AddDate(0, 0, -windowDays)
	query := `SELECT AVG(amount) FROM activities
	          WHERE user_id = $1 AND unit = $2 AND logged_on >= $3`

	err := r.db.GetContext(ctx, &avg, query, userID, string(unit), since)
	if err != nil {
		return 0, err
	}

	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
