package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/repository"
)

const chartDays = 7

var ErrInvalidWeekOffset = errors.New("week offset cannot be negative")

type ProgressService struct {
	activityRepo repository.ActivityRepository
}

func NewProgressService(activityRepo repository.ActivityRepository) *ProgressService {
	return &ProgressService{activityRepo: activityRepo}
}

// Week returns one total per day for the seven days ending today, oldest first. Each
// week offset moves the window a further seven days back. Days without activity are zero.
func (s *ProgressService) Week(ctx context.Context, userID string, unit model.Unit, weekOffset int) ([]model.DayTotal, error) {
	if weekOffset < 0 {
		return nil, ErrInvalidWeekOffset
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownUnit, unit)
	}

	to := model.Today().AddDate(0, 0, -chartDays*weekOffset)
	from := to.AddDate(0, 0, -(chartDays - 1))

	activities, err := s.activityRepo.Activities(ctx, userID, unit, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	totals := make([]model.DayTotal, chartDays)
	for i := range totals {
		totals[i].Date = from.AddDate(0, 0, i)
	}

	for _, activity := range activities {
		day := model.DateOf(activity.LoggedOn.Local())
		for i := range totals {
			if totals[i].Date.Equal(day) {
				totals[i].Amount += activity.Amount
				break
			}
		}
	}

	return totals, nil
}
