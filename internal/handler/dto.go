package handler

import (
	"time"

	"github.com/templui/goalkeeper/internal/model"
)

type goalResponse struct {
	ID          string             `json:"id"`
	Kind        model.GoalKind     `json:"kind"`
	Target      float64            `json:"target"`
	Unit        model.Unit         `json:"unit"`
	Progress    float64            `json:"progress"`
	EndDate     string             `json:"end_date"`
	Active      bool               `json:"active"`
	Completed   bool               `json:"completed"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Period      model.UpdatePeriod `json:"period,omitempty"`
	Category    model.Category     `json:"category,omitempty"`
	Accepted    *bool              `json:"accepted,omitempty"`
	GroupID     string             `json:"group_id,omitempty"`
	Summary     string             `json:"summary"`
	CreatedAt   time.Time          `json:"created_at"`
}

func newGoalResponse(goal *model.Goal) goalResponse {
	resp := goalResponse{
		ID:          goal.ID,
		Kind:        goal.Kind,
		Target:      goal.Target,
		Unit:        goal.Unit,
		Progress:    goal.Progress(),
		EndDate:     goal.EndDate().Format(time.DateOnly),
		Active:      goal.IsActive(),
		Completed:   goal.IsCompleted(),
		CompletedAt: goal.CompletedAt(),
		Period:      goal.Period,
		Category:    goal.Category,
		GroupID:     goal.GroupID,
		Summary:     goal.String(),
		CreatedAt:   goal.CreatedAt,
	}
	if goal.Kind != model.GoalKindIndividual {
		accepted := goal.Accepted
		resp.Accepted = &accepted
	}
	return resp
}

func newGoalResponses(goals []*model.Goal) []goalResponse {
	resp := make([]goalResponse, 0, len(goals))
	for _, goal := range goals {
		resp = append(resp, newGoalResponse(goal))
	}
	return resp
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       int       `json:"age,omitempty"`
	Sex       model.Sex `json:"sex,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Age:       user.Age,
		Sex:       user.Sex,
		CreatedAt: user.CreatedAt,
	}
}

type unitResponse struct {
	Unit     model.Unit `json:"unit"`
	Label    string     `json:"label"`
	Minimum  int        `json:"minimum"`
	Exercise bool       `json:"exercise"`
}

// parseDate accepts YYYY-MM-DD and returns local midnight of that day.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.Local)
}
