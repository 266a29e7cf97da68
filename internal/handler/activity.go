package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/templui/goalkeeper/internal/ctxkeys"
	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/service"
)

type ActivityHandler struct {
	goalService     *service.GoalService
	progressService *service.ProgressService
}

func NewActivityHandler(goalService *service.GoalService, progressService *service.ProgressService) *ActivityHandler {
	return &ActivityHandler{
		goalService:     goalService,
		progressService: progressService,
	}
}

// Log records an activity and returns the goals it moved forward.
func (h *ActivityHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Unit     model.Unit `json:"unit"`
		Amount   float64    `json:"amount"`
		LoggedOn string     `json:"logged_on"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	var loggedOn time.Time
	if req.LoggedOn != "" {
		loggedOn, err = parseDate(req.LoggedOn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "logged_on must be YYYY-MM-DD")
			return
		}
	}

	goals, err := h.goalService.LogActivity(r.Context(), ctxkeys.UserID(r.Context()), req.Unit, req.Amount, loggedOn)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGoalResponses(goals))
}

// Progress returns daily totals for ?unit= over a week, ?week=1 being the week before.
func (h *ActivityHandler) Progress(w http.ResponseWriter, r *http.Request) {
	unit, err := model.ParseUnit(r.URL.Query().Get("unit"))
	if err != nil {
		fail(w, r, err)
		return
	}

	week := 0
	if v := r.URL.Query().Get("week"); v != "" {
		week, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "week must be a number")
			return
		}
	}

	totals, err := h.progressService.Week(r.Context(), ctxkeys.UserID(r.Context()), unit, week)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}
