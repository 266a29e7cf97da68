package handler

import (
	"net/http"

	"github.com/templui/goalkeeper/internal/ctxkeys"
	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// List returns the user's goals, optionally filtered with ?kind=individual|system|group.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := model.GoalKind(r.URL.Query().Get("kind"))
	switch kind {
	case "", model.GoalKindIndividual, model.GoalKindSystem, model.GoalKindGroup:
	default:
		writeError(w, http.StatusBadRequest, "kind must be individual, system or group")
		return
	}

	goals, err := h.goalService.Goals(r.Context(), ctxkeys.UserID(r.Context()), kind)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGoalResponses(goals))
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target  float64    `json:"target"`
		Unit    model.Unit `json:"unit"`
		EndDate string     `json:"end_date"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	endDate, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}

	goal, err := h.goalService.CreateIndividual(r.Context(), ctxkeys.UserID(r.Context()), req.Target, req.Unit, endDate)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGoalResponse(goal))
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.ByID(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGoalResponse(goal))
}

func (h *GoalHandler) Generate(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.GenerateSystemGoals(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGoalResponses(goals))
}

func (h *GoalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.Accept(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGoalResponse(goal))
}

func (h *GoalHandler) Quit(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.Quit(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newGoalResponse(goal))
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.goalService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
