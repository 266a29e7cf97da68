package handler

import (
	"net/http"
	"time"

	"github.com/templui/goalkeeper/internal/ctxkeys"
	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/service"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGroupRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	group, err := h.groupService.Create(r.Context(), ctxkeys.UserID(r.Context()), req)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupService.ByID(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.groupService.Members(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

type inviteResponse struct {
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *GroupHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	token, err := h.groupService.Invite(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), req.Email)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, inviteResponse{
		GroupID:   token.Subject,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
	})
}

func (h *GroupHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	member, err := h.groupService.AcceptInvite(r.Context(), ctxkeys.UserID(r.Context()), req.Token)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	err := h.groupService.Leave(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateGoal sets a goal for every member of the group.
func (h *GroupHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
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

	goals, err := h.groupService.CreateGoal(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), req.Target, req.Unit, endDate)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGoalResponses(goals))
}
