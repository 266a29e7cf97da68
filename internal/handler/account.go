package handler

import (
	"net/http"

	"github.com/templui/goalkeeper/internal/ctxkeys"
	"github.com/templui/goalkeeper/internal/service"
)

type AccountHandler struct {
	userService *service.UserService
}

func NewAccountHandler(userService *service.UserService) *AccountHandler {
	return &AccountHandler{userService: userService}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByID(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProfileRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), ctxkeys.UserID(r.Context()), req)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	err = h.userService.UpdatePassword(r.Context(), ctxkeys.UserID(r.Context()), req.CurrentPassword, req.NewPassword)
	if err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.userService.Delete(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
