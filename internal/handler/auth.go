package handler

import (
	"net/http"

	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

// ForgotPassword answers 202 whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	err = h.authService.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req service.ResetPasswordRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}

	user, err := h.authService.ResetPassword(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, status, tokenResponse{Token: token, User: newUserResponse(user)})
}
