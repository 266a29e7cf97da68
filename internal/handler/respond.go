package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/goalkeeper/internal/model"
	"github.com/templui/goalkeeper/internal/repository"
	"github.com/templui/goalkeeper/internal/service"
	"github.com/templui/goalkeeper/internal/validation"
)

const maxBodyBytes = 1 << 20

var errBadJSON = errors.New("invalid JSON body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return errBadJSON
	}
	return nil
}

// fail maps service errors to a status code. Unknown errors are logged and hidden.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr), errors.Is(err, errBadJSON):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrInvalidTarget),
		errors.Is(err, model.ErrMissingUnit),
		errors.Is(err, model.ErrMissingEndDate),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrUnknownUnit),
		errors.Is(err, service.ErrInvalidWeekOffset),
		errors.Is(err, service.ErrInvalidCurrentPassword),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrInvalidInvite),
		errors.Is(err, validation.ErrPasswordTooShort),
		errors.Is(err, validation.ErrPasswordTooLong),
		errors.Is(err, validation.ErrPasswordTooCommon):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotGroupMember),
		errors.Is(err, service.ErrNotGroupManager):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrGroupNotFound),
		errors.Is(err, repository.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrGoalAlreadyAccepted),
		errors.Is(err, service.ErrGoalNotAcceptable),
		errors.Is(err, service.ErrOwnerCannotLeave),
		errors.Is(err, model.ErrGoalAlreadyCompleted),
		errors.Is(err, repository.ErrAlreadyMember):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
