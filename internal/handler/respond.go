package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/detoxmine/detoxmine/internal/repository"
	"github.com/detoxmine/detoxmine/internal/service"
	"github.com/detoxmine/detoxmine/internal/token"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain errors to HTTP statuses. Validation failures are
// 400, auth failures 401/403, missing records 404, state-machine guards
// 409, and underfunded accounts 422.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrInvalidStakeAmount),
		errors.Is(err, service.ErrInvalidTimeLimit),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidRewardAmount),
		errors.Is(err, service.ErrMismatchedArrays),
		errors.Is(err, service.ErrReportOutOfWindow),
		errors.Is(err, token.ErrInvalidAmount):
		status = http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidToken):
		status = http.StatusUnauthorized

	case errors.Is(err, service.ErrUnauthorizedAuthority),
		errors.Is(err, service.ErrUnauthorizedReporter),
		errors.Is(err, service.ErrFaucetDisabled),
		errors.Is(err, token.ErrUnauthorizedTransfer):
		status = http.StatusForbidden

	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, service.ErrProgramNotInitialized):
		status = http.StatusNotFound

	case errors.Is(err, service.ErrGoalNotActive),
		errors.Is(err, service.ErrGoalExpired),
		errors.Is(err, service.ErrGoalNotExpired),
		errors.Is(err, service.ErrDayAlreadyReported),
		errors.Is(err, service.ErrProgramExists),
		errors.Is(err, service.ErrProfileExists),
		errors.Is(err, service.ErrGoalExists):
		status = http.StatusConflict

	case errors.Is(err, repository.ErrInsufficientBalance),
		errors.Is(err, service.ErrInsufficientPool):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		respondJSON(w, status, errorResponse{Error: "internal error"})
		return
	}

	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}
