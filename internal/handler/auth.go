package handler

import (
	"net/http"

	"github.com/detoxmine/detoxmine/internal/service"
	"github.com/detoxmine/detoxmine/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type tokenRequest struct {
	Address string `json:"address"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken mints a bearer token for a participant address.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := validation.ValidateAddress(req.Address)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tokenString, err := h.authService.IssueToken(req.Address)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: tokenString})
}
