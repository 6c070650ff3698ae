package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/calebhoward/bastion/internal/auth"
	"github.com/calebhoward/bastion/internal/guard"
	"github.com/calebhoward/bastion/internal/models"
	"github.com/calebhoward/bastion/internal/services"
	"github.com/calebhoward/bastion/pkg/api"
)

// AuthServiceInterface defines the auth business logic the handler depends on
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*services.AuthResponse, guard.LockState, error)
	Logout(ctx context.Context, tokenString string) error
}

// AuthHandler handles login and logout requests
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles user login. A locked identity answers 429 with a Retry-After
// header before credentials are ever inspected.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		api.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	resp, state, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAccountLocked):
			retryAfter := int(state.RetryAfter.Seconds())
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			api.WriteError(w, http.StatusTooManyRequests, api.CodeAccountLocked,
				"account temporarily locked, try again later")
		case errors.Is(err, models.ErrInvalidCredentials):
			api.WriteError(w, http.StatusUnauthorized, api.CodeInvalidCredentials,
				"invalid email or password")
		case errors.Is(err, models.ErrStoreUnavailable):
			api.WriteStoreUnavailable(w, "unable to process login right now")
		default:
			api.WriteInternalError(w, "login failed")
		}
		return
	}

	api.WriteData(w, http.StatusOK, resp)
}

// Logout revokes the presented token for its remaining lifetime.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString := auth.TokenFromRequest(r)
	if tokenString == "" {
		api.WriteUnauthorized(w, "missing bearer token")
		return
	}

	if err := h.service.Logout(r.Context(), tokenString); err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			api.WriteUnauthorized(w, "invalid token")
		case errors.Is(err, models.ErrStoreUnavailable):
			api.WriteStoreUnavailable(w, "unable to process logout right now")
		default:
			api.WriteInternalError(w, "logout failed")
		}
		return
	}

	api.WriteData(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
