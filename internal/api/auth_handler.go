package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/commerceprecision/cpe-api/internal/api/shared"
	"github.com/commerceprecision/cpe-api/internal/service"
	"github.com/commerceprecision/cpe-api/internal/service/auth"
)

// AuthenticationService is the slice of service.AuthService the handler needs.
type AuthenticationService interface {
	Login(ctx context.Context, accessCode string) (*service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService AuthenticationService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService AuthenticationService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles the /auth/login endpoint. Alpha users authenticate with a
// pre-distributed access code and receive an access and refresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	pair, err := h.authService.Login(r.Context(), req.AccessCode)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Elevated so repeated bad codes show up in the logs.
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				"Invalid access code", err, shared.WithElevatedLogLevel())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// RefreshToken handles the /auth/refresh endpoint. A valid refresh token is
// exchanged for a fresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
