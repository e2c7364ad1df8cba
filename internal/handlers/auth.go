package handlers

import (
	"encoding/json"
	"net/http"

	"pomo-backend/internal/apperr"
	"pomo-backend/internal/models"
	"pomo-backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// TokenVerifyBody represents the request body for token verification
type TokenVerifyBody struct {
	GoogleToken string `json:"google_token" validate:"required"`
}

// TokenResponse represents the response carrying an issued access token
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// TokenVerify handles POST /api/v1/auth/token/verify
func (h *AuthHandler) TokenVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body TokenVerifyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		respondError(w, "google_token is required", http.StatusBadRequest)
		return
	}

	token, user, err := h.authService.Login(ctx, body.GoogleToken)
	if err != nil {
		log.Error().Err(err).Msg("Failed to verify google token")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("email", user.Email).
		Msg("User logged in")

	respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}
