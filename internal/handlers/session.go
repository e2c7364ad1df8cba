package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pomo-backend/internal/apperr"
	"pomo-backend/internal/middleware"
	"pomo-backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// SessionHandler handles session-log HTTP requests
type SessionHandler struct {
	sessionService *services.SessionService
	validate       *validator.Validate
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		validate:       validator.New(),
	}
}

// CreateSessionBody represents the request body for logging a session
type CreateSessionBody struct {
	StartedAt   time.Time `json:"started_at" validate:"required"`
	DurationMin int       `json:"duration_min" validate:"required,min=1,max=180"`
	Kind        string    `json:"kind" validate:"omitempty,oneof=work break"`
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var body CreateSessionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Kind == "" {
		body.Kind = "work"
	}

	session, err := h.sessionService.Log(ctx, userID, body.StartedAt, body.DurationMin, body.Kind)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to log session")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("session_id", session.ID).
		Int("duration_min", session.DurationMin).
		Msg("Session logged")

	respondJSON(w, http.StatusCreated, session)
}

// Recent handles GET /api/v1/sessions/recent?limit=
func (h *SessionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	sessions, err := h.sessionService.Recent(ctx, userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list sessions")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	respondJSON(w, http.StatusOK, sessions)
}
