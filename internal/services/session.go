package services

import (
	"context"
	"time"

	"pomo-backend/internal/models"

	"github.com/google/uuid"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// SessionStore is the storage contract for session logs
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Session, error)
}

// SessionService handles session-log business logic
type SessionService struct {
	sessions SessionStore
}

// NewSessionService creates a new session service
func NewSessionService(sessions SessionStore) *SessionService {
	return &SessionService{sessions: sessions}
}

// Log records a completed Pomodoro session for a user
func (s *SessionService) Log(ctx context.Context, userID uuid.UUID, startedAt time.Time, durationMin int, kind string) (*models.Session, error) {
	session := &models.Session{
		UserID:      userID,
		StartedAt:   startedAt.UTC(),
		DurationMin: durationMin,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Recent returns the user's most recent sessions, newest first
func (s *SessionService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.sessions.ListRecent(ctx, userID, limit)
}
