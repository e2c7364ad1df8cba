package services

import (
	"context"
	"testing"
	"time"

	"pomo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSessionStore is an in-memory SessionStore
type memSessionStore struct {
	sessions  []models.Session
	lastLimit int
	nextID    int64
}

func (s *memSessionStore) Create(_ context.Context, session *models.Session) error {
	s.nextID++
	session.ID = s.nextID
	s.sessions = append(s.sessions, *session)
	return nil
}

func (s *memSessionStore) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]models.Session, error) {
	s.lastLimit = limit
	out := []models.Session{}
	for i := len(s.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		if s.sessions[i].UserID == userID {
			out = append(out, s.sessions[i])
		}
	}
	return out, nil
}

func TestLogStoresUTC(t *testing.T) {
	store := &memSessionStore{}
	svc := NewSessionService(store)
	userID := uuid.New()

	loc := time.FixedZone("UTC+5", 5*3600)
	started := time.Date(2026, 3, 14, 10, 0, 0, 0, loc)

	session, err := svc.Log(context.Background(), userID, started, 25, models.SessionWork)
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.ID)
	assert.Equal(t, time.UTC, session.StartedAt.Location())
	assert.True(t, session.StartedAt.Equal(started))
}

func TestRecentLimitBounds(t *testing.T) {
	store := &memSessionStore{}
	svc := NewSessionService(store)
	userID := uuid.New()

	_, err := svc.Recent(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultRecentLimit, store.lastLimit)

	_, err = svc.Recent(context.Background(), userID, 5000)
	require.NoError(t, err)
	assert.Equal(t, maxRecentLimit, store.lastLimit)

	_, err = svc.Recent(context.Background(), userID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, store.lastLimit)
}
