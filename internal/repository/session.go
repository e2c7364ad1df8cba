package repository

import (
	"context"
	"fmt"
	"time"

	"pomo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository handles database operations for session logs
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session log entry and fills in its generated id
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, started_at, duration_min, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		session.UserID, session.StartedAt, session.DurationMin, session.Kind, session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// ListRecent returns the user's most recent sessions, newest first
func (r *SessionRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.Session, error) {
	query := `
		SELECT id, user_id, started_at, duration_min, kind, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		err := rows.Scan(&s.ID, &s.UserID, &s.StartedAt, &s.DurationMin, &s.Kind, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

// CountInRange returns the number of sessions a user started within
// [from, to)
func (r *SessionRepository) CountInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM sessions
		WHERE user_id = $1 AND started_at >= $2 AND started_at < $3
	`
	var count int
	err := r.db.QueryRow(ctx, query, userID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
