package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pomo-backend/internal/apperr"
	"pomo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendRepository handles database operations for friend requests and
// friendship edges. Friendship rows are directed but always written and
// removed in mirrored pairs; both halves of a pair mutation share one
// transaction so a single-sided edge can never persist.
type FriendRepository struct {
	db *pgxpool.Pool
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *pgxpool.Pool) *FriendRepository {
	return &FriendRepository{db: db}
}

// CreateRequest inserts a new pending friend request and returns its id.
// A partial unique index over the unordered (sender, receiver) pair backs
// the at-most-one-pending-per-pair invariant; a concurrent insert from
// either direction loses with Conflict.
func (r *FriendRepository) CreateRequest(ctx context.Context, senderID, receiverID uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now().UTC()
	query := `
		INSERT INTO friend_requests (id, sender_id, receiver_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	_, err := r.db.Exec(ctx, query, id, senderID, receiverID, models.RequestPending, now)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("friend request already exists: %w", apperr.ErrConflict)
		}
		return uuid.Nil, fmt.Errorf("failed to create friend request: %w", err)
	}
	return id, nil
}

// PendingRequestExists reports whether a pending request exists between the
// unordered pair in either direction
func (r *FriendRepository) PendingRequestExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE status = $3
			  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, a, b, models.RequestPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending request: %w", err)
	}
	return exists, nil
}

// AcceptRequest transitions a pending request addressed to receiverID to
// accepted and inserts the mirrored friendship pair, all in one transaction.
// The status update is a compare-and-swap on status = pending, so exactly
// one of two concurrent accepts wins; the loser gets NotFound.
func (r *FriendRepository) AcceptRequest(ctx context.Context, requestID, receiverID uuid.UUID) (*models.FriendRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	req, err := updateRequestStatus(ctx, tx, requestID, receiverID, models.RequestAccepted)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO friendships (id, user_id, friend_id, created_at)
		VALUES ($1, $2, $3, $4), ($5, $3, $2, $4)
	`
	_, err = tx.Exec(ctx, query, uuid.New(), req.SenderID, req.ReceiverID, now, uuid.New())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("already friends: %w", apperr.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return req, nil
}

// RejectRequest transitions a pending request addressed to receiverID to
// rejected. No edge is created.
func (r *FriendRepository) RejectRequest(ctx context.Context, requestID, receiverID uuid.UUID) (*models.FriendRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	req, err := updateRequestStatus(ctx, tx, requestID, receiverID, models.RequestRejected)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return req, nil
}

// updateRequestStatus performs the guarded pending → terminal transition.
// Zero affected rows means the request does not exist, is not addressed to
// the caller, or already left pending; all three surface as NotFound.
func updateRequestStatus(ctx context.Context, tx pgx.Tx, requestID, receiverID uuid.UUID, status string) (*models.FriendRequest, error) {
	query := `
		UPDATE friend_requests
		SET status = $1, updated_at = $2
		WHERE id = $3 AND receiver_id = $4 AND status = $5
		RETURNING id, sender_id, receiver_id, status, created_at, updated_at
	`
	var req models.FriendRequest
	err := tx.QueryRow(ctx, query, status, time.Now().UTC(), requestID, receiverID, models.RequestPending).Scan(
		&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("friend request not found: %w", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update friend request: %w", err)
	}
	return &req, nil
}

// ListIncoming returns all pending requests addressed to receiverID joined
// with both user records, oldest first (stable across repeated calls)
func (r *FriendRepository) ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]models.IncomingRequest, error) {
	query := `
		SELECT fr.id, fr.status, fr.created_at,
		       s.id, s.google_id, s.email, s.name, s.picture, s.created_at,
		       rc.id, rc.google_id, rc.email, rc.name, rc.picture, rc.created_at
		FROM friend_requests fr
		JOIN users s ON s.id = fr.sender_id
		JOIN users rc ON rc.id = fr.receiver_id
		WHERE fr.receiver_id = $1 AND fr.status = $2
		ORDER BY fr.created_at, fr.id
	`
	rows, err := r.db.Query(ctx, query, receiverID, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}
	defer rows.Close()

	requests := []models.IncomingRequest{}
	for rows.Next() {
		var req models.IncomingRequest
		err := rows.Scan(
			&req.ID, &req.Status, &req.CreatedAt,
			&req.Sender.ID, &req.Sender.GoogleID, &req.Sender.Email,
			&req.Sender.Name, &req.Sender.Picture, &req.Sender.CreatedAt,
			&req.Receiver.ID, &req.Receiver.GoogleID, &req.Receiver.Email,
			&req.Receiver.Name, &req.Receiver.Picture, &req.Receiver.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incoming request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read incoming requests: %w", err)
	}
	return requests, nil
}

// AreFriends reports whether a friendship edge links the pair
func (r *FriendRepository) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, a, b).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

// ListFriends returns the user records on the other end of every friendship
// edge owned by userID
func (r *FriendRepository) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT u.id, u.google_id, u.email, u.name, u.picture, u.created_at
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	friends := []models.User{}
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		friends = append(friends, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read friends: %w", err)
	}
	return friends, nil
}

// DeleteFriendship removes both directed rows of the unordered pair. A
// single statement covers both directions, so the removal is atomic;
// deleting an absent pair removes zero rows and is not an error.
func (r *FriendRepository) DeleteFriendship(ctx context.Context, a, b uuid.UUID) error {
	query := `
		DELETE FROM friendships
		WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	`
	_, err := r.db.Exec(ctx, query, a, b)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	return nil
}

// SearchCandidates returns up to limit users whose email contains the query
// as a case-insensitive substring, excluding the searcher, existing friends
// and targets of the searcher's pending outgoing requests. Exclusions are
// applied before the limit so results are not under-filled.
func (r *FriendRepository) SearchCandidates(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.User, error) {
	sql := `
		SELECT u.id, u.google_id, u.email, u.name, u.picture, u.created_at
		FROM users u
		WHERE u.email ILIKE $2
		  AND u.id <> $1
		  AND NOT EXISTS(
			SELECT 1 FROM friendships f
			WHERE f.user_id = $1 AND f.friend_id = u.id
		  )
		  AND NOT EXISTS(
			SELECT 1 FROM friend_requests fr
			WHERE fr.sender_id = $1 AND fr.receiver_id = u.id AND fr.status = $3
		  )
		ORDER BY u.email, u.id
		LIMIT $4
	`
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.Query(ctx, sql, userID, pattern, models.RequestPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search results: %w", err)
	}
	return users, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
