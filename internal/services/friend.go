package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"pomo-backend/internal/apperr"
	"pomo-backend/internal/models"

	"github.com/google/uuid"
)

const (
	searchMinQueryLen = 3
	searchResultLimit = 10
)

// UserDirectory is the user-lookup contract the friend logic depends on
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// FriendStore is the storage contract for friend requests and friendship
// edges. Implementations must back the pending-per-pair uniqueness with a
// storage-level constraint and keep mirrored edge mutations atomic.
type FriendStore interface {
	CreateRequest(ctx context.Context, senderID, receiverID uuid.UUID) (uuid.UUID, error)
	PendingRequestExists(ctx context.Context, a, b uuid.UUID) (bool, error)
	AcceptRequest(ctx context.Context, requestID, receiverID uuid.UUID) (*models.FriendRequest, error)
	RejectRequest(ctx context.Context, requestID, receiverID uuid.UUID) (*models.FriendRequest, error)
	ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]models.IncomingRequest, error)
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.User, error)
	DeleteFriendship(ctx context.Context, a, b uuid.UUID) error
	SearchCandidates(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.User, error)
}

// SessionCounter counts a user's logged sessions within a UTC time range
type SessionCounter interface {
	CountInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)
}

// FriendService implements the friend request lifecycle and the social
// queries layered on top of it
type FriendService struct {
	store    FriendStore
	users    UserDirectory
	sessions SessionCounter
	// now is the clock used for day boundaries, swappable in tests
	now func() time.Time
}

// NewFriendService creates a new friend service
func NewFriendService(store FriendStore, users UserDirectory, sessions SessionCounter) *FriendService {
	return &FriendService{
		store:    store,
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}
}

// SendRequest creates a pending friend request from senderID to the user
// with the given email and returns the receiver and the new request id.
// The pre-checks give precise errors; the storage uniqueness constraint
// closes the check-then-insert race, surfacing as Conflict.
func (s *FriendService) SendRequest(ctx context.Context, senderID uuid.UUID, receiverEmail string) (*models.User, uuid.UUID, error) {
	receiver, err := s.users.GetByEmail(ctx, receiverEmail)
	if err != nil {
		return nil, uuid.Nil, err
	}

	if receiver.ID == senderID {
		return nil, uuid.Nil, fmt.Errorf("cannot send friend request to yourself: %w", apperr.ErrInvalidArgument)
	}

	friends, err := s.store.AreFriends(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if friends {
		return nil, uuid.Nil, fmt.Errorf("already friends: %w", apperr.ErrConflict)
	}

	pending, err := s.store.PendingRequestExists(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if pending {
		return nil, uuid.Nil, fmt.Errorf("friend request already exists: %w", apperr.ErrConflict)
	}

	requestID, err := s.store.CreateRequest(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return receiver, requestID, nil
}

// IncomingRequests returns all pending requests addressed to userID
func (s *FriendService) IncomingRequests(ctx context.Context, userID uuid.UUID) ([]models.IncomingRequest, error) {
	return s.store.ListIncoming(ctx, userID)
}

// Accept transitions a pending request addressed to actingUser to accepted
// and creates the mirrored friendship pair. Only the receiver may accept;
// anyone else, or a request already out of pending, gets NotFound.
func (s *FriendService) Accept(ctx context.Context, requestID, actingUser uuid.UUID) (*models.FriendRequest, error) {
	return s.store.AcceptRequest(ctx, requestID, actingUser)
}

// Reject transitions a pending request addressed to actingUser to rejected
func (s *FriendService) Reject(ctx context.Context, requestID, actingUser uuid.UUID) (*models.FriendRequest, error) {
	return s.store.RejectRequest(ctx, requestID, actingUser)
}

// Unfriend removes both directed friendship rows between actingUser and
// otherUser. Removing a non-existent pair is a no-op.
func (s *FriendService) Unfriend(ctx context.Context, actingUser, otherUser uuid.UUID) error {
	return s.store.DeleteFriendship(ctx, actingUser, otherUser)
}

// Friends returns all friends of userID with their session counts for the
// current UTC day, sorted by count descending. Ties break on ascending
// friend id so the ordering is deterministic.
func (s *FriendService) Friends(ctx context.Context, userID uuid.UUID) ([]models.FriendActivity, error) {
	friends, err := s.store.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := utcDayBounds(s.now())
	activities := make([]models.FriendActivity, 0, len(friends))
	for _, f := range friends {
		count, err := s.sessions.CountInRange(ctx, f.ID, from, to)
		if err != nil {
			return nil, err
		}
		activities = append(activities, models.FriendActivity{
			ID:             f.ID,
			Name:           f.Name,
			Email:          f.Email,
			Picture:        f.Picture,
			PomodorosToday: count,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		if activities[i].PomodorosToday != activities[j].PomodorosToday {
			return activities[i].PomodorosToday > activities[j].PomodorosToday
		}
		return activities[i].ID.String() < activities[j].ID.String()
	})
	return activities, nil
}

// SearchUsers returns up to 10 users whose email contains the query as a
// case-insensitive substring, excluding the searcher, existing friends and
// targets of pending outgoing requests
func (s *FriendService) SearchUsers(ctx context.Context, userID uuid.UUID, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < searchMinQueryLen {
		return nil, fmt.Errorf("search query must be at least %d characters: %w",
			searchMinQueryLen, apperr.ErrInvalidArgument)
	}
	return s.store.SearchCandidates(ctx, userID, query, searchResultLimit)
}

// utcDayBounds returns [00:00, 24:00) of the current UTC date
func utcDayBounds(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}
