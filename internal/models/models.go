package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendRequest status values. A request leaves pending exactly once and the
// resulting status is terminal; re-proposing requires a new row.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Session kind values
const (
	SessionWork  = "work"
	SessionBreak = "break"
)

// User represents a registered user in the system
type User struct {
	ID        uuid.UUID `json:"id"`
	GoogleID  string    `json:"-"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Picture   *string   `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendRequest represents a directed friend request from sender to receiver
type FriendRequest struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IncomingRequest is a pending friend request joined with both user records
type IncomingRequest struct {
	ID        uuid.UUID `json:"id"`
	Sender    User      `json:"sender"`
	Receiver  User      `json:"receiver"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Friendship is one directed half of an undirected friend relationship.
// Rows always exist in mirrored pairs: (user, friend) and (friend, user).
type Friendship struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	FriendID  uuid.UUID `json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FriendActivity is a friend with their Pomodoro count for the current UTC day
type FriendActivity struct {
	ID             uuid.UUID `json:"id"`
	Name           *string   `json:"name"`
	Email          string    `json:"email"`
	Picture        *string   `json:"picture"`
	PomodorosToday int       `json:"pomodoros_today"`
}

// Session represents a logged Pomodoro session
type Session struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	StartedAt   time.Time `json:"started_at"`
	DurationMin int       `json:"duration_min"`
	Kind        string    `json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}
