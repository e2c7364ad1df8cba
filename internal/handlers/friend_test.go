package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pomo-backend/internal/apperr"
	"pomo-backend/internal/middleware"
	"pomo-backend/internal/models"
	"pomo-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFriendStore implements services.FriendStore with overridable behavior
type stubFriendStore struct {
	createRequest func(senderID, receiverID uuid.UUID) (uuid.UUID, error)
	pendingExists bool
	areFriends    bool
	acceptResult  *models.FriendRequest
	acceptErr     error
	rejectErr     error
	deleteErr     error
	searchCalled  bool
}

func (s *stubFriendStore) CreateRequest(_ context.Context, senderID, receiverID uuid.UUID) (uuid.UUID, error) {
	if s.createRequest != nil {
		return s.createRequest(senderID, receiverID)
	}
	return uuid.New(), nil
}

func (s *stubFriendStore) PendingRequestExists(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return s.pendingExists, nil
}

func (s *stubFriendStore) AcceptRequest(context.Context, uuid.UUID, uuid.UUID) (*models.FriendRequest, error) {
	return s.acceptResult, s.acceptErr
}

func (s *stubFriendStore) RejectRequest(context.Context, uuid.UUID, uuid.UUID) (*models.FriendRequest, error) {
	return nil, s.rejectErr
}

func (s *stubFriendStore) ListIncoming(context.Context, uuid.UUID) ([]models.IncomingRequest, error) {
	return []models.IncomingRequest{}, nil
}

func (s *stubFriendStore) AreFriends(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return s.areFriends, nil
}

func (s *stubFriendStore) ListFriends(context.Context, uuid.UUID) ([]models.User, error) {
	return []models.User{}, nil
}

func (s *stubFriendStore) DeleteFriendship(context.Context, uuid.UUID, uuid.UUID) error {
	return s.deleteErr
}

func (s *stubFriendStore) SearchCandidates(context.Context, uuid.UUID, string, int) ([]models.User, error) {
	s.searchCalled = true
	return []models.User{}, nil
}

// stubDirectory implements services.UserDirectory
type stubDirectory struct {
	byEmail map[string]*models.User
}

func (d *stubDirectory) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
}

func (d *stubDirectory) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := d.byEmail[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user not found: %w", apperr.ErrNotFound)
}

type stubCounter struct{}

func (stubCounter) CountInRange(context.Context, uuid.UUID, time.Time, time.Time) (int, error) {
	return 0, nil
}

func newTestRouter(h *FriendHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	r.Post("/friends/request", h.SendRequest)
	r.Get("/friends/requests/incoming", h.ListIncoming)
	r.Post("/friends/request/{request_id}/accept", h.Accept)
	r.Post("/friends/request/{request_id}/reject", h.Reject)
	r.Get("/friends", h.ListFriends)
	r.Get("/friends/search", h.Search)
	r.Delete("/friends/{friend_id}", h.Unfriend)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSendRequestStatusMapping(t *testing.T) {
	caller := uuid.New()
	other := &models.User{ID: uuid.New(), Email: "bob@x.com"}

	tests := []struct {
		name     string
		store    *stubFriendStore
		dir      *stubDirectory
		body     string
		expected int
	}{
		{
			name:     "created",
			store:    &stubFriendStore{},
			dir:      &stubDirectory{byEmail: map[string]*models.User{"bob@x.com": other}},
			body:     `{"receiver_email":"bob@x.com"}`,
			expected: http.StatusCreated,
		},
		{
			name:     "receiver not found",
			store:    &stubFriendStore{},
			dir:      &stubDirectory{byEmail: map[string]*models.User{}},
			body:     `{"receiver_email":"ghost@x.com"}`,
			expected: http.StatusNotFound,
		},
		{
			name:     "already friends",
			store:    &stubFriendStore{areFriends: true},
			dir:      &stubDirectory{byEmail: map[string]*models.User{"bob@x.com": other}},
			body:     `{"receiver_email":"bob@x.com"}`,
			expected: http.StatusConflict,
		},
		{
			name:     "pending exists",
			store:    &stubFriendStore{pendingExists: true},
			dir:      &stubDirectory{byEmail: map[string]*models.User{"bob@x.com": other}},
			body:     `{"receiver_email":"bob@x.com"}`,
			expected: http.StatusConflict,
		},
		{
			name:     "malformed body",
			store:    &stubFriendStore{},
			dir:      &stubDirectory{byEmail: map[string]*models.User{}},
			body:     `{`,
			expected: http.StatusBadRequest,
		},
		{
			name:     "not an email",
			store:    &stubFriendStore{},
			dir:      &stubDirectory{byEmail: map[string]*models.User{}},
			body:     `{"receiver_email":"nope"}`,
			expected: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewFriendService(tt.store, tt.dir, stubCounter{})
			router := newTestRouter(NewFriendHandler(svc, services.NewWSHub()), caller)

			rec := doRequest(t, router, http.MethodPost, "/friends/request", tt.body)
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestSendRequestSelfIsBadRequest(t *testing.T) {
	caller := uuid.New()
	self := &models.User{ID: caller, Email: "me@x.com"}
	svc := services.NewFriendService(
		&stubFriendStore{},
		&stubDirectory{byEmail: map[string]*models.User{"me@x.com": self}},
		stubCounter{},
	)
	router := newTestRouter(NewFriendHandler(svc, services.NewWSHub()), caller)

	rec := doRequest(t, router, http.MethodPost, "/friends/request", `{"receiver_email":"me@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptStatusMapping(t *testing.T) {
	caller := uuid.New()
	requestID := uuid.New()

	t.Run("accepted", func(t *testing.T) {
		store := &stubFriendStore{acceptResult: &models.FriendRequest{
			ID:       requestID,
			SenderID: uuid.New(),
			Status:   models.RequestAccepted,
		}}
		svc := services.NewFriendService(store, &stubDirectory{}, stubCounter{})
		router := newTestRouter(NewFriendHandler(svc, services.NewWSHub()), caller)

		rec := doRequest(t, router, http.MethodPost, "/friends/request/"+requestID.String()+"/accept", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		store := &stubFriendStore{
			acceptErr: fmt.Errorf("friend request not found: %w", apperr.ErrNotFound),
		}
		svc := services.NewFriendService(store, &stubDirectory{}, stubCounter{})
		router := newTestRouter(NewFriendHandler(svc, services.NewWSHub()), caller)

		rec := doRequest(t, router, http.MethodPost, "/friends/request/"+requestID.String()+"/accept", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := services.NewFriendService(&stubFriendStore{}, &stubDirectory{}, stubCounter{})
		router := newTestRouter(NewFriendHandler(svc, services.NewWSHub()), caller)

		rec := doRequest(t, router, http.MethodPost, "/friends/request/not-a-uuid/accept", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSearchStatusMapping(t *testing.T) {
	caller := uuid.New()
	store := &stubFriendStore{}
	svc := services.NewFriendService(store, &stubDirectory{}, stubCounter{})
	router := newTestRouter(NewFriendHandler(svc, services.NewWSHub()), caller)

	rec := doRequest(t, router, http.MethodGet, "/friends/search?email=xy", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, store.searchCalled)

	rec = doRequest(t, router, http.MethodGet, "/friends/search?email=bob", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.searchCalled)
}

func TestUnfriendAlwaysSucceeds(t *testing.T) {
	caller := uuid.New()
	svc := services.NewFriendService(&stubFriendStore{}, &stubDirectory{}, stubCounter{})
	router := newTestRouter(NewFriendHandler(svc, services.NewWSHub()), caller)

	friendID := uuid.New()
	for i := 0; i < 2; i++ {
		rec := doRequest(t, router, http.MethodDelete, "/friends/"+friendID.String(), "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestListEndpointsReturnEmptyArrays(t *testing.T) {
	caller := uuid.New()
	svc := services.NewFriendService(&stubFriendStore{}, &stubDirectory{}, stubCounter{})
	router := newTestRouter(NewFriendHandler(svc, services.NewWSHub()), caller)

	for _, path := range []string{"/friends", "/friends/requests/incoming"} {
		rec := doRequest(t, router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	}
}
