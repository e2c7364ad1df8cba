package handlers

import (
	"encoding/json"
	"net/http"

	"pomo-backend/internal/apperr"
	"pomo-backend/internal/middleware"
	"pomo-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FriendHandler handles friend-related HTTP requests
type FriendHandler struct {
	friendService *services.FriendService
	wsHub         *services.WSHub
	validate      *validator.Validate
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friendService *services.FriendService, wsHub *services.WSHub) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
		wsHub:         wsHub,
		validate:      validator.New(),
	}
}

// SendRequestBody represents the request body for sending a friend request
type SendRequestBody struct {
	ReceiverEmail string `json:"receiver_email" validate:"required,email"`
}

// SendRequestResponse represents the response for a sent friend request
type SendRequestResponse struct {
	Message   string    `json:"message"`
	RequestID uuid.UUID `json:"request_id"`
}

// SendRequest handles POST /api/v1/friends/request
func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var body SendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		respondError(w, "receiver_email must be a valid email", http.StatusBadRequest)
		return
	}

	receiver, requestID, err := h.friendService.SendRequest(ctx, userID, body.ReceiverEmail)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("receiver_email", body.ReceiverEmail).
			Msg("Failed to send friend request")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("receiver_id", receiver.ID.String()).
		Str("request_id", requestID.String()).
		Msg("Friend request sent")

	h.wsHub.NotifyRequestReceived(receiver.ID, requestID, userID)

	respondJSON(w, http.StatusCreated, SendRequestResponse{
		Message:   "Friend request sent",
		RequestID: requestID,
	})
}

// ListIncoming handles GET /api/v1/friends/requests/incoming
func (h *FriendHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requests, err := h.friendService.IncomingRequests(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list incoming requests")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// Accept handles POST /api/v1/friends/request/{request_id}/accept
func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requestID, err := uuid.Parse(chi.URLParam(r, "request_id"))
	if err != nil {
		respondError(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	req, err := h.friendService.Accept(ctx, requestID, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("request_id", requestID.String()).
			Msg("Failed to accept friend request")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("request_id", requestID.String()).
		Msg("Friend request accepted")

	h.wsHub.NotifyRequestAccepted(req.SenderID, req.ID)

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Friend request accepted"})
}

// Reject handles POST /api/v1/friends/request/{request_id}/reject
func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	requestID, err := uuid.Parse(chi.URLParam(r, "request_id"))
	if err != nil {
		respondError(w, "Invalid request id", http.StatusBadRequest)
		return
	}

	if _, err := h.friendService.Reject(ctx, requestID, userID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("request_id", requestID.String()).
			Msg("Failed to reject friend request")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("request_id", requestID.String()).
		Msg("Friend request rejected")

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Friend request rejected"})
}

// ListFriends handles GET /api/v1/friends
func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friends, err := h.friendService.Friends(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list friends")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	respondJSON(w, http.StatusOK, friends)
}

// Search handles GET /api/v1/friends/search?email=
func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	query := r.URL.Query().Get("email")

	users, err := h.friendService.SearchUsers(ctx, userID, query)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("query", query).
			Msg("Failed to search users")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// Unfriend handles DELETE /api/v1/friends/{friend_id}
func (h *FriendHandler) Unfriend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	friendID, err := uuid.Parse(chi.URLParam(r, "friend_id"))
	if err != nil {
		respondError(w, "Invalid friend id", http.StatusBadRequest)
		return
	}

	if err := h.friendService.Unfriend(ctx, userID, friendID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("friend_id", friendID.String()).
			Msg("Failed to remove friend")
		respondError(w, err.Error(), apperr.Status(err))
		return
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("friend_id", friendID.String()).
		Msg("Friend removed")

	h.wsHub.NotifyFriendRemoved(friendID, userID)

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Friend removed"})
}
