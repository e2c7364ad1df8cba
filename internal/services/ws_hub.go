package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket message pushed to a connected user
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and pushes friend events to online
// users. Delivery is best effort; friend operations never fail because a
// counterparty could not be notified.
type WSHub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[uuid.UUID]*websocket.Conn),
	}
}

// Register registers a new WebSocket connection for a user
func (h *WSHub) Register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if existing, exists := h.connections[userID]; exists {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID.String()).Msg("WebSocket connection registered")
}

// Unregister removes a WebSocket connection for a user
func (h *WSHub) Unregister(userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[userID]; exists {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID.String()).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has a registered connection
func (h *WSHub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID uuid.UUID, message WSMessage) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// NotifyRequestReceived tells the receiver about a new incoming request
func (h *WSHub) NotifyRequestReceived(receiverID, requestID, senderID uuid.UUID) {
	if !h.IsOnline(receiverID) {
		return
	}
	message := WSMessage{
		Type: "friend_request_received",
		Data: map[string]interface{}{
			"request_id": requestID,
			"sender_id":  senderID,
		},
	}
	if err := h.SendToUser(receiverID, message); err != nil {
		log.Error().Err(err).Str("user_id", receiverID.String()).
			Msg("Failed to notify friend request")
	}
}

// NotifyRequestAccepted tells the original sender their request was accepted
func (h *WSHub) NotifyRequestAccepted(senderID uuid.UUID, requestID uuid.UUID) {
	if !h.IsOnline(senderID) {
		return
	}
	message := WSMessage{
		Type: "friend_request_accepted",
		Data: map[string]interface{}{
			"request_id": requestID,
		},
	}
	if err := h.SendToUser(senderID, message); err != nil {
		log.Error().Err(err).Str("user_id", senderID.String()).
			Msg("Failed to notify request accepted")
	}
}

// NotifyFriendRemoved tells the other side a friendship was removed
func (h *WSHub) NotifyFriendRemoved(otherID, removerID uuid.UUID) {
	if !h.IsOnline(otherID) {
		return
	}
	message := WSMessage{
		Type: "friend_removed",
		Data: map[string]interface{}{
			"user_id": removerID,
		},
	}
	if err := h.SendToUser(otherID, message); err != nil {
		log.Error().Err(err).Str("user_id", otherID.String()).
			Msg("Failed to notify friend removed")
	}
}
