package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/softcentric/tracker/internal/middleware"
	"github.com/softcentric/tracker/internal/models"
)

type sendMessageRequest struct {
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
}

type conversationsResponse struct {
	Conversations map[string][]models.Message `json:"conversations"`
	UnreadCounts  map[string]int              `json:"unread_counts"`
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUsername(r.Context())
	conversations, unread, err := s.messages.ConversationsFor(r.Context(), user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, conversationsResponse{
		Conversations: conversations,
		UnreadCounts:  unread,
	})
}

func (s *Server) handleUnread(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUsername(r.Context())
	unread, err := s.messages.UnreadFor(r.Context(), user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]models.Message{"unread": unread})
}

// handleThread returns the conversation with the counterpart. Opening it
// marks everything unread from the counterpart as read.
func (s *Server) handleThread(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUsername(r.Context())
	counterpart := chi.URLParam(r, "counterpart")
	thread, err := s.messages.ThreadBetween(r.Context(), user, counterpart)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, thread)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sender := middleware.GetUsername(r.Context())
	message, err := s.messages.Send(r.Context(), sender, req.Receiver, req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("Message sent", "message_id", message.ID, "sender", sender, "receiver", message.Receiver)
	s.writeJSON(w, http.StatusCreated, message)
}
