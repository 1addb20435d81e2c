package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"formdesk/internal/model"
)

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	msgs, err := s.store.ListMessagesFor(user.ID)
	if err != nil {
		s.writeAppErr(w, err, "list messages failed")
		return
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.ReceiverID == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "receiverId and content required")
		return
	}
	if _, err := s.store.GetUser(req.ReceiverID); err != nil {
		s.writeAppErr(w, err, "send message failed")
		return
	}

	msg, err := s.store.SendMessage(user.ID, req.ReceiverID, req.Content)
	if err != nil {
		s.writeAppErr(w, err, "send message failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

func (s *Server) handleMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	if err := s.store.MarkMessageRead(user.ID, r.PathValue("id")); err != nil {
		s.writeAppErr(w, err, "mark message read failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
