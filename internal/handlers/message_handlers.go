// File: internal/handlers/message_handlers.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/HaswanthR-CIT/ECHO/internal/repository/message"
)

// MessageHandler serves message history over the separate read path. Live
// events always reach clients only after their write is persisted, so a
// history fetch issued on receipt of a live event is guaranteed to include
// it.
type MessageHandler struct {
	Messages message.MessageRepository
}

func NewMessageHandler(messages message.MessageRepository) *MessageHandler {
	return &MessageHandler{Messages: messages}
}

// GetUserMessages returns all direct messages the user sent or received.
func (h *MessageHandler) GetUserMessages(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	msgs, err := h.Messages.FindForUser(r.Context(), username)
	if err != nil {
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// GetConversation returns the direct message history between two users.
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	msgs, err := h.Messages.FindBetween(r.Context(), vars["username"], vars["peer"])
	if err != nil {
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// GetGroupMessages returns a group's message history.
func (h *MessageHandler) GetGroupMessages(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseUint(mux.Vars(r)["groupId"], 10, 32)
	if err != nil {
		writeError(w, "Invalid group ID", http.StatusBadRequest)
		return
	}

	msgs, err := h.Messages.FindForGroup(r.Context(), uint(groupID))
	if err != nil {
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
