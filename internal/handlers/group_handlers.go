// File: internal/handlers/group_handlers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/HaswanthR-CIT/ECHO/internal/repository/group"
	"github.com/HaswanthR-CIT/ECHO/internal/services/membership"
)

// GroupHandler mutates groups over HTTP. Mutations go through the
// membership index so live connections' channel subscriptions and the
// socket-side notifications stay in lockstep with the stored membership.
type GroupHandler struct {
	Membership *membership.Index
}

func NewGroupHandler(idx *membership.Index) *GroupHandler {
	return &GroupHandler{Membership: idx}
}

type createGroupRequest struct {
	Name      string `json:"name"`
	Members   []uint `json:"members"`
	CreatedBy uint   `json:"createdBy"`
}

type memberRequest struct {
	UserID  uint `json:"userId"`
	AddedBy uint `json:"addedBy"`
}

// CreateGroup persists a new group and notifies its bound initial members.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.CreatedBy == 0 {
		writeError(w, "Group name and creator are required", http.StatusBadRequest)
		return
	}

	g, err := h.Membership.CreateGroup(r.Context(), req.Name, req.Members, req.CreatedBy)
	if err != nil {
		writeError(w, "Could not create group", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// GetGroupsForUser lists the groups the user belongs to.
func (h *GroupHandler) GetGroupsForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(mux.Vars(r)["userId"], 10, 32)
	if err != nil {
		writeError(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	groups, err := h.Membership.GroupsOf(r.Context(), uint(userID))
	if err != nil {
		writeError(w, "Could not retrieve groups", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// AddMember adds a user to the group (duplicate adds are a no-op).
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid group ID", http.StatusBadRequest)
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.Membership.AddMember(r.Context(), uint(groupID), req.UserID, req.AddedBy)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			writeError(w, "Group not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not add member", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// RemoveMember takes a user out of the group and off its delivery channel.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid group ID", http.StatusBadRequest)
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	g, err := h.Membership.RemoveMember(r.Context(), uint(groupID), req.UserID)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			writeError(w, "Group not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not remove member", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
