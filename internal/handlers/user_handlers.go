// File: internal/handlers/user_handlers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HaswanthR-CIT/ECHO/internal/repository/user"
)

// UserHandler serves user lookups for the contact list.
type UserHandler struct {
	Users user.UserRepository
}

func NewUserHandler(users user.UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

// GetAllUsers returns every known user with their online flags.
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.FindAll(r.Context())
	if err != nil {
		writeError(w, "Could not retrieve users", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUserByUsername returns a single user record.
func (h *UserHandler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	u, err := h.Users.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeError(w, "User not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
