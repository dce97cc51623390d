package user

import (
	"context"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindBySocketID(ctx context.Context, socketID string) (*domain.User, error)
	// SetPresence sets the online flag, socket binding and last-login stamp
	// for the named user. When binding (online=true) an unknown username, the
	// user record is created on the fly (first-touch registration).
	SetPresence(ctx context.Context, username string, online bool, socketID string) (*domain.User, error)
	// ClearPresenceBySocket unbinds whichever user currently owns the socket.
	// Returns ErrUserNotFound if no user owns it.
	ClearPresenceBySocket(ctx context.Context, socketID string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}
