package message

import (
	"context"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
)

// MessageRepository handles message data operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, id uint) (*domain.Message, error)
	Update(ctx context.Context, msg *domain.Message) error
	// FindForUser returns all direct messages sent or received by the user,
	// oldest first.
	FindForUser(ctx context.Context, username string) ([]domain.Message, error)
	// FindBetween returns the direct conversation between two users, oldest
	// first.
	FindBetween(ctx context.Context, userA, userB string) ([]domain.Message, error)
	FindForGroup(ctx context.Context, groupID uint) ([]domain.Message, error)
}
