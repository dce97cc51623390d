package group

import (
	"context"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
)

// GroupRepository handles group and membership data operations.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)
	FindByID(ctx context.Context, id uint) (*domain.Group, error)
	FindByMember(ctx context.Context, userID uint) ([]domain.Group, error)
	// AddMember has set-union semantics: adding an existing member is a
	// no-op and reported via changed=false.
	AddMember(ctx context.Context, groupID, userID uint) (changed bool, err error)
	RemoveMember(ctx context.Context, groupID, userID uint) error
	Members(ctx context.Context, groupID uint) ([]domain.User, error)
}
