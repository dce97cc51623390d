// File: internal/repository/group/gorm_group_repository.go
package group

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
)

var ErrGroupNotFound = errors.New("group not found")

type gormGroupRepository struct {
	db *gorm.DB
}

func NewGormGroupRepository(db *gorm.DB) GroupRepository {
	return &gormGroupRepository{db: db}
}

func (r *gormGroupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	if group.Name == "" {
		return nil, errors.New("group name is required")
	}

	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		log.Printf("[GroupRepository] Database error during group creation: %v", err)
		return nil, errors.New("database error creating group")
	}

	log.Printf("[GroupRepository] Group created successfully with ID: %d", group.ID)
	return group, nil
}

func (r *gormGroupRepository) FindByID(ctx context.Context, id uint) (*domain.Group, error) {
	if id == 0 {
		return nil, errors.New("invalid group ID")
	}

	var group domain.Group
	err := r.db.WithContext(ctx).Preload("Members").First(&group, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		log.Printf("[GroupRepository] Database error during lookup for ID %d: %v", id, err)
		return nil, errors.New("database error finding group")
	}
	return &group, nil
}

func (r *gormGroupRepository) FindByMember(ctx context.Context, userID uint) ([]domain.Group, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var groups []domain.Group
	err := r.db.WithContext(ctx).
		Preload("Members").
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Find(&groups).Error
	if err != nil {
		log.Printf("[GroupRepository] Database error listing groups for user ID %d: %v", userID, err)
		return nil, errors.New("database error listing groups")
	}
	return groups, nil
}

func (r *gormGroupRepository) AddMember(ctx context.Context, groupID, userID uint) (bool, error) {
	group, err := r.FindByID(ctx, groupID)
	if err != nil {
		return false, err
	}
	if group.HasMember(userID) {
		return false, nil
	}

	member := domain.User{ID: userID}
	if err := r.db.WithContext(ctx).Model(group).Association("Members").Append(&member); err != nil {
		log.Printf("[GroupRepository] Database error adding user ID %d to group ID %d: %v", userID, groupID, err)
		return false, errors.New("database error adding group member")
	}
	return true, nil
}

func (r *gormGroupRepository) RemoveMember(ctx context.Context, groupID, userID uint) error {
	group, err := r.FindByID(ctx, groupID)
	if err != nil {
		return err
	}

	member := domain.User{ID: userID}
	if err := r.db.WithContext(ctx).Model(group).Association("Members").Delete(&member); err != nil {
		log.Printf("[GroupRepository] Database error removing user ID %d from group ID %d: %v", userID, groupID, err)
		return errors.New("database error removing group member")
	}
	return nil
}

func (r *gormGroupRepository) Members(ctx context.Context, groupID uint) ([]domain.User, error) {
	group, err := r.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group.Members, nil
}
