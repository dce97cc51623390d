// File: internal/repository/user/gorm_user_repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create - Enhanced with input validation and secure logging
func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.validateUsername(user.Username); err != nil {
		log.Printf("[UserRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[UserRepository] Database error during user creation: %v", err)
		return nil, errors.New("database error creating user")
	}

	log.Printf("[UserRepository] User created successfully with ID: %d", user.ID)
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}

	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := r.validateUsername(username); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindBySocketID(ctx context.Context, socketID string) (*domain.User, error) {
	if socketID == "" {
		return nil, errors.New("invalid socket ID")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("socket_id = ?", socketID).First(&user).Error
	return r.handleFindError(err, &user)
}

// SetPresence - upsert semantics on bind: a connection may arrive before any
// HTTP registration, in which case the user record is created here.
func (r *gormUserRepository) SetPresence(ctx context.Context, username string, online bool, socketID string) (*domain.User, error) {
	if err := r.validateUsername(username); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if !online {
			return nil, ErrUserNotFound
		}
		user = domain.User{Username: username}
	} else if err != nil {
		log.Printf("[UserRepository] Database error looking up %q for presence update: %v", username, err)
		return nil, errors.New("database error updating presence")
	}

	user.Online = online
	user.SocketID = socketID
	user.LastLogin = &now

	if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
		log.Printf("[UserRepository] Database error during presence update for %q: %v", username, err)
		return nil, errors.New("database error updating presence")
	}

	return &user, nil
}

func (r *gormUserRepository) ClearPresenceBySocket(ctx context.Context, socketID string) (*domain.User, error) {
	user, err := r.FindBySocketID(ctx, socketID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.Online = false
	user.SocketID = ""
	user.LastLogin = &now

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		log.Printf("[UserRepository] Database error clearing presence for user ID %d: %v", user.ID, err)
		return nil, errors.New("database error clearing presence")
	}

	return user, nil
}

// FindAll returns every known user in registration order.
func (r *gormUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		log.Printf("[UserRepository] Database error listing users: %v", err)
		return nil, errors.New("database error listing users")
	}
	return users, nil
}

// ===== HELPERS =====

func (r *gormUserRepository) handleFindError(err error, user *domain.User) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] Database error during lookup: %v", err)
		return nil, errors.New("database error finding user")
	}
	return user, nil
}

func (r *gormUserRepository) validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 50 {
		return errors.New("username must be between 3 and 50 characters")
	}
	return nil
}
