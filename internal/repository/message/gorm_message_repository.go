// File: internal/repository/message/gorm_message_repository.go
package message

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/HaswanthR-CIT/ECHO/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg.Sender == "" {
		return nil, errors.New("message sender is required")
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message creation: %v", err)
		return nil, errors.New("database error creating message")
	}
	return msg, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	if id == 0 {
		return nil, errors.New("invalid message ID")
	}

	var msg domain.Message
	err := r.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] Database error during lookup for ID %d: %v", id, err)
		return nil, errors.New("database error finding message")
	}
	return &msg, nil
}

func (r *gormMessageRepository) Update(ctx context.Context, msg *domain.Message) error {
	if msg.ID == 0 {
		return errors.New("invalid message ID")
	}

	if err := r.db.WithContext(ctx).Save(msg).Error; err != nil {
		log.Printf("[MessageRepository] Database error during message update for ID %d: %v", msg.ID, err)
		return errors.New("database error updating message")
	}
	return nil
}

func (r *gormMessageRepository) FindForUser(ctx context.Context, username string) ([]domain.Message, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("group_id IS NULL AND (sender = ? OR receiver = ?)", username, username).
		Order("timestamp").
		Find(&msgs).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error listing messages for %q: %v", username, err)
		return nil, errors.New("database error listing messages")
	}
	return msgs, nil
}

func (r *gormMessageRepository) FindBetween(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	if userA == "" || userB == "" {
		return nil, errors.New("both usernames are required")
	}

	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("group_id IS NULL AND ((sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?))",
			userA, userB, userB, userA).
		Order("timestamp").
		Find(&msgs).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error listing conversation %q/%q: %v", userA, userB, err)
		return nil, errors.New("database error listing messages")
	}
	return msgs, nil
}

func (r *gormMessageRepository) FindForGroup(ctx context.Context, groupID uint) ([]domain.Message, error) {
	if groupID == 0 {
		return nil, errors.New("invalid group ID")
	}

	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("timestamp").
		Find(&msgs).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error listing messages for group ID %d: %v", groupID, err)
		return nil, errors.New("database error listing messages")
	}
	return msgs, nil
}
