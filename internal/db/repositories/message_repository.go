package repositories

import (
	"context"
	"fmt"
	"time"

	gormModels "github.com/cpenseur/CSIT314-Null/internal/models/gorm"

	"gorm.io/gorm"
)

// MessageRepository stores per-request chat lines. Whether the request
// is in a state that allows chatting is the chat service's call; rows
// already written remain readable history forever.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new GORM-based message repository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends one chat line.
func (r *MessageRepository) Create(ctx context.Context, msg *gormModels.Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	if err := checkStruct(msg); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkEngagementRefs(tx, msg.RequestID, msg.SenderID, "sender_id"); err != nil {
			return err
		}
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("failed to store message: %w", err)
		}
		return nil
	})
}

// ListByRequest retrieves a request's chat in send order.
func (r *MessageRepository) ListByRequest(ctx context.Context, requestID string) ([]gormModels.Message, error) {
	var msgs []gormModels.Message

	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("sent_at ASC").
		Find(&msgs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return msgs, nil
}
