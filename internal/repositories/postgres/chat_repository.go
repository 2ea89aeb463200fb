package postgres

import (
	"context"
	"fmt"

	"collab-service/internal/models"
	"collab-service/internal/session"

	"gorm.io/gorm"
)

// ChatRepository implements session.ChatStore on PostgreSQL: one row per
// message, keyed by room id. Lazy log creation is simply the first insert.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) History(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	var rows []chatMessageRow
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("timestamp asc").
		Find(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("load chat log %s: %w", roomID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("chat log %s: %w", roomID, session.ErrNotFound)
	}

	messages := make([]models.ChatMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, models.ChatMessage{
			Sender:    row.Sender,
			Content:   row.Content,
			Timestamp: row.Timestamp,
		})
	}
	return messages, nil
}

func (r *ChatRepository) Append(ctx context.Context, roomID string, msg models.ChatMessage) error {
	row := chatMessageRow{
		RoomID:    roomID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("append to chat log %s: %w", roomID, err)
	}
	return nil
}
