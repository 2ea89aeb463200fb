package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collab-service/internal/models"
	"collab-service/internal/session"

	"gorm.io/gorm"
)

// DocumentRepository implements session.DocumentStore on PostgreSQL. The
// update is an unconditional overwrite, matching the MongoDB adapter.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Get(ctx context.Context, documentID string) (*models.Document, error) {
	var row documentRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", documentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", documentID, session.ErrNotFound)
		}
		return nil, fmt.Errorf("find document %s: %w", documentID, err)
	}
	return &models.Document{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (r *DocumentRepository) UpdateContent(ctx context.Context, documentID, content string, updatedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&documentRow{}).
		Where("id = ?", documentID).
		Updates(map[string]any{"content": content, "updated_at": updatedAt}).
		Error
	if err != nil {
		return fmt.Errorf("update document %s: %w", documentID, err)
	}
	return nil
}
