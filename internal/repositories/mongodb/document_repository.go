package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collab-service/internal/database"
	"collab-service/internal/models"
	"collab-service/internal/session"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DocumentRepository implements session.DocumentStore over the documents
// collection. Content updates are unconditional overwrites: no concurrency
// token is checked, so the last write to arrive is the one retained.
type DocumentRepository struct {
	coll *mongo.Collection
}

func NewDocumentRepository(db *database.MongoDB) *DocumentRepository {
	return &DocumentRepository{coll: db.DB.Collection("documents")}
}

func (r *DocumentRepository) Get(ctx context.Context, documentID string) (*models.Document, error) {
	var doc models.Document
	err := r.coll.FindOne(ctx, bson.M{"_id": documentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("document %s: %w", documentID, session.ErrNotFound)
		}
		return nil, fmt.Errorf("find document %s: %w", documentID, err)
	}
	return &doc, nil
}

func (r *DocumentRepository) UpdateContent(ctx context.Context, documentID, content string, updatedAt time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": documentID},
		bson.M{"$set": bson.M{"content": content, "updatedAt": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("update document %s: %w", documentID, err)
	}
	// A missing document is not an error here: the write is skipped and the
	// broadcast proceeds regardless.
	return nil
}
