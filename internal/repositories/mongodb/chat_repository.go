package mongodb

import (
	"context"
	"errors"
	"fmt"

	"collab-service/internal/database"
	"collab-service/internal/models"
	"collab-service/internal/session"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository implements session.ChatStore over the chats collection: one
// document per room holding the embedded message array.
type ChatRepository struct {
	coll *mongo.Collection
}

func NewChatRepository(db *database.MongoDB) *ChatRepository {
	return &ChatRepository{coll: db.DB.Collection("chats")}
}

func (r *ChatRepository) History(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	var log models.ChatLog
	err := r.coll.FindOne(ctx, bson.M{"roomId": roomID}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("chat log %s: %w", roomID, session.ErrNotFound)
		}
		return nil, fmt.Errorf("find chat log %s: %w", roomID, err)
	}
	return log.Messages, nil
}

func (r *ChatRepository) Append(ctx context.Context, roomID string, msg models.ChatMessage) error {
	// Upsert creates the room's log lazily on the first message.
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$push": bson.M{"messages": msg}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("append to chat log %s: %w", roomID, err)
	}
	return nil
}
