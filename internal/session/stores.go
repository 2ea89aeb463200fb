package session

import (
	"context"
	"errors"
	"time"

	"collab-service/internal/models"
)

// ErrNotFound is returned by store adapters when the requested entity does
// not exist. Adapters wrap it so callers can match with errors.Is.
var ErrNotFound = errors.New("not found")

var (
	ErrUnknownConnection = errors.New("unknown connection")
	ErrTaskNotFound      = errors.New("task not found")
	ErrProjectNotFound   = errors.New("project not found")
)

// DocumentStore is the external document storage consumed by the document
// relay. Updates are unconditional overwrites; no concurrency token exists.
type DocumentStore interface {
	Get(ctx context.Context, documentID string) (*models.Document, error)
	UpdateContent(ctx context.Context, documentID, content string, updatedAt time.Time) error
}

// ChatStore is the external per-room message log. Append creates the log
// lazily on the first message.
type ChatStore interface {
	History(ctx context.Context, roomID string) ([]models.ChatMessage, error)
	Append(ctx context.Context, roomID string, msg models.ChatMessage) error
}

// ProjectStore reads and replaces whole project aggregates.
type ProjectStore interface {
	Get(ctx context.Context, projectID string) (*models.Project, error)
	Replace(ctx context.Context, project *models.Project) error
}

// Stores bundles the external collaborators the relays write through to.
type Stores struct {
	Documents DocumentStore
	Chats     ChatStore
	Projects  ProjectStore
}
