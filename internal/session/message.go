package session

import (
	"encoding/json"
	"time"

	"collab-service/internal/models"
)

// Inbound event names. These are part of the wire contract with the web
// client and must not change.
const (
	EventJoinDocument   = "join-document"
	EventJoinRoom       = "join-room"
	EventContentChange  = "content-change"
	EventAddComment     = "add-comment"
	EventCursorUpdate   = "cursor-update"
	EventTaskUpdate     = "task-update"
	EventSendMessage    = "send-message"
	EventWhiteboardDraw = "whiteboard-draw"
	EventCursorPosition = "cursor-position"
)

// Outbound event names. "cursor-update" doubles as the outbound name for
// relayed cursor-position events; clients listen for that name on both.
const (
	EventUserJoined       = "user-joined"
	EventUserLeft         = "user-left"
	EventActiveUsers      = "active-users"
	EventDocumentContent  = "document-content"
	EventContentUpdate    = "content-update"
	EventCommentAdded     = "comment-added"
	EventCursorUpdated    = "cursor-updated"
	EventTaskUpdated      = "task-updated"
	EventChatHistory      = "chat-history"
	EventNewMessage       = "new-message"
	EventWhiteboardUpdate = "whiteboard-update"
	EventError            = "error"
)

// Envelope is the wire frame for both directions: a named event plus its
// payload. Inbound payloads stay raw until the matching handler decodes them.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound payloads. Field names use the camelCase keys the clients send.

type JoinDocumentPayload struct {
	DocumentID string `json:"documentId"`
	Username   string `json:"username"`
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	RoomType string `json:"roomType"`
}

type ContentChangePayload struct {
	DocumentID string `json:"documentId"`
	Content    string `json:"content"`
	UserID     string `json:"userId"`
}

type CommentPayload struct {
	DocumentID string          `json:"documentId"`
	Comment    json.RawMessage `json:"comment"`
}

type CursorUpdatePayload struct {
	DocumentID string          `json:"documentId"`
	Cursor     json.RawMessage `json:"cursor"`
	UserID     string          `json:"userId"`
}

type TaskUpdatePayload struct {
	ProjectID string         `json:"projectId"`
	TaskID    string         `json:"taskId"`
	Updates   map[string]any `json:"updates"`
}

type SendMessagePayload struct {
	RoomID  string             `json:"roomId"`
	Message models.ChatMessage `json:"message"`
}

type WhiteboardDrawPayload struct {
	RoomID   string          `json:"roomId"`
	DrawData json.RawMessage `json:"drawData"`
}

type CursorPositionPayload struct {
	RoomID   string          `json:"roomId"`
	Position json.RawMessage `json:"position"`
	Username string          `json:"username"`
}

// Outbound payloads.

type DocumentContentData struct {
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ContentUpdateData struct {
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type CursorUpdatedData struct {
	Cursor json.RawMessage `json:"cursor"`
	UserID string          `json:"userId"`
}

type TaskUpdatedData struct {
	TaskID  string         `json:"taskId"`
	Updates map[string]any `json:"updates"`
}

type CursorPositionData struct {
	Position json.RawMessage `json:"position"`
	Username string          `json:"username"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
