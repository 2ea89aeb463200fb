package session

import (
	"encoding/json"
	"errors"
	"time"
)

// handleJoinDocument binds the connection to a document room and sends the
// current persisted content to the joiner only, so a late joiner starts from
// the latest durable state instead of an empty editor.
func (h *Hub) handleJoinDocument(conn *Connection, data json.RawMessage) error {
	var p JoinDocumentPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	if err := h.join(conn, p.DocumentID, p.Username, RoomTypeDocument); err != nil {
		return err
	}

	go h.sendDocumentSnapshot(conn, p.DocumentID)
	return nil
}

// sendDocumentSnapshot runs off the run loop so a slow store read never
// stalls event processing for other rooms.
func (h *Hub) sendDocumentSnapshot(conn *Connection, documentID string) {
	ctx, cancel := h.storeContext()
	defer cancel()

	doc, err := h.stores.Documents.Get(ctx, documentID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("document snapshot read failed", "documentID", documentID, "error", err)
		}
		// No snapshot event for documents that do not exist yet.
		return
	}

	if err := conn.Send(EventDocumentContent, DocumentContentData{
		Content:   doc.Content,
		UpdatedAt: doc.UpdatedAt,
	}); err != nil {
		h.logger.Warn("snapshot delivery failed", "connID", conn.ID, "error", err)
	}
}

// handleContentChange persists the new content and relays it to every other
// connection in the document room. The persist runs on its own goroutine with
// no version token: the relay completes even when the write fails, and
// concurrent writes land in whatever order the store sees them (last write
// wins).
func (h *Hub) handleContentChange(conn *Connection, data json.RawMessage) error {
	var p ContentChangePayload
	if err := decode(data, &p); err != nil {
		return err
	}

	now := time.Now().UTC()

	go func() {
		ctx, cancel := h.storeContext()
		defer cancel()
		if err := h.stores.Documents.UpdateContent(ctx, p.DocumentID, p.Content, now); err != nil {
			h.logger.Error("content persist failed", "documentID", p.DocumentID, "userID", p.UserID, "error", err)
		}
	}()

	h.broadcast(p.DocumentID, EventContentUpdate, ContentUpdateData{
		Content:   p.Content,
		UserID:    p.UserID,
		Timestamp: now,
	}, conn.ID, true)
	return nil
}

// handleAddComment relays a comment to the whole document room, sender
// included. Comments are not persisted.
func (h *Hub) handleAddComment(conn *Connection, data json.RawMessage) error {
	var p CommentPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	h.broadcast(p.DocumentID, EventCommentAdded, p.Comment, "", true)
	return nil
}

// handleCursorUpdate relays an editor cursor to the other connections in the
// document room. No persistence, no de-duplication, no rate limiting.
func (h *Hub) handleCursorUpdate(conn *Connection, data json.RawMessage) error {
	var p CursorUpdatePayload
	if err := decode(data, &p); err != nil {
		return err
	}

	h.broadcast(p.DocumentID, EventCursorUpdated, CursorUpdatedData{
		Cursor: p.Cursor,
		UserID: p.UserID,
	}, conn.ID, true)
	return nil
}
