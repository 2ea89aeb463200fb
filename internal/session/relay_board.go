package session

import "encoding/json"

// handleWhiteboardDraw relays a stroke to the other connections in the room.
// Whiteboard state is ephemeral; nothing is persisted.
func (h *Hub) handleWhiteboardDraw(conn *Connection, data json.RawMessage) error {
	var p WhiteboardDrawPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	h.broadcast(p.RoomID, EventWhiteboardUpdate, p.DrawData, conn.ID, true)
	return nil
}

// handleCursorPosition relays a board cursor to the other connections in the
// room. Outbound this travels as "cursor-update"; clients expect that name.
func (h *Hub) handleCursorPosition(conn *Connection, data json.RawMessage) error {
	var p CursorPositionPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	h.broadcast(p.RoomID, EventCursorUpdate, CursorPositionData{
		Position: p.Position,
		Username: p.Username,
	}, conn.ID, true)
	return nil
}
