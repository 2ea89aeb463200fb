package session

import (
	"encoding/json"
	"errors"
	"time"
)

// handleJoinRoom binds the connection to a chat, project or whiteboard room
// and replays the room's durable message log to the joiner when one exists.
func (h *Hub) handleJoinRoom(conn *Connection, data json.RawMessage) error {
	var p JoinRoomPayload
	if err := decode(data, &p); err != nil {
		return err
	}

	roomType := RoomType(p.RoomType)
	if roomType == "" {
		roomType = RoomTypeChat
	}

	if err := h.join(conn, p.RoomID, p.Username, roomType); err != nil {
		return err
	}

	go h.replayChatHistory(conn, p.RoomID)
	return nil
}

// replayChatHistory runs off the run loop so a slow history read never
// stalls event processing for other rooms.
func (h *Hub) replayChatHistory(conn *Connection, roomID string) {
	ctx, cancel := h.storeContext()
	defer cancel()

	messages, err := h.stores.Chats.History(ctx, roomID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("chat history read failed", "room", roomID, "error", err)
		}
		return
	}

	if err := conn.Send(EventChatHistory, messages); err != nil {
		h.logger.Warn("chat history delivery failed", "connID", conn.ID, "error", err)
	}
}

// handleSendMessage appends the message to the room's durable log and relays
// it to the entire room, sender included: chat senders expect their own
// message echoed back as confirmation of delivery order. The append and the
// broadcast run together off the run loop; within one message the append
// still settles first, and a failed append is logged while the relay
// proceeds.
func (h *Hub) handleSendMessage(conn *Connection, data json.RawMessage) error {
	var p SendMessagePayload
	if err := decode(data, &p); err != nil {
		return err
	}

	if p.Message.Timestamp.IsZero() {
		p.Message.Timestamp = time.Now().UTC()
	}

	go func() {
		ctx, cancel := h.storeContext()
		defer cancel()
		if err := h.stores.Chats.Append(ctx, p.RoomID, p.Message); err != nil {
			h.logger.Error("chat append failed", "room", p.RoomID, "error", err)
		}
		h.broadcast(p.RoomID, EventNewMessage, p.Message, "", true)
	}()
	return nil
}
