package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const storeTimeout = 5 * time.Second

var errInvalidPayload = errors.New("invalid payload")

// Publisher forwards room broadcasts to other server instances. Optional;
// a nil publisher means single-instance operation.
type Publisher interface {
	Publish(ctx context.Context, roomID, event string, data any) error
}

type inbound struct {
	connID string
	env    Envelope
}

type handlerFunc func(conn *Connection, data json.RawMessage) error

// Hub is the session lifecycle controller. It owns the connection registry
// and the room directory, dispatches inbound events to the relay handlers,
// and serializes all membership mutations through its run loop so no two of
// them interleave. Store I/O always runs off-loop on a per-event goroutine,
// so one slow store never stalls event processing for other rooms; writes
// may land out of order, which is the documented last-write-wins behavior.
type Hub struct {
	registry *Registry
	rooms    *Directory
	stores   Stores

	handlers map[string]handlerFunc

	inbound    chan inbound
	unregister chan string

	publisher  Publisher
	instanceID string

	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

func NewHub(stores Stores, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		registry:   NewRegistry(),
		rooms:      NewDirectory(),
		stores:     stores,
		inbound:    make(chan inbound, 64),
		unregister: make(chan string, 64),
		instanceID: uuid.New().String(),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}

	h.handlers = map[string]handlerFunc{
		EventJoinDocument:   h.handleJoinDocument,
		EventJoinRoom:       h.handleJoinRoom,
		EventContentChange:  h.handleContentChange,
		EventAddComment:     h.handleAddComment,
		EventCursorUpdate:   h.handleCursorUpdate,
		EventTaskUpdate:     h.handleTaskUpdate,
		EventSendMessage:    h.handleSendMessage,
		EventWhiteboardDraw: h.handleWhiteboardDraw,
		EventCursorPosition: h.handleCursorPosition,
	}

	return h
}

// InstanceID identifies this hub across the cross-instance bridge.
func (h *Hub) InstanceID() string {
	return h.instanceID
}

// SetPublisher attaches a cross-instance publisher. Must be called before
// Run.
func (h *Hub) SetPublisher(p Publisher) {
	h.publisher = p
}

// Run processes inbound events and disconnects one at a time until Stop.
func (h *Hub) Run() {
	for {
		select {
		case in := <-h.inbound:
			conn, ok := h.registry.Lookup(in.connID)
			if !ok {
				// Connection closed while the event was queued.
				continue
			}
			h.Dispatch(conn, in.env)

		case connID := <-h.unregister:
			h.Disconnect(connID)

		case <-h.ctx.Done():
			h.logger.Info("session hub shutting down")
			return
		}
	}
}

// Stop terminates the run loop.
func (h *Hub) Stop() {
	h.cancel()
}

// Connect registers a freshly opened transport connection and returns its
// session-side record. The connection is in the Connected state: live but
// not yet joined to any room.
func (h *Hub) Connect(sink Sink) *Connection {
	conn := h.registry.Register(uuid.New().String(), sink)
	h.logger.Info("connection opened", "connID", conn.ID)
	return conn
}

// Enqueue hands an inbound envelope to the run loop.
func (h *Hub) Enqueue(connID string, env Envelope) {
	select {
	case h.inbound <- inbound{connID: connID, env: env}:
	case <-h.ctx.Done():
	}
}

// EnqueueDisconnect hands a transport closure to the run loop.
func (h *Hub) EnqueueDisconnect(connID string) {
	select {
	case h.unregister <- connID:
	case <-h.ctx.Done():
	}
}

// Dispatch routes one envelope to its handler. Handler failures are isolated:
// they are logged, reported to the initiating connection as an error event,
// and never touch the registry, the directory, or other rooms.
func (h *Hub) Dispatch(conn *Connection, env Envelope) {
	handler, ok := h.handlers[env.Event]
	if !ok {
		h.sendError(conn, "UNKNOWN_EVENT", fmt.Sprintf("unknown event %q", env.Event))
		return
	}
	if err := handler(conn, env.Data); err != nil {
		h.reportFailure(conn, env.Event, err)
	}
}

// reportFailure logs a failed event and reports it to the initiating
// connection. Shared by Dispatch and the off-loop relay goroutines.
func (h *Hub) reportFailure(conn *Connection, event string, err error) {
	h.logger.Error("event failed", "event", event, "connID", conn.ID, "error", err)
	h.sendError(conn, errorCode(err), err.Error())
}

// Disconnect removes a connection, updates the room directory and notifies
// the remaining members. Safe to call for ids that are already gone.
func (h *Hub) Disconnect(connID string) {
	conn, ok := h.registry.Remove(connID)
	if !ok {
		return
	}
	h.logger.Info("connection closed", "connID", connID, "room", conn.RoomID, "username", conn.Username)

	if !conn.Joined() {
		return
	}

	roster, alive := h.rooms.Leave(conn.RoomID, conn.Username)
	if alive {
		h.broadcast(conn.RoomID, EventActiveUsers, roster, "", false)
	}
	h.broadcast(conn.RoomID, EventUserLeft, conn.Username, conn.ID, false)
}

// Roster exposes the presence roster for the ops endpoints.
func (h *Hub) Roster(roomID string) []string {
	return h.rooms.Roster(roomID)
}

// Occupancy exposes per-room member counts for the ops endpoints.
func (h *Hub) Occupancy() map[string]int {
	return h.rooms.Occupancy()
}

// DeliverRemote fans a bridged event from another instance out to the local
// members of a room. It never republishes.
func (h *Hub) DeliverRemote(roomID, event string, data json.RawMessage) {
	for _, conn := range h.registry.RoomConnections(roomID) {
		if err := conn.Send(event, data); err != nil {
			h.logger.Warn("remote delivery failed", "connID", conn.ID, "event", event, "error", err)
		}
	}
}

// join binds the connection, updates presence and broadcasts the membership
// change: user-joined to the peers, then the full roster to everyone in the
// room including the joiner, so a new client learns the roster immediately.
func (h *Hub) join(conn *Connection, roomID, username string, roomType RoomType) error {
	if _, err := h.registry.Bind(conn.ID, roomID, username, roomType); err != nil {
		return err
	}
	roster := h.rooms.Join(roomID, username)

	h.broadcast(roomID, EventUserJoined, username, conn.ID, false)
	h.broadcast(roomID, EventActiveUsers, roster, "", false)
	h.logger.Info("joined room", "connID", conn.ID, "room", roomID, "username", username, "roomType", roomType)
	return nil
}

// broadcast fans an event out to every connection in the room except
// excludeID. Presence events stay local; relay events also cross the bridge
// when one is attached.
func (h *Hub) broadcast(roomID, event string, data any, excludeID string, publish bool) {
	for _, conn := range h.registry.RoomConnections(roomID) {
		if conn.ID == excludeID {
			continue
		}
		if err := conn.Send(event, data); err != nil {
			h.logger.Warn("delivery failed", "connID", conn.ID, "event", event, "error", err)
		}
	}
	if publish && h.publisher != nil {
		if err := h.publisher.Publish(h.ctx, roomID, event, data); err != nil {
			h.logger.Warn("bridge publish failed", "room", roomID, "event", event, "error", err)
		}
	}
}

func (h *Hub) sendError(conn *Connection, code, message string) {
	if err := conn.Send(EventError, ErrorData{Code: code, Message: message}); err != nil {
		h.logger.Warn("error delivery failed", "connID", conn.ID, "error", err)
	}
}

func (h *Hub) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(h.ctx, storeTimeout)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errInvalidPayload):
		return "INVALID_MESSAGE"
	case errors.Is(err, ErrTaskNotFound):
		return "TASK_NOT_FOUND"
	case errors.Is(err, ErrProjectNotFound):
		return "PROJECT_NOT_FOUND"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnknownConnection):
		return "UNKNOWN_CONNECTION"
	default:
		return "INTERNAL_ERROR"
	}
}

func decode(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}
