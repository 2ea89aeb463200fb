package session

import "sync"

// RoomType categorizes a room for store lookups and chat-log handling.
type RoomType string

const (
	RoomTypeDocument   RoomType = "document"
	RoomTypeChat       RoomType = "chat"
	RoomTypeProject    RoomType = "project"
	RoomTypeWhiteboard RoomType = "whiteboard"
)

// Connection is one live transport connection and its current room binding.
// Owned exclusively by the Registry; the room directory never sees it.
type Connection struct {
	ID       string
	RoomID   string
	Username string
	RoomType RoomType

	sink Sink
}

// Joined reports whether the connection has been bound to a room.
func (c *Connection) Joined() bool {
	return c.RoomID != ""
}

// Send delivers an outbound event through the connection's sink.
func (c *Connection) Send(event string, data any) error {
	return c.sink.Send(event, data)
}

// Registry maps connection ids to their room bindings and keeps a per-room
// index of sinks for broadcast fan-out. Connection identifiers are assigned
// by the transport layer and assumed unique among live connections.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	byRoom map[string]map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{
		conns:  make(map[string]*Connection),
		byRoom: make(map[string]map[string]*Connection),
	}
}

// Register creates a Connection for a freshly opened transport connection.
// The connection is not yet in any room.
func (r *Registry) Register(id string, sink Sink) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := &Connection{ID: id, sink: sink}
	r.conns[id] = conn
	return conn
}

// Bind attaches a registered connection to a room. Rebinding a connection
// that is already in a room moves it: the sink leaves the old room's fan-out
// set, so a connection only ever receives events for one room.
func (r *Registry) Bind(id, roomID, username string, roomType RoomType) (*Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[id]
	if !ok {
		return nil, ErrUnknownConnection
	}

	if conn.RoomID != "" && conn.RoomID != roomID {
		r.dropFromRoom(conn)
	}

	conn.RoomID = roomID
	conn.Username = username
	conn.RoomType = roomType

	if r.byRoom[roomID] == nil {
		r.byRoom[roomID] = make(map[string]*Connection)
	}
	r.byRoom[roomID][id] = conn
	return conn, nil
}

// Lookup returns the connection with the given id, if it is still live.
func (r *Registry) Lookup(id string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[id]
	return conn, ok
}

// Remove drops a connection and returns its last-known binding so the caller
// can clean up the room directory exactly once. Removing an id twice is a
// no-op reporting false.
func (r *Registry) Remove(id string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	delete(r.conns, id)
	r.dropFromRoom(conn)
	return conn, true
}

// RoomConnections snapshots the fan-out set for a room.
func (r *Registry) RoomConnections(roomID string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Connection, 0, len(r.byRoom[roomID]))
	for _, conn := range r.byRoom[roomID] {
		conns = append(conns, conn)
	}
	return conns
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// caller must hold r.mu
func (r *Registry) dropFromRoom(conn *Connection) {
	if conn.RoomID == "" {
		return
	}
	if members, ok := r.byRoom[conn.RoomID]; ok {
		delete(members, conn.ID)
		if len(members) == 0 {
			delete(r.byRoom, conn.RoomID)
		}
	}
}
