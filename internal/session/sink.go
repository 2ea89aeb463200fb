package session

// Sink is the outbound half of a connection: anything capable of delivering
// a named event to one participant. The websocket client implements it; tests
// substitute in-memory recorders. Send must be safe for concurrent use and
// must never block the caller indefinitely.
type Sink interface {
	Send(event string, data any) error
}
