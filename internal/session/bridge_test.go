package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"collab-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	rooms  []string
}

func (p *fakePublisher) Publish(_ context.Context, roomID, event string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Event: event, Data: data})
	p.rooms = append(p.rooms, roomID)
	return nil
}

func (p *fakePublisher) published() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

func TestRelayEventsCrossTheBridge(t *testing.T) {
	env := newTestEnv(t)
	pub := &fakePublisher{}
	env.hub.SetPublisher(pub)
	env.docs.docs["doc1"] = &models.Document{ID: "doc1"}

	alice := &fakeSink{}
	aliceConn := env.hub.Connect(alice)
	env.joinDocument(t, aliceConn, "doc1", "alice")

	// Presence stays local: joining publishes nothing.
	assert.Empty(t, pub.published())

	env.dispatch(t, aliceConn, EventContentChange, ContentChangePayload{
		DocumentID: "doc1",
		Content:    "<p>x</p>",
		UserID:     "alice",
	})

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, EventContentUpdate, events[0].Event)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, []string{"doc1"}, pub.rooms)
}

func TestDeliverRemoteReachesAllLocalMembers(t *testing.T) {
	env := newTestEnv(t)

	alice, bob := &fakeSink{}, &fakeSink{}
	aliceConn := env.hub.Connect(alice)
	bobConn := env.hub.Connect(bob)
	env.joinRoom(t, aliceConn, "r1", "alice", "chat")
	env.joinRoom(t, bobConn, "r1", "bob", "chat")

	env.hub.DeliverRemote("r1", EventNewMessage, json.RawMessage(`{"sender":"carol","content":"hi"}`))

	// Remote events have no local sender to exclude.
	assert.Equal(t, 1, alice.count(EventNewMessage))
	assert.Equal(t, 1, bob.count(EventNewMessage))
}
