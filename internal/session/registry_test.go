package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullSink struct{}

func (nullSink) Send(string, any) error { return nil }

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	conn := r.Register("c1", nullSink{})
	require.NotNil(t, conn)
	assert.False(t, conn.Joined())

	got, ok := r.Lookup("c1")
	require.True(t, ok)
	assert.Same(t, conn, got)
}

func TestBindUnknownConnection(t *testing.T) {
	r := NewRegistry()

	_, err := r.Bind("nope", "room1", "alice", RoomTypeChat)
	assert.ErrorIs(t, err, ErrUnknownConnection)
}

func TestBindAddsToFanoutSet(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", nullSink{})
	r.Register("c2", nullSink{})

	_, err := r.Bind("c1", "room1", "alice", RoomTypeDocument)
	require.NoError(t, err)
	_, err = r.Bind("c2", "room1", "bob", RoomTypeDocument)
	require.NoError(t, err)

	assert.Len(t, r.RoomConnections("room1"), 2)
}

func TestRebindMovesFanoutSet(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", nullSink{})

	_, err := r.Bind("c1", "room1", "alice", RoomTypeDocument)
	require.NoError(t, err)
	_, err = r.Bind("c1", "room2", "alice", RoomTypeDocument)
	require.NoError(t, err)

	assert.Empty(t, r.RoomConnections("room1"))
	assert.Len(t, r.RoomConnections("room2"), 1)

	conn, _ := r.Lookup("c1")
	assert.Equal(t, "room2", conn.RoomID)
}

func TestRemoveReturnsLastBinding(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", nullSink{})
	_, err := r.Bind("c1", "room1", "alice", RoomTypeChat)
	require.NoError(t, err)

	conn, ok := r.Remove("c1")
	require.True(t, ok)
	assert.Equal(t, "room1", conn.RoomID)
	assert.Equal(t, "alice", conn.Username)
	assert.Empty(t, r.RoomConnections("room1"))
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", nullSink{})

	_, ok := r.Remove("c1")
	require.True(t, ok)

	conn, ok := r.Remove("c1")
	assert.False(t, ok)
	assert.Nil(t, conn)
	assert.Zero(t, r.Len())
}
