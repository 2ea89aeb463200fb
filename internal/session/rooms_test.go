package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinReturnsRoster(t *testing.T) {
	d := NewDirectory()

	roster := d.Join("room1", "alice")
	assert.Equal(t, []string{"alice"}, roster)

	roster = d.Join("room1", "bob")
	assert.ElementsMatch(t, []string{"alice", "bob"}, roster)
}

func TestDuplicateJoinDoesNotDuplicatePresence(t *testing.T) {
	d := NewDirectory()

	d.Join("room1", "alice")
	roster := d.Join("room1", "alice")

	assert.Equal(t, []string{"alice"}, roster)
}

func TestLeaveRemovesName(t *testing.T) {
	d := NewDirectory()
	d.Join("room1", "alice")
	d.Join("room1", "bob")

	roster, ok := d.Leave("room1", "alice")
	require.True(t, ok)
	assert.Equal(t, []string{"bob"}, roster)
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	d := NewDirectory()
	d.Join("room1", "alice")

	roster, ok := d.Leave("room1", "alice")
	assert.False(t, ok)
	assert.Nil(t, roster)
	assert.Empty(t, d.Occupancy())
}

func TestRejoinAfterLastLeaveStartsFresh(t *testing.T) {
	d := NewDirectory()
	d.Join("room1", "alice")
	d.Join("room1", "bob")
	d.Leave("room1", "alice")
	d.Leave("room1", "bob")

	roster := d.Join("room1", "carol")
	assert.Equal(t, []string{"carol"}, roster)
}

func TestLeaveUnknownRoomIsNoop(t *testing.T) {
	d := NewDirectory()

	roster, ok := d.Leave("nope", "alice")
	assert.False(t, ok)
	assert.Nil(t, roster)
}

func TestRosterOfUnknownRoomIsEmpty(t *testing.T) {
	d := NewDirectory()
	assert.Equal(t, []string{}, d.Roster("nope"))
}

func TestEmptyUsernameIsAccepted(t *testing.T) {
	// Unvalidated joins are inherited behavior: the directory accepts an
	// empty display name and tracks it like any other.
	d := NewDirectory()

	roster := d.Join("room1", "")
	assert.Equal(t, []string{""}, roster)

	_, ok := d.Leave("room1", "")
	assert.False(t, ok)
}

func TestOccupancyCounts(t *testing.T) {
	d := NewDirectory()
	d.Join("room1", "alice")
	d.Join("room1", "bob")
	d.Join("room2", "carol")

	assert.Equal(t, map[string]int{"room1": 2, "room2": 1}, d.Occupancy())
}
