package session

import (
	"sort"
	"sync"
)

// Directory tracks which display names are present in which room. It stores
// names only, never connection handles, so a closing connection can never
// leave a dangling reference here. Rooms are created lazily on first join and
// deleted in the same step that removes the last member.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]map[string]struct{})}
}

// Join adds a name to a room and returns the resulting roster. Membership is
// a set: a duplicate join from the same name does not duplicate presence.
// Names are not validated; an empty name joins like any other.
func (d *Directory) Join(roomID, username string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, ok := d.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		d.rooms[roomID] = members
	}
	members[username] = struct{}{}
	return rosterOf(members)
}

// Leave removes a name from a room. When the last member leaves, the room
// entry is deleted and ok is false so the caller knows not to broadcast a
// roster for a room that no longer exists.
func (d *Directory) Leave(roomID, username string) (roster []string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, exists := d.rooms[roomID]
	if !exists {
		return nil, false
	}
	delete(members, username)
	if len(members) == 0 {
		delete(d.rooms, roomID)
		return nil, false
	}
	return rosterOf(members), true
}

// Roster returns the current presence roster for a room.
func (d *Directory) Roster(roomID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members, ok := d.rooms[roomID]
	if !ok {
		return []string{}
	}
	return rosterOf(members)
}

// Occupancy returns the member count per room.
func (d *Directory) Occupancy() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	counts := make(map[string]int, len(d.rooms))
	for roomID, members := range d.rooms {
		counts[roomID] = len(members)
	}
	return counts
}

// rosterOf derives a fresh, sorted roster from a membership set. The roster
// is recomputed on every call and never cached, so it cannot go stale.
func rosterOf(members map[string]struct{}) []string {
	roster := make([]string, 0, len(members))
	for name := range members {
		roster = append(roster, name)
	}
	sort.Strings(roster)
	return roster
}
