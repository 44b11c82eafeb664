package hub

import "sync"

// typingState is the per (room, user) ephemeral typing machine: Idle until a
// joined connection signals typing, Idle again on an explicit stop or when
// the signalling connection disconnects with no other joined connection of
// that user left in the room. Nothing here is persisted and there are no
// timers; clients own the stop signal.
type typingState struct {
	mu     sync.Mutex
	byRoom map[string]map[string]string // roomID -> userID -> signalling clientID
}

func newTypingState() *typingState {
	return &typingState{
		byRoom: make(map[string]map[string]string),
	}
}

// start records (room, user) as Typing, attributed to clientID.
func (t *typingState) start(roomID, userID, clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	room, ok := t.byRoom[roomID]
	if !ok {
		room = make(map[string]string)
		t.byRoom[roomID] = room
	}
	room[userID] = clientID
}

// stop resets (room, user) to Idle. Idempotent.
func (t *typingState) stop(roomID, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearLocked(roomID, userID)
}

// typingClient returns the clientID currently attributed with typing for
// (room, user), or "" when Idle.
func (t *typingState) typingClient(roomID, userID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.byRoom[roomID][userID]
}

func (t *typingState) clearLocked(roomID, userID string) {
	room, ok := t.byRoom[roomID]
	if !ok {
		return
	}
	delete(room, userID)
	if len(room) == 0 {
		delete(t.byRoom, roomID)
	}
}

// count returns the number of (room, user) pairs currently typing.
func (t *typingState) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, room := range t.byRoom {
		n += len(room)
	}
	return n
}

// clientLeft handles a connection leaving one room, either explicitly or as
// part of disconnect. It reports whether an implicit typing-stopped must be
// broadcast: only when this exact connection held the typing state and the
// user has no other joined connection in the room.
func (t *typingState) clientLeftCheck(c *Client, roomID string, stillJoined bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.byRoom[roomID][c.userID] != c.ID {
		return false
	}
	if stillJoined {
		return false
	}

	t.clearLocked(roomID, c.userID)
	return true
}
