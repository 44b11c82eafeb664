package hub

import (
	"crypto/sha1"
	"encoding/binary"
	"sync"
)

const (
	shardCount = 64 // tune: 16/64/128 depending on load
)

// userBucket holds one shard of the user -> connections index.
type userBucket struct {
	sync.RWMutex
	users map[string]map[string]*Client // userID -> clientID -> client
}

// Registry maps an authenticated user identity to its live connections.
// A user may hold any number of concurrent connections (multiple devices);
// all of them are fan-out targets. Mutations are serialized per shard.
type Registry struct {
	shards [shardCount]*userBucket
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := 0; i < shardCount; i++ {
		r.shards[i] = &userBucket{
			users: make(map[string]map[string]*Client),
		}
	}
	return r
}

func getShard(key string) uint32 {
	if key == "" {
		return 0
	}

	h := sha1.Sum([]byte(key))
	return binary.BigEndian.Uint32(h[:4]) % shardCount
}

// Add registers a connection under its user. Idempotent per client id.
func (r *Registry) Add(c *Client) {
	b := r.shards[getShard(c.userID)]
	b.Lock()
	defer b.Unlock()

	conns, ok := b.users[c.userID]
	if !ok {
		conns = make(map[string]*Client)
		b.users[c.userID] = conns
	}
	conns[c.ID] = c
}

// Remove unregisters a connection. When it was the user's last connection
// the user becomes fully offline. Idempotent.
func (r *Registry) Remove(c *Client) {
	b := r.shards[getShard(c.userID)]
	b.Lock()
	defer b.Unlock()

	conns, ok := b.users[c.userID]
	if !ok {
		return
	}

	delete(conns, c.ID)
	if len(conns) == 0 {
		delete(b.users, c.userID)
	}
}

// ConnectionsFor returns a snapshot of the user's live connections, possibly
// empty. Safe to call concurrently with Add/Remove.
func (r *Registry) ConnectionsFor(userID string) []*Client {
	b := r.shards[getShard(userID)]
	b.RLock()
	defer b.RUnlock()

	conns, ok := b.users[userID]
	if !ok {
		return nil
	}

	out := make([]*Client, 0, len(conns))
	for _, c := range conns {
		out = append(out, c)
	}
	return out
}

// UserOnline reports whether the user has at least one live connection.
func (r *Registry) UserOnline(userID string) bool {
	b := r.shards[getShard(userID)]
	b.RLock()
	defer b.RUnlock()

	return len(b.users[userID]) > 0
}

// Counts returns (total connections, distinct online users).
func (r *Registry) Counts() (int, int) {
	connections, users := 0, 0
	for _, b := range r.shards {
		b.RLock()
		users += len(b.users)
		for _, conns := range b.users {
			connections += len(conns)
		}
		b.RUnlock()
	}
	return connections, users
}

// ForEach visits a snapshot of every live connection.
func (r *Registry) ForEach(fn func(c *Client)) {
	for _, b := range r.shards {
		b.RLock()
		snapshot := make([]*Client, 0)
		for _, conns := range b.users {
			for _, c := range conns {
				snapshot = append(snapshot, c)
			}
		}
		b.RUnlock()

		for _, c := range snapshot {
			fn(c)
		}
	}
}
