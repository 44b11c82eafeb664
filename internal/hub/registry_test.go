package hub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistry_AddRemove(t *testing.T) {
	req := require.New(t)
	h := NewHub(newFakeConversations(), zap.NewNop(), nil)
	t.Cleanup(h.Stop)
	r := h.Registry()

	t.Run("unknown user yields no connections", func(t *testing.T) {
		req.Empty(r.ConnectionsFor("nobody"))
		req.False(r.UserOnline("nobody"))
	})

	t.Run("a user may hold multiple connections", func(t *testing.T) {
		c1 := newClient("alice", nil, h)
		c2 := newClient("alice", nil, h)
		r.Add(c1)
		r.Add(c2)

		conns := r.ConnectionsFor("alice")
		req.Len(conns, 2)
		req.True(r.UserOnline("alice"))

		total, users := r.Counts()
		req.Equal(2, total)
		req.Equal(1, users)
	})

	t.Run("removing the last connection takes the user offline", func(t *testing.T) {
		c := newClient("bob", nil, h)
		r.Add(c)
		req.True(r.UserOnline("bob"))

		r.Remove(c)
		req.False(r.UserOnline("bob"))
		req.Empty(r.ConnectionsFor("bob"))

		// Remove is idempotent
		r.Remove(c)
		req.False(r.UserOnline("bob"))
	})
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	req := require.New(t)
	h := NewHub(newFakeConversations(), zap.NewNop(), nil)
	t.Cleanup(h.Stop)
	r := h.Registry()

	const perUser = 50
	users := []string{"alice", "bob", "carol"}

	var wg sync.WaitGroup
	for _, userID := range users {
		for i := 0; i < perUser; i++ {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()

				c := newClient(userID, nil, h)
				r.Add(c)
				_ = r.ConnectionsFor(userID)
				r.Remove(c)
			}(userID)
		}
	}
	wg.Wait()

	total, usersOnline := r.Counts()
	req.Zero(total)
	req.Zero(usersOnline)
}
