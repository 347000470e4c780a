package websocket

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePeer struct {
	id uuid.UUID

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakePeer() *fakePeer { return &fakePeer{id: uuid.New()} }

func (p *fakePeer) ID() uuid.UUID { return p.id }

func (p *fakePeer) Enqueue(frame []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.frames = append(p.frames, frame)
	return true
}

func (p *fakePeer) received() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.frames)
}

// assertConsistent проверяет: соединение в rooms[R] <=> R в joined[соединение]
func assertConsistent(t *testing.T, r *Registry) {
	t.Helper()
	r.mu.RLock()
	defer r.mu.RUnlock()

	for roomID, members := range r.rooms {
		assert.NotEmpty(t, members, "empty room %s kept", roomID)
		for id := range members {
			_, ok := r.joined[id][roomID]
			assert.True(t, ok, "room %s lists %s but connection does not", roomID, id)
		}
	}
	for id, rooms := range r.joined {
		for roomID := range rooms {
			_, ok := r.rooms[roomID][id]
			assert.True(t, ok, "connection %s lists %s but room does not", id, roomID)
		}
	}
}

func memberIDs(peers []Peer) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(peers))
	for _, p := range peers {
		ids = append(ids, p.ID())
	}
	return ids
}

func TestRegistry_JoinLeave(t *testing.T) {
	r := NewRegistry()
	a, b := newFakePeer(), newFakePeer()
	r.Register(a)
	r.Register(b)

	added, err := r.Join(a.id, "R1")
	require.NoError(t, err)
	assert.True(t, added)
	_, err = r.Join(b.id, "R1")
	require.NoError(t, err)
	_, err = r.Join(a.id, "R2")
	require.NoError(t, err)
	assertConsistent(t, r)

	assert.ElementsMatch(t, []uuid.UUID{a.id, b.id}, memberIDs(r.MembersOf("R1")))
	assert.ElementsMatch(t, []string{"R1", "R2"}, r.RoomsOf(a.id))
	assert.True(t, r.IsMember(b.id, "R1"))
	assert.False(t, r.IsMember(b.id, "R2"))

	assert.True(t, r.Leave(a.id, "R2"))
	assertConsistent(t, r)
	_, rooms := r.Counts()
	assert.Equal(t, 1, rooms, "empty room must be evicted")
}

func TestRegistry_Idempotent(t *testing.T) {
	r := NewRegistry()
	a := newFakePeer()
	r.Register(a)

	added, err := r.Join(a.id, "R1")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = r.Join(a.id, "R1")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, r.MembersOf("R1"), 1)

	assert.True(t, r.Leave(a.id, "R1"))
	assert.False(t, r.Leave(a.id, "R1"))
	assert.False(t, r.Leave(uuid.New(), "R1"))
	assert.Empty(t, r.MembersOf("R1"))
	assertConsistent(t, r)
}

func TestRegistry_JoinRequiresRegistration(t *testing.T) {
	r := NewRegistry()

	_, err := r.Join(uuid.New(), "R1")
	assert.ErrorIs(t, err, ErrUnknownConnection)

	a := newFakePeer()
	r.Register(a)
	r.Unregister(a.id)
	_, err = r.Join(a.id, "R1")
	assert.ErrorIs(t, err, ErrUnknownConnection)
	assertConsistent(t, r)
}

func TestRegistry_UnregisterLeavesEveryRoom(t *testing.T) {
	r := NewRegistry()
	a, b := newFakePeer(), newFakePeer()
	r.Register(a)
	r.Register(b)
	for _, room := range []string{"R1", "R2"} {
		_, err := r.Join(a.id, room)
		require.NoError(t, err)
	}
	_, err := r.Join(b.id, "R1")
	require.NoError(t, err)

	left := r.Unregister(a.id)
	assert.ElementsMatch(t, []string{"R1", "R2"}, left)

	assert.NotContains(t, memberIDs(r.MembersOf("R1")), a.id)
	assert.Empty(t, r.MembersOf("R2"))
	_, ok := r.Peer(a.id)
	assert.False(t, ok)
	assertConsistent(t, r)

	conns, rooms := r.Counts()
	assert.Equal(t, 1, conns)
	assert.Equal(t, 1, rooms)
}

func TestRegistry_LeaveAllKeepsRegistration(t *testing.T) {
	r := NewRegistry()
	a := newFakePeer()
	r.Register(a)
	_, err := r.Join(a.id, "R1")
	require.NoError(t, err)

	assert.Equal(t, []string{"R1"}, r.LeaveAll(a.id))
	assert.Empty(t, r.RoomsOf(a.id))
	_, ok := r.Peer(a.id)
	assert.True(t, ok)

	_, err = r.Join(a.id, "R2")
	assert.NoError(t, err)
}

func TestRegistry_MembersOfIsSnapshot(t *testing.T) {
	r := NewRegistry()
	a := newFakePeer()
	r.Register(a)
	_, err := r.Join(a.id, "R1")
	require.NoError(t, err)

	snapshot := r.MembersOf("R1")
	r.Leave(a.id, "R1")

	require.Len(t, snapshot, 1)
	assert.Equal(t, a.id, snapshot[0].ID())
	assert.Empty(t, r.MembersOf("R1"))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	peers := make([]*fakePeer, 16)
	for i := range peers {
		peers[i] = newFakePeer()
		r.Register(peers[i])
	}

	var wg sync.WaitGroup
	for i, p := range peers {
		wg.Add(1)
		go func(i int, p *fakePeer) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				room := fmt.Sprintf("R%d", (i+j)%4)
				_, _ = r.Join(p.id, room)
				_ = r.MembersOf(room)
				if j%3 == 0 {
					r.Leave(p.id, room)
				}
			}
			if i%2 == 0 {
				r.Unregister(p.id)
			}
		}(i, p)
	}
	wg.Wait()

	assertConsistent(t, r)
	for i, p := range peers {
		if i%2 == 0 {
			assert.Empty(t, r.RoomsOf(p.id))
			for room := 0; room < 4; room++ {
				assert.False(t, r.IsMember(p.id, fmt.Sprintf("R%d", room)))
			}
		}
	}
}
