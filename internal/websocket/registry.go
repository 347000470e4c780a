package websocket

import (
	"sync"

	"github.com/google/uuid"
)

// Peer получатель кадров, зарегистрированный в Registry
type Peer interface {
	ID() uuid.UUID
	// Enqueue не блокирует. false означает, что соединение уже закрыто.
	Enqueue(frame []byte) bool
}

// Registry комнаты и их участники. Обе стороны связи (комната -> соединения и
// соединение -> комнаты) меняются под одним мьютексом, поэтому соединение в
// rooms[R] тогда и только тогда, когда R в joined[соединение].
type Registry struct {
	mu     sync.RWMutex
	peers  map[uuid.UUID]Peer
	rooms  map[string]map[uuid.UUID]struct{}
	joined map[uuid.UUID]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		peers:  make(map[uuid.UUID]Peer),
		rooms:  make(map[string]map[uuid.UUID]struct{}),
		joined: make(map[uuid.UUID]map[string]struct{}),
	}
}

// Register добавляет соединение. Повторная регистрация заменяет Peer.
func (r *Registry) Register(p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.peers[p.ID()] = p
	if _, ok := r.joined[p.ID()]; !ok {
		r.joined[p.ID()] = make(map[string]struct{})
	}
}

// Unregister выводит соединение из всех комнат и забывает его.
// Возвращает комнаты, которые оно покинуло.
func (r *Registry) Unregister(id uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	left := r.leaveAllLocked(id)
	delete(r.peers, id)
	delete(r.joined, id)
	return left
}

// Join идемпотентен. Возвращает true, если соединение вошло в комнату сейчас.
func (r *Registry) Join(id uuid.UUID, roomID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms, ok := r.joined[id]
	if !ok {
		return false, ErrUnknownConnection
	}
	if _, already := rooms[roomID]; already {
		return false, nil
	}

	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[uuid.UUID]struct{})
		r.rooms[roomID] = members
	}
	members[id] = struct{}{}
	rooms[roomID] = struct{}{}
	return true, nil
}

// Leave идемпотентен, в том числе для незарегистрированного соединения
func (r *Registry) Leave(id uuid.UUID, roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.leaveLocked(id, roomID)
}

// LeaveAll выводит соединение из всех комнат, оставляя его зарегистрированным
func (r *Registry) LeaveAll(id uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.leaveAllLocked(id)
}

func (r *Registry) leaveAllLocked(id uuid.UUID) []string {
	rooms := r.joined[id]
	left := make([]string, 0, len(rooms))
	for roomID := range rooms {
		if r.leaveLocked(id, roomID) {
			left = append(left, roomID)
		}
	}
	return left
}

func (r *Registry) leaveLocked(id uuid.UUID, roomID string) bool {
	rooms, ok := r.joined[id]
	if !ok {
		return false
	}
	if _, in := rooms[roomID]; !in {
		return false
	}

	delete(rooms, roomID)
	if members, ok := r.rooms[roomID]; ok {
		delete(members, id)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
	return true
}

// MembersOf снимок участников комнаты. Срез принадлежит вызывающему.
func (r *Registry) MembersOf(roomID string) []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[roomID]
	out := make([]Peer, 0, len(members))
	for id := range members {
		if p, ok := r.peers[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) IsMember(id uuid.UUID, roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[roomID][id]
	return ok
}

// RoomsOf снимок комнат соединения
func (r *Registry) RoomsOf(id uuid.UUID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := r.joined[id]
	out := make([]string, 0, len(rooms))
	for roomID := range rooms {
		out = append(out, roomID)
	}
	return out
}

func (r *Registry) Peer(id uuid.UUID) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.peers[id]
	return p, ok
}

// Counts число зарегистрированных соединений и непустых комнат
func (r *Registry) Counts() (connections, rooms int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.peers), len(r.rooms)
}
