package store

import (
	"context"
	"sync"

	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
)

// Memory is a process-local Store. It backs tests and single-instance
// deployments; the mutex below plays the role the durable store's own
// serialization plays in production.
type Memory struct {
	mu    sync.RWMutex
	rooms map[string]*memoryRoom
}

type memoryRoom struct {
	doc  room.Room
	subs map[chan *room.Room]struct{}
}

func NewMemory() *Memory {
	return &Memory{rooms: make(map[string]*memoryRoom)}
}

func (m *Memory) Read(_ context.Context, roomID string) (*room.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mr, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return mr.doc.Clone(), nil
}

func (m *Memory) Create(_ context.Context, rm *room.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[rm.ID]; ok {
		return ErrAlreadyExists
	}
	m.rooms[rm.ID] = &memoryRoom{
		doc:  *rm.Clone(),
		subs: make(map[chan *room.Room]struct{}),
	}
	return nil
}

func (m *Memory) AppendToLog(_ context.Context, roomID string, entry room.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mr, ok := m.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	mr.doc.Messages = append(mr.doc.Messages, entry)
	mr.notify()
	return nil
}

func (m *Memory) ReplaceFields(_ context.Context, roomID string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mr, ok := m.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	fields.Apply(&mr.doc)
	mr.notify()
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, roomID string) (<-chan *room.Room, error) {
	m.mu.Lock()
	mr, ok := m.rooms[roomID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	ch := make(chan *room.Room, 8)
	mr.subs[ch] = struct{}{}
	ch <- mr.doc.Clone()
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		if _, still := mr.subs[ch]; still {
			delete(mr.subs, ch)
			close(ch)
		}
		m.mu.Unlock()
	}()
	return ch, nil
}

func (m *Memory) ListRooms(_ context.Context) ([]RoomInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]RoomInfo, 0, len(m.rooms))
	for _, mr := range m.rooms {
		infos = append(infos, RoomInfo{
			ID:        mr.doc.ID,
			Private:   mr.doc.Private,
			Occupancy: len(mr.doc.Players),
			CreatedAt: mr.doc.CreatedAt,
		})
	}
	return infos, nil
}

// notify pushes the current snapshot to every subscriber. A lagging
// subscriber has its oldest pending snapshot evicted so the newest state
// still gets through. Caller holds m.mu.
func (mr *memoryRoom) notify() {
	snap := mr.doc.Clone()
	for ch := range mr.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
