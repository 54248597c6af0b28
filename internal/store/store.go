// Package store is the single point of contact with the shared room
// records. Participants coordinate exclusively through it: there is no
// server-side arbiter, so the write primitives are deliberately narrow —
// a racy create that loses cleanly, a commutative log append, and a
// last-writer-wins replace of whole top-level fields.
package store

import (
	"context"
	"errors"

	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
)

var (
	ErrNotFound        = errors.New("room not found")
	ErrAlreadyExists   = errors.New("room already exists")
	ErrRoomUnavailable = errors.New("room unavailable")
	ErrWriteRejected   = errors.New("write rejected")
)

// Fields names the top-level record fields a write replaces. A nil field
// is untouched; a set field overwrites the stored value wholesale, with
// no merge inside the field. The feed is excluded on purpose: messages
// only ever grow through AppendToLog.
type Fields struct {
	Players       *[]room.Player
	CurrentDrawer *string
	CurrentWord   *string
	Lines         *[]room.Stroke
}

// RoomInfo is the listing view used by matchmaking.
type RoomInfo struct {
	ID        string
	Private   bool
	Occupancy int
	CreatedAt int64
}

// Store reads, writes and watches room records.
//
// Subscribe returns an infinite stream of full snapshots: one delivered
// promptly after the call, then at least one after any change to the
// record. Intermediate states may be skipped when the consumer lags; the
// latest state always eventually arrives. A room that cannot be read at
// subscribe time surfaces ErrNotFound; the channel closes only when ctx
// is done.
type Store interface {
	Read(ctx context.Context, roomID string) (*room.Room, error)
	Create(ctx context.Context, rm *room.Room) error
	AppendToLog(ctx context.Context, roomID string, entry room.LogEntry) error
	ReplaceFields(ctx context.Context, roomID string, fields Fields) error
	Subscribe(ctx context.Context, roomID string) (<-chan *room.Room, error)
	ListRooms(ctx context.Context) ([]RoomInfo, error)
}

// Apply copies the set fields onto rm. Shared between implementations and
// the reconciler's optimistic prediction.
func (f Fields) Apply(rm *room.Room) {
	if f.Players != nil {
		rm.Players = append([]room.Player(nil), (*f.Players)...)
	}
	if f.CurrentDrawer != nil {
		rm.CurrentDrawer = *f.CurrentDrawer
	}
	if f.CurrentWord != nil {
		rm.CurrentWord = *f.CurrentWord
	}
	if f.Lines != nil {
		rm.Lines = append([]room.Stroke(nil), (*f.Lines)...)
	}
}
