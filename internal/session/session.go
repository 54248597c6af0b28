// Package session runs one participant's view of a room: the
// authoritative snapshot stream folded together with the small optimistic
// overlay (the in-flight stroke, the just-sent guesses) that has not been
// acknowledged yet.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/Peppermint995/Scrbbl-Clone/internal/canvas"
	"github.com/Peppermint995/Scrbbl-Clone/internal/game"
	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
	"github.com/Peppermint995/Scrbbl-Clone/internal/store"
	"github.com/Peppermint995/Scrbbl-Clone/logger"
)

type Session struct {
	store    store.Store
	roomID   string
	playerID string

	mu      sync.RWMutex
	latest  *room.Room
	pending []room.LogEntry
	buf     *canvas.Buffer

	updates chan struct{}
}

// New starts from the given snapshot; Run keeps it current afterwards.
func New(s store.Store, initial *room.Room, playerID string) *Session {
	return &Session{
		store:    s,
		roomID:   initial.ID,
		playerID: playerID,
		latest:   initial.Clone(),
		buf:      canvas.NewBuffer(1, 1),
		updates:  make(chan struct{}, 1),
	}
}

// Run consumes the subscription stream until ctx ends. Every inbound
// snapshot unconditionally replaces local room state; only the overlay
// survives it. This keeps the store's last-writer-wins semantics visible
// instead of papering over them.
func (s *Session) Run(ctx context.Context) error {
	ch, err := s.store.Subscribe(ctx, s.roomID)
	if err != nil {
		return fmt.Errorf("session: subscribe %s: %w", s.roomID, err)
	}
	for snap := range ch {
		s.apply(snap)
	}
	return ctx.Err()
}

func (s *Session) apply(snap *room.Room) {
	s.mu.Lock()
	s.latest = snap
	// The overlay drains as the store acknowledges: entries the snapshot
	// now carries drop out of pending, the rest stay overlaid.
	s.pending = unacknowledged(s.pending, snap.Messages)
	s.mu.Unlock()
	s.notify()
}

func unacknowledged(pending, acked []room.LogEntry) []room.LogEntry {
	if len(pending) == 0 {
		return nil
	}
	keep := pending[:0]
	for _, p := range pending {
		found := false
		for _, a := range acked {
			if a.SenderID == p.SenderID && a.Timestamp == p.Timestamp && a.Text == p.Text {
				found = true
				break
			}
		}
		if !found {
			keep = append(keep, p)
		}
	}
	return keep
}

// Snapshot is the merged local view: the authoritative state with the
// open stroke and unacknowledged feed entries overlaid.
func (s *Session) Snapshot() *room.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.latest.Clone()
	if open, ok := s.buf.Open(); ok && snap.IsDrawer(s.playerID) {
		snap.Lines = append(snap.Lines, open)
	}
	snap.Messages = append(snap.Messages, s.pending...)
	return snap
}

// View is the snapshot as it may leave this participant's hands: the
// secret is masked for everyone but the drawer, and the feed is trimmed
// to the display cap.
func (s *Session) View() *room.Room {
	snap := s.Snapshot()
	if !snap.IsDrawer(s.playerID) {
		snap.CurrentWord = room.MaskWord(snap.CurrentWord)
	}
	if n := len(snap.Messages); n > room.MaxLogDisplay {
		snap.Messages = snap.Messages[n-room.MaxLogDisplay:]
	}
	return snap
}

// Guess judges text locally for the optimistic echo, then submits the
// mutation. A failed write is reported, not retried; the overlay stays
// put until an inbound snapshot settles what really happened.
func (s *Session) Guess(ctx context.Context, text string) (game.Verdict, error) {
	s.mu.Lock()
	v := game.JudgeGuess(s.latest, s.playerID, text)
	s.pending = append(s.pending, v.Entry)
	s.mu.Unlock()
	s.notify()

	if err := s.store.AppendToLog(ctx, s.roomID, v.Entry); err != nil {
		logger.Error("session: guess append in %s: %v", s.roomID, err)
		return v, store.ErrWriteRejected
	}
	if v.Fields != nil {
		if err := s.store.ReplaceFields(ctx, s.roomID, *v.Fields); err != nil {
			logger.Error("session: guess fields in %s: %v", s.roomID, err)
			return v, store.ErrWriteRejected
		}
	}
	return v, nil
}

// SetSurface records the drawer's current canvas size for normalization.
func (s *Session) SetSurface(w, h float64) {
	s.mu.Lock()
	s.buf.SetSurface(w, h)
	s.mu.Unlock()
}

// BeginStroke opens a gesture. Only the current drawer draws.
func (s *Session) BeginStroke(color string, size int, x, y float64) {
	s.mu.Lock()
	if s.latest.IsDrawer(s.playerID) {
		s.buf.Begin(color, size, x, y)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Session) ExtendStroke(x, y float64) {
	s.mu.Lock()
	s.buf.Extend(x, y)
	s.mu.Unlock()
	s.notify()
}

// EndStroke finalizes the gesture and flushes it on top of the latest
// snapshot's strokes. Whole-field replace means a concurrent flush from a
// stale base can drop this one; that is the store contract, not a bug to
// fix here.
func (s *Session) EndStroke(ctx context.Context) error {
	s.mu.Lock()
	stroke, ok := s.buf.End()
	if !ok {
		s.mu.Unlock()
		return nil
	}
	// The turn can rotate mid-gesture; an ex-drawer's stroke must not
	// land on the next drawer's fresh canvas.
	if !s.latest.IsDrawer(s.playerID) {
		s.mu.Unlock()
		return nil
	}
	lines := append(append([]room.Stroke(nil), s.latest.Lines...), stroke)
	s.mu.Unlock()

	if err := s.store.ReplaceFields(ctx, s.roomID, store.Fields{Lines: &lines}); err != nil {
		logger.Error("session: stroke flush in %s: %v", s.roomID, err)
		return store.ErrWriteRejected
	}
	s.mu.Lock()
	s.latest.Lines = lines
	s.mu.Unlock()
	s.notify()
	return nil
}

// Clear wipes the canvas if this participant is the drawer; silently does
// nothing otherwise.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.RLock()
	fields, ok := game.ClearCanvas(s.latest, s.playerID)
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := s.store.ReplaceFields(ctx, s.roomID, *fields); err != nil {
		logger.Error("session: clear in %s: %v", s.roomID, err)
		return store.ErrWriteRejected
	}
	return nil
}

// Updates signals whenever the merged view changed.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
