// Package lobby owns room creation, join and matchmaking semantics on top
// of the store. Joins are idempotent; the create race is resolved by the
// loser re-reading and joining what the winner wrote.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Peppermint995/Scrbbl-Clone/internal/game"
	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
	"github.com/Peppermint995/Scrbbl-Clone/internal/store"
	"github.com/Peppermint995/Scrbbl-Clone/logger"
)

type Manager struct {
	store store.Store
}

func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// CreateOrJoin puts the player in the room, creating the record when it
// does not exist. Re-joining with the same id is a no-op, so a
// reconnecting player keeps their score. Returns the snapshot the caller
// starts from.
func (m *Manager) CreateOrJoin(ctx context.Context, roomID string, private bool, p room.Player) (*room.Room, error) {
	roomID = room.NormalizeCode(roomID)

	rm, err := m.store.Read(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		fresh := &room.Room{
			ID:            roomID,
			Private:       private,
			Players:       []room.Player{p},
			CurrentDrawer: p.ID,
			CurrentWord:   room.RandomWord(),
			Lines:         []room.Stroke{},
			Messages:      []room.LogEntry{},
			CreatedAt:     time.Now().UnixMilli(),
		}
		err = m.store.Create(ctx, fresh)
		if err == nil {
			logger.Info("lobby: %s created room %s", p.ID, roomID)
			return fresh, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("lobby: create %s: %w", roomID, err)
		}
		// Lost the create race; someone else's record is there now.
		rm, err = m.store.Read(ctx, roomID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrRoomUnavailable
		}
	}
	if err != nil {
		return nil, fmt.Errorf("lobby: read %s: %w", roomID, err)
	}

	if rm.HasPlayer(p.ID) {
		return rm, nil
	}
	players := append(append([]room.Player(nil), rm.Players...), p)
	if err := m.store.ReplaceFields(ctx, roomID, store.Fields{Players: &players}); err != nil {
		return nil, fmt.Errorf("lobby: join %s: %w", roomID, err)
	}
	rm.Players = players
	logger.Info("lobby: %s joined room %s (%d players)", p.ID, roomID, len(players))
	return rm, nil
}

// FindPublicRoom returns the id of the first public room with a free seat,
// or ok=false when none qualifies and the caller should mint a fresh one.
func (m *Manager) FindPublicRoom(ctx context.Context, maxOccupancy int) (string, bool, error) {
	if maxOccupancy <= 0 {
		maxOccupancy = room.DefaultMaxOccupancy
	}
	infos, err := m.store.ListRooms(ctx)
	if err != nil {
		return "", false, fmt.Errorf("lobby: list rooms: %w", err)
	}
	for _, info := range infos {
		if !info.Private && info.Occupancy < maxOccupancy {
			return info.ID, true, nil
		}
	}
	return "", false, nil
}

// QuickPlay drops the player into any public room with capacity, minting a
// new public room when matchmaking comes up empty.
func (m *Manager) QuickPlay(ctx context.Context, p room.Player) (*room.Room, error) {
	roomID, ok, err := m.FindPublicRoom(ctx, room.DefaultMaxOccupancy)
	if err != nil {
		return nil, err
	}
	if !ok {
		roomID = room.NewPublicCode()
	}
	return m.CreateOrJoin(ctx, roomID, false, p)
}

// Leave removes the player from the roster. When the drawer leaves, the
// turn rotates from their former position, a fresh word is picked and the
// canvas cleared, so the room never waits on someone who is gone.
func (m *Manager) Leave(ctx context.Context, roomID, playerID string) error {
	roomID = room.NormalizeCode(roomID)
	rm, err := m.store.Read(ctx, roomID)
	if err != nil {
		return fmt.Errorf("lobby: leave %s: %w", roomID, err)
	}
	idx := rm.PlayerIndex(playerID)
	if idx < 0 {
		return nil
	}
	leaving := rm.Players[idx]
	players := append(append([]room.Player(nil), rm.Players[:idx]...), rm.Players[idx+1:]...)

	fields := store.Fields{Players: &players}
	if rm.IsDrawer(playerID) {
		next := game.NextDrawer(players, playerID)
		word := room.RandomWord()
		noLines := []room.Stroke{}
		fields.CurrentDrawer = &next
		fields.CurrentWord = &word
		fields.Lines = &noLines
	}
	if err := m.store.ReplaceFields(ctx, roomID, fields); err != nil {
		return fmt.Errorf("lobby: leave %s: %w", roomID, err)
	}
	notice := room.LogEntry{
		Text:      leaving.Name + " left the room",
		System:    true,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := m.store.AppendToLog(ctx, roomID, notice); err != nil {
		logger.Error("lobby: leave notice for %s: %v", roomID, err)
	}
	return nil
}
