package lobby

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
	"github.com/Peppermint995/Scrbbl-Clone/internal/store"
)

// hookStore wraps the in-memory store so individual calls can be
// intercepted to stage races and failures.
type hookStore struct {
	store.Store
	readHook   func(roomID string) (*room.Room, error)
	createHook func(rm *room.Room) error
}

func (h *hookStore) Read(ctx context.Context, roomID string) (*room.Room, error) {
	if h.readHook != nil {
		return h.readHook(roomID)
	}
	return h.Store.Read(ctx, roomID)
}

func (h *hookStore) Create(ctx context.Context, rm *room.Room) error {
	if h.createHook != nil {
		return h.createHook(rm)
	}
	return h.Store.Create(ctx, rm)
}

func alice() room.Player {
	return room.Player{ID: "alice-id", Name: "Alice", AvatarColor: "#ef4444", AvatarIcon: "🐱"}
}

func bob() room.Player {
	return room.Player{ID: "bob-id", Name: "Bob", AvatarColor: "#3b82f6", AvatarIcon: "🐶"}
}

func TestCreateOrJoin_CreatesFreshRoom(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory())

	rm, err := m.CreateOrJoin(ctx, "abc123", true, alice())
	require.NoError(t, err)

	assert.Equal(t, "ABC123", rm.ID, "codes are case-normalized once")
	assert.True(t, rm.Private)
	require.Len(t, rm.Players, 1)
	assert.Equal(t, "alice-id", rm.CurrentDrawer, "creator draws first")
	assert.Contains(t, room.Words, rm.CurrentWord)
	assert.Empty(t, rm.Lines)
	assert.NotZero(t, rm.CreatedAt)
}

func TestCreateOrJoin_JoinAppendsInJoinOrder(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory())

	_, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	require.NoError(t, err)
	rm, err := m.CreateOrJoin(ctx, "ABC123", false, bob())
	require.NoError(t, err)

	require.Len(t, rm.Players, 2)
	assert.Equal(t, "alice-id", rm.Players[0].ID)
	assert.Equal(t, "bob-id", rm.Players[1].ID)
	assert.Equal(t, "alice-id", rm.CurrentDrawer, "joining never steals the turn")
}

func TestCreateOrJoin_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st)

	_, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	require.NoError(t, err)

	// Bump the score, then re-join with the same id.
	rm, _ := st.Read(ctx, "ABC123")
	players := append([]room.Player(nil), rm.Players...)
	players[0].Score = 30
	require.NoError(t, st.ReplaceFields(ctx, "ABC123", store.Fields{Players: &players}))

	rejoined, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	require.NoError(t, err)
	require.Len(t, rejoined.Players, 1, "re-join must not duplicate the entry")
	assert.Equal(t, 30, rejoined.Players[0].Score, "re-join must not reset the score")
}

func TestCreateOrJoin_LostCreateRaceJoinsInstead(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	hs := &hookStore{Store: mem}
	m := NewManager(hs)

	// First Read misses; before Create lands, a rival's record appears.
	hs.createHook = func(rm *room.Room) error {
		hs.createHook = nil
		rival := *rm
		rival.Players = []room.Player{bob()}
		rival.CurrentDrawer = "bob-id"
		if err := mem.Create(ctx, &rival); err != nil {
			return err
		}
		return store.ErrAlreadyExists
	}

	rm, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	require.NoError(t, err)
	require.Len(t, rm.Players, 2, "loser joins the winner's room")
	assert.Equal(t, "bob-id", rm.Players[0].ID)
	assert.Equal(t, "bob-id", rm.CurrentDrawer)
}

func TestCreateOrJoin_RoomVanishedBetweenCheckAndWrite(t *testing.T) {
	ctx := context.Background()
	hs := &hookStore{Store: store.NewMemory()}
	hs.createHook = func(*room.Room) error { return store.ErrAlreadyExists }
	m := NewManager(hs)

	_, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	assert.ErrorIs(t, err, store.ErrRoomUnavailable)
}

func TestFindPublicRoom(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st)

	fillRoom := func(id string, private bool, n int) {
		p := room.Player{ID: id + "-p0", Name: "p0"}
		_, err := m.CreateOrJoin(ctx, id, private, p)
		require.NoError(t, err)
		for i := 1; i < n; i++ {
			_, err := m.CreateOrJoin(ctx, id, private, room.Player{ID: id + "-p" + string(rune('0'+i)), Name: "p"})
			require.NoError(t, err)
		}
	}

	fillRoom("PUB-FULLL", false, 8)
	fillRoom("PUB-OPENN", false, 3)
	fillRoom("HIDDEN", true, 1)

	id, ok, err := m.FindPublicRoom(ctx, 8)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "PUB-OPENN", id, "full and private rooms are skipped")
}

func TestFindPublicRoom_Empty(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory())

	fullHouse := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	for _, pid := range fullHouse {
		_, err := m.CreateOrJoin(ctx, "PUB-FULLL", false, room.Player{ID: pid, Name: pid})
		require.NoError(t, err)
	}
	_, err := m.CreateOrJoin(ctx, "SECRET", true, alice())
	require.NoError(t, err)

	_, ok, err := m.FindPublicRoom(ctx, 8)
	require.NoError(t, err)
	assert.False(t, ok, "no capacity anywhere is a signal, not an error")
}

func TestQuickPlay_MintsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory())

	rm, err := m.QuickPlay(ctx, alice())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PUB-[A-Z0-9]{5}$`), rm.ID)
	assert.False(t, rm.Private)
	require.Len(t, rm.Players, 1)
}

func TestQuickPlay_PrefersExistingRoom(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory())

	first, err := m.QuickPlay(ctx, alice())
	require.NoError(t, err)
	second, err := m.QuickPlay(ctx, bob())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Players, 2)
}

func TestLeave_RemovesPlayer(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st)

	_, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	require.NoError(t, err)
	_, err = m.CreateOrJoin(ctx, "ABC123", false, bob())
	require.NoError(t, err)

	require.NoError(t, m.Leave(ctx, "ABC123", "bob-id"))

	rm, _ := st.Read(ctx, "ABC123")
	require.Len(t, rm.Players, 1)
	assert.Equal(t, "alice-id", rm.CurrentDrawer, "a guesser leaving keeps the turn")
	require.NotEmpty(t, rm.Messages)
	assert.True(t, rm.Messages[len(rm.Messages)-1].System)
}

func TestLeave_DrawerRotatesTurn(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st)

	_, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	require.NoError(t, err)
	_, err = m.CreateOrJoin(ctx, "ABC123", false, bob())
	require.NoError(t, err)

	require.NoError(t, m.Leave(ctx, "ABC123", "alice-id"))

	rm, _ := st.Read(ctx, "ABC123")
	require.Len(t, rm.Players, 1)
	assert.Equal(t, "bob-id", rm.CurrentDrawer, "a departed drawer hands the turn over")
	assert.Empty(t, rm.Lines)
}

func TestLeave_LastPlayerEmptiesRoster(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st)

	_, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	require.NoError(t, err)
	require.NoError(t, m.Leave(ctx, "ABC123", "alice-id"))

	rm, _ := st.Read(ctx, "ABC123")
	assert.Empty(t, rm.Players)
	assert.Equal(t, "", rm.CurrentDrawer, "empty roster means no drawer")
}

func TestLeave_UnknownPlayerIsNoop(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st)

	_, err := m.CreateOrJoin(ctx, "ABC123", false, alice())
	require.NoError(t, err)
	require.NoError(t, m.Leave(ctx, "ABC123", "stranger"))

	rm, _ := st.Read(ctx, "ABC123")
	assert.Len(t, rm.Players, 1)
}
