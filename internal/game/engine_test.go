package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
)

func testRoom() *room.Room {
	return &room.Room{
		ID: "ABC123",
		Players: []room.Player{
			{ID: "a", Name: "Alice", Score: 0},
			{ID: "b", Name: "Bob", Score: 20},
			{ID: "c", Name: "Cara", Score: 10},
		},
		CurrentDrawer: "a",
		CurrentWord:   "banana",
		Lines:         []room.Stroke{{Color: "#000000", Size: 5, Points: []room.Point{{X: 0.1, Y: 0.2}}}},
	}
}

func TestJudgeGuess_Correct(t *testing.T) {
	rm := testRoom()
	v := JudgeGuess(rm, "b", "  BaNaNa ")

	require.Equal(t, Correct, v.Outcome)
	require.NotNil(t, v.Fields)

	assert.True(t, v.Entry.System)
	assert.Equal(t, "Bob guessed the word!", v.Entry.Text)
	assert.NotContains(t, strings.ToLower(v.Entry.Text), "banana")

	require.NotNil(t, v.Fields.Players)
	players := *v.Fields.Players
	assert.Equal(t, 30, players[1].Score, "guesser gains exactly the award")
	assert.Equal(t, 0, players[0].Score)
	assert.Equal(t, 10, players[2].Score)

	require.NotNil(t, v.Fields.CurrentDrawer)
	assert.Equal(t, "b", *v.Fields.CurrentDrawer, "rotates to the player after the previous drawer")

	require.NotNil(t, v.Fields.CurrentWord)
	assert.Contains(t, room.Words, *v.Fields.CurrentWord)

	require.NotNil(t, v.Fields.Lines)
	assert.Empty(t, *v.Fields.Lines, "strokes cleared on turn change")

	// The original room is a snapshot; judging must not mutate it.
	assert.Equal(t, 20, rm.Players[1].Score)
	assert.Equal(t, "a", rm.CurrentDrawer)
}

func TestJudgeGuess_Incorrect(t *testing.T) {
	rm := testRoom()
	v := JudgeGuess(rm, "b", "pineapple")

	assert.Equal(t, Incorrect, v.Outcome)
	assert.Nil(t, v.Fields)
	assert.False(t, v.Entry.System)
	assert.Equal(t, "pineapple", v.Entry.Text)
	assert.Equal(t, "b", v.Entry.SenderID)
	assert.Equal(t, "Bob", v.Entry.Sender)
	assert.False(t, v.Close)
}

func TestJudgeGuess_CloseHint(t *testing.T) {
	rm := testRoom()
	v := JudgeGuess(rm, "b", "bananas")

	assert.Equal(t, Incorrect, v.Outcome)
	assert.True(t, v.Close, "one edit away should hint")
	assert.Equal(t, "bananas", v.Entry.Text, "near misses still reach the feed verbatim")
}

func TestJudgeGuess_DrawerNeverScores(t *testing.T) {
	rm := testRoom()
	v := JudgeGuess(rm, "a", "banana")

	assert.Equal(t, Incorrect, v.Outcome)
	assert.Nil(t, v.Fields)
	assert.False(t, v.Entry.System)
	assert.Equal(t, "banana", v.Entry.Text)
	assert.False(t, v.Close, "no hints for the drawer either")
}

func TestJudgeGuess_RotationWraps(t *testing.T) {
	rm := testRoom()
	rm.CurrentDrawer = "c"
	v := JudgeGuess(rm, "a", "banana")

	require.Equal(t, Correct, v.Outcome)
	assert.Equal(t, "a", *v.Fields.CurrentDrawer)
}

func TestJudgeGuess_DepartedDrawerRotatesToFirst(t *testing.T) {
	rm := testRoom()
	rm.CurrentDrawer = "gone"
	v := JudgeGuess(rm, "b", "banana")

	require.Equal(t, Correct, v.Outcome)
	assert.Equal(t, "a", *v.Fields.CurrentDrawer)
}

func TestNextDrawer(t *testing.T) {
	players := []room.Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	testCases := []struct {
		desc    string
		current string
		want    string
	}{
		{"middle advances", "a", "b"},
		{"last wraps to first", "c", "a"},
		{"missing drawer lands on first", "zz", "a"},
		{"empty id lands on first", "", "a"},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, NextDrawer(players, tc.current))
		})
	}

	assert.Equal(t, "", NextDrawer(nil, "a"))
}

func TestClearCanvas(t *testing.T) {
	rm := testRoom()

	fields, ok := ClearCanvas(rm, "b")
	assert.False(t, ok, "non-drawer clear is a silent no-op")
	assert.Nil(t, fields)

	fields, ok = ClearCanvas(rm, "a")
	require.True(t, ok)
	require.NotNil(t, fields.Lines)
	assert.Empty(t, *fields.Lines)
	assert.Nil(t, fields.Players)
	assert.Nil(t, fields.CurrentWord)
}
