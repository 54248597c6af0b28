// Package game holds the authoritative rules: who draws, how a guess is
// judged, how the turn rotates and scores move. Everything here is a pure
// function from a snapshot to the mutation it implies, so the same code
// runs for the optimistic local prediction and for the write that every
// other participant will see.
package game

import (
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
	"github.com/Peppermint995/Scrbbl-Clone/internal/store"
)

// GuessAward is the fixed score increment for a correct guess.
const GuessAward = 10

// closeDistance is the edit-distance cutoff for the "so close" hint shown
// privately to the guesser. It never affects the outcome.
const closeDistance = 2

type Outcome int

const (
	Incorrect Outcome = iota
	Correct
)

// Verdict carries everything a judged guess implies: the feed entry to
// append, the field replacements to write (nil when nothing changes), and
// whether the miss was near enough to hint at.
type Verdict struct {
	Outcome Outcome
	Entry   room.LogEntry
	Fields  *store.Fields
	Close   bool
}

// JudgeGuess evaluates raw against the room's secret. The drawer's own
// text is never a guess; it goes to the feed as ordinary chat. A correct
// guess produces a system notice (the secret itself must not reach the
// feed), awards the guesser, rotates the drawer, picks a fresh word and
// clears the canvas.
func JudgeGuess(rm *room.Room, guesserID, raw string) Verdict {
	idx := rm.PlayerIndex(guesserID)
	var guesser room.Player
	if idx >= 0 {
		guesser = rm.Players[idx]
	}

	normalized := room.NormalizeGuess(raw)
	if rm.IsDrawer(guesserID) || normalized != rm.CurrentWord {
		v := Verdict{
			Outcome: Incorrect,
			Entry:   chatEntry(guesser, guesserID, raw),
		}
		if !rm.IsDrawer(guesserID) && normalized != "" {
			d := levenshtein.ComputeDistance(normalized, rm.CurrentWord)
			v.Close = d > 0 && d <= closeDistance
		}
		return v
	}

	players := append([]room.Player(nil), rm.Players...)
	if idx >= 0 {
		players[idx].Score += GuessAward
	}
	nextDrawer := NextDrawer(players, rm.CurrentDrawer)
	nextWord := room.RandomWord()
	noLines := []room.Stroke{}

	return Verdict{
		Outcome: Correct,
		Entry: room.LogEntry{
			Sender:     guesser.Name,
			SenderID:   guesserID,
			Text:       guesser.Name + " guessed the word!",
			System:     true,
			AvatarIcon: guesser.AvatarIcon,
			Timestamp:  time.Now().UnixMilli(),
		},
		Fields: &store.Fields{
			Players:       &players,
			CurrentDrawer: &nextDrawer,
			CurrentWord:   &nextWord,
			Lines:         &noLines,
		},
	}
}

// NextDrawer rotates to the player after currentID in join order, wrapping
// past the end. A drawer no longer present counts as index -1, so the
// rotation lands on the first player.
func NextDrawer(players []room.Player, currentID string) string {
	if len(players) == 0 {
		return ""
	}
	current := -1
	for i, p := range players {
		if p.ID == currentID {
			current = i
			break
		}
	}
	return players[(current+1)%len(players)].ID
}

// ClearCanvas is a drawer-only affordance: anyone else gets a silent
// no-op, not an error.
func ClearCanvas(rm *room.Room, requesterID string) (*store.Fields, bool) {
	if !rm.IsDrawer(requesterID) {
		return nil, false
	}
	noLines := []room.Stroke{}
	return &store.Fields{Lines: &noLines}, true
}

func chatEntry(sender room.Player, senderID, text string) room.LogEntry {
	name := sender.Name
	if name == "" {
		name = "Anonymous"
	}
	return room.LogEntry{
		Sender:     name,
		SenderID:   senderID,
		Text:       text,
		AvatarIcon: sender.AvatarIcon,
		Timestamp:  time.Now().UnixMilli(),
	}
}
