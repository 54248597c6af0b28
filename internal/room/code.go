package room

import (
	"crypto/rand"
	"sort"
	"strings"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}

// NewCode mints a 6-character shareable room code.
func NewCode() string {
	return randomCode(6)
}

// NewPublicCode mints a code for a system-created public room.
func NewPublicCode() string {
	return "PUB-" + randomCode(5)
}

// NormalizeCode canonicalizes a user-entered code for lookup. Codes are
// case-normalized once here, not treated as case-insensitive downstream.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SortByScore returns the leaderboard order: highest score first, join
// order as the tie-break. The input is not modified.
func SortByScore(players []Player) []Player {
	out := append([]Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
