package room

import (
	"math/rand"
	"strings"
	"unicode"
)

// Words is the static pool the drawer's secret is picked from. Entries are
// stored lowercase because guesses are compared lowercased. A word may
// repeat across turns.
var Words = []string{
	"apple", "banana", "car", "dog", "elephant", "fire", "guitar",
	"house", "ice cream", "jungle", "kangaroo", "lamp", "mountain",
	"notebook", "ocean", "piano", "queen", "robot", "sun", "tree",
	"umbrella", "violin", "whale", "xylophone", "yacht", "zebra",
}

// RandomWord picks a secret uniformly from the pool.
func RandomWord() string {
	return Words[rand.Intn(len(Words))]
}

// MaskWord renders the guesser-visible form of the secret: one underscore
// per letter or digit, spaces preserved.
func MaskWord(w string) string {
	var b strings.Builder
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteString("_ ")
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// NormalizeGuess applies the same normalization used when the secret is
// chosen, so comparison is plain string equality.
func NormalizeGuess(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
