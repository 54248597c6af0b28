package room

// Cosmetic options offered before joining. An avatar is a color plus an
// icon; it never affects gameplay.

var AvatarColors = []string{
	"#ef4444", "#f59e0b", "#10b981", "#3b82f6",
	"#8b5cf6", "#ec4899", "#64748b", "#06b6d4",
}

var AvatarIcons = []string{
	"🐱", "🐶", "🦊", "🐨", "🦁", "🐸",
	"🦄", "🐼", "🤖", "👾", "👻", "🤡",
}

// Palette holds the brush colors a drawer can pick from. White doubles as
// the eraser.
var Palette = []string{
	"#000000", "#ffffff", "#4b4b4b", "#c1c1c1",
	"#ee1b24", "#ff7e26", "#fef200", "#22b14c",
	"#00a2e8", "#3f48cc", "#a349a4", "#b97a57",
	"#ffaec9", "#ffca18", "#efe4b0", "#b5e61d",
	"#99d9ea", "#7092be", "#c8bfe7",
}

const (
	BrushMin = 2
	BrushMax = 40

	// MaxLogDisplay caps how many feed entries a viewer is shown.
	MaxLogDisplay = 50

	// DefaultMaxOccupancy is the matchmaking cutoff for public rooms.
	DefaultMaxOccupancy = 8
)
