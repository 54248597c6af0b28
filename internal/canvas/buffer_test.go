package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Peppermint995/Scrbbl-Clone/internal/room"
)

func TestBuffer_NormalizesAtCapture(t *testing.T) {
	b := NewBuffer(800, 600)
	b.Begin("#ee1b24", 5, 400, 300)
	b.Extend(800, 600)
	b.Extend(0, 0)

	s, ok := b.End()
	require.True(t, ok)
	assert.Equal(t, "#ee1b24", s.Color)
	assert.Equal(t, 5, s.Size)
	require.Len(t, s.Points, 3)
	assert.InDelta(t, 0.5, s.Points[0].X, 1e-9)
	assert.InDelta(t, 0.5, s.Points[0].Y, 1e-9)
	assert.Equal(t, room.Point{X: 1, Y: 1}, s.Points[1])
	assert.Equal(t, room.Point{X: 0, Y: 0}, s.Points[2])
}

func TestBuffer_EndClearsOpenMarker(t *testing.T) {
	b := NewBuffer(100, 100)
	b.Begin("#000000", 5, 10, 10)

	_, ok := b.End()
	require.True(t, ok)

	_, ok = b.End()
	assert.False(t, ok, "second End has nothing to finalize")

	b.Extend(20, 20) // no open stroke, must not panic or record
	_, ok = b.Open()
	assert.False(t, ok)
}

func TestBuffer_ExtendWithoutBeginIsNoop(t *testing.T) {
	b := NewBuffer(100, 100)
	b.Extend(50, 50)
	_, ok := b.End()
	assert.False(t, ok)
}

func TestBuffer_OpenReturnsCopy(t *testing.T) {
	b := NewBuffer(100, 100)
	b.Begin("#000000", 5, 10, 10)

	open, ok := b.Open()
	require.True(t, ok)
	open.Points[0].X = 0.99

	s, _ := b.End()
	assert.InDelta(t, 0.1, s.Points[0].X, 1e-9, "mutating the copy must not touch the buffer")
}

func TestBuffer_ClampsBrushAndCoordinates(t *testing.T) {
	b := NewBuffer(100, 100)

	b.Begin("#000000", 500, -10, 150)
	s, ok := b.End()
	require.True(t, ok)
	assert.Equal(t, room.BrushMax, s.Size)
	assert.Equal(t, room.Point{X: 0, Y: 1}, s.Points[0])

	b.Begin("#000000", 0, 10, 10)
	s, _ = b.End()
	assert.Equal(t, room.BrushMin, s.Size)
}

func TestBuffer_SurfaceChangeAffectsLaterSamplesOnly(t *testing.T) {
	b := NewBuffer(100, 100)
	b.Begin("#000000", 5, 50, 50)
	b.SetSurface(200, 200)
	b.Extend(50, 50)

	s, _ := b.End()
	require.Len(t, s.Points, 2)
	assert.InDelta(t, 0.5, s.Points[0].X, 1e-9)
	assert.InDelta(t, 0.25, s.Points[1].X, 1e-9)
}
