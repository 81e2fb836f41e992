package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vimbridge/engine"
)

func TestSnapshot_Lines(t *testing.T) {
	snap := NewSnapshot("abc\ndef\nghi")

	assert.Equal(t, 3, snap.LineCount())
	assert.Equal(t, "def", snap.Line(2))
	assert.Equal(t, "", snap.Line(4))
	assert.Equal(t, 3, snap.LineLen(1))
	assert.Equal(t, 0, snap.LineLen(0))
	assert.Equal(t, 11, snap.Len())
}

func TestSnapshot_EmptyText(t *testing.T) {
	snap := NewSnapshot("")

	assert.Equal(t, 1, snap.LineCount())
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, 0, snap.PositionToOffset(engine.Position{Line: 1, Col: 0}))
	assert.Equal(t, engine.Position{Line: 1, Col: 0}, snap.OffsetToPosition(0))
}

func TestSnapshot_PositionToOffset(t *testing.T) {
	snap := NewSnapshot("abc\ndef\nghi")

	tests := []struct {
		name string
		pos  engine.Position
		want int
	}{
		{"start of buffer", engine.Position{Line: 1, Col: 0}, 0},
		{"middle of line", engine.Position{Line: 2, Col: 1}, 5},
		{"end of line", engine.Position{Line: 1, Col: 3}, 3},
		{"end of buffer", engine.Position{Line: 3, Col: 3}, 11},
		{"line clamped down", engine.Position{Line: 9, Col: 0}, 8},
		{"line clamped up", engine.Position{Line: 0, Col: 1}, 1},
		{"column clamped", engine.Position{Line: 2, Col: 99}, 7},
		{"negative column", engine.Position{Line: 2, Col: -4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snap.PositionToOffset(tt.pos))
		})
	}
}

func TestSnapshot_OffsetToPosition(t *testing.T) {
	snap := NewSnapshot("abc\ndef\nghi")

	tests := []struct {
		name string
		off  int
		want engine.Position
	}{
		{"start of buffer", 0, engine.Position{Line: 1, Col: 0}},
		{"line end owns the newline boundary", 3, engine.Position{Line: 1, Col: 3}},
		{"first column of next line", 4, engine.Position{Line: 2, Col: 0}},
		{"end of buffer", 11, engine.Position{Line: 3, Col: 3}},
		{"past the end clamps", 99, engine.Position{Line: 3, Col: 3}},
		{"negative clamps to start", -5, engine.Position{Line: 1, Col: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, snap.OffsetToPosition(tt.off))
		})
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	texts := []string{
		"abc\ndef\nghi",
		"",
		"one line",
		"\n\n",
		"héllo\n世界\nmixed 日本 text",
	}

	for _, text := range texts {
		snap := NewSnapshot(text)
		for off := 0; off <= snap.Len(); off++ {
			assert.Equal(t, off, snap.PositionToOffset(snap.OffsetToPosition(off)),
				"offset %d in %q", off, text)
		}
	}
}

func TestSnapshot_RuneOffsets(t *testing.T) {
	// Offsets count runes, not bytes.
	snap := NewSnapshot("héllo\n世界")

	assert.Equal(t, 8, snap.Len())
	assert.Equal(t, 7, snap.PositionToOffset(engine.Position{Line: 2, Col: 1}))
	assert.Equal(t, engine.Position{Line: 2, Col: 2}, snap.OffsetToPosition(8))
}
