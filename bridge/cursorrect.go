package bridge

import (
	"github.com/rivo/uniseg"

	"vimbridge/engine"
)

// Rect is a cursor rectangle in the metric space of the host renderer
// (cells for a terminal, pixels for a canvas).
type Rect struct {
	X, Y, W, H int
}

// Metrics abstracts the host renderer's text measurement. LineHeight is the
// vertical extent of one line; Advance is the horizontal extent of a string
// laid out on one line.
type Metrics interface {
	LineHeight() int
	Advance(s string) int
}

// CellMetrics measures in terminal cells: every line is one cell tall and a
// string is as wide as its East-Asian-aware display width.
type CellMetrics struct{}

func (CellMetrics) LineHeight() int      { return 1 }
func (CellMetrics) Advance(s string) int { return uniseg.StringWidth(s) }

// eolGlyph sizes the block cursor when it sits past the last glyph of a
// line, where there is nothing under it to measure.
const eolGlyph = "m"

// CursorRect computes the block-cursor rectangle for an engine cursor
// position against a buffer snapshot. The rectangle covers the whole
// grapheme cluster under the cursor, so wide glyphs get a wide block; past
// the end of the line it falls back to a representative glyph width. The
// position is clamped the same way offsets are, so a stale cursor still
// yields a drawable rectangle.
func CursorRect(snap Snapshot, pos engine.Position, m Metrics) Rect {
	line := pos.Line
	if line < 1 {
		line = 1
	}
	if n := snap.LineCount(); line > n {
		line = n
	}
	col := pos.Col
	if col < 0 {
		col = 0
	}
	if n := snap.LineLen(line); col > n {
		col = n
	}

	runes := []rune(snap.Line(line))
	prefix := string(runes[:col])

	w := m.Advance(cursorCluster(string(runes[col:])))
	if w <= 0 {
		w = m.Advance(eolGlyph)
	}

	h := m.LineHeight()
	return Rect{
		X: m.Advance(prefix),
		Y: (line - 1) * h,
		W: w,
		H: h,
	}
}

// cursorCluster returns the first grapheme cluster of rest, or "" at end of
// line.
func cursorCluster(rest string) string {
	if rest == "" {
		return ""
	}
	g := uniseg.NewGraphemes(rest)
	if g.Next() {
		return g.Str()
	}
	return ""
}
