package bridge

import (
	"strings"

	"vimbridge/engine"
)

// Snapshot is an immutable view of the widget's flat string as an ordered
// sequence of lines. It is the basis for one batch of coordinate
// conversions and must be rebuilt whenever the underlying string changes,
// since line boundaries shift with every edit.
//
// All offsets are rune offsets into the flat string; a newline counts as one
// rune between lines.
type Snapshot struct {
	lines [][]rune
}

// NewSnapshot splits text on '\n'. The empty string yields a single empty
// line, matching the engine's default buffer.
func NewSnapshot(text string) Snapshot {
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return Snapshot{lines: lines}
}

// LineCount returns the number of lines, always at least 1.
func (s Snapshot) LineCount() int { return len(s.lines) }

// LineLen returns the rune length of the 1-indexed line, or 0 out of range.
func (s Snapshot) LineLen(line int) int {
	if line < 1 || line > len(s.lines) {
		return 0
	}
	return len(s.lines[line-1])
}

// Len returns the total rune length of the flat string.
func (s Snapshot) Len() int {
	n := 0
	for _, l := range s.lines {
		n += len(l) + 1
	}
	return n - 1 // no newline after the last line
}

// PositionToOffset converts a (1-indexed line, 0-indexed column) position to
// a flat rune offset. Out-of-range lines clamp to the last line and
// out-of-range columns to the line length; the result saturates at Len.
func (s Snapshot) PositionToOffset(p engine.Position) int {
	line := p.Line
	if line < 1 {
		line = 1
	}
	if line > len(s.lines) {
		line = len(s.lines)
	}

	off := 0
	for i := 0; i < line-1; i++ {
		off += len(s.lines[i]) + 1
	}

	col := p.Col
	if col < 0 {
		col = 0
	}
	if max := len(s.lines[line-1]); col > max {
		col = max
	}
	return off + col
}

// OffsetToPosition converts a flat rune offset back to a position. An offset
// equal to a line's length lands at that line's end (the newline boundary
// belongs to the line before it); an offset past the end of the text returns
// the end-of-buffer position.
func (s Snapshot) OffsetToPosition(off int) engine.Position {
	if off < 0 {
		off = 0
	}
	for i, l := range s.lines {
		if off <= len(l) {
			return engine.Position{Line: i + 1, Col: off}
		}
		off -= len(l) + 1
	}
	last := len(s.lines)
	return engine.Position{Line: last, Col: len(s.lines[last-1])}
}

// Line returns the 1-indexed line as a string, or "" out of range.
func (s Snapshot) Line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return string(s.lines[n-1])
}
