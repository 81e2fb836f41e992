package bridge

import (
	"strings"

	"vimbridge/engine"
)

// SelectionKind is the granularity of a reconstructed selection.
type SelectionKind int

const (
	Characterwise SelectionKind = iota
	Linewise
	Blockwise
)

func selectionKind(k engine.VisualKind) SelectionKind {
	switch k {
	case engine.VisualLine:
		return Linewise
	case engine.VisualBlock:
		return Blockwise
	default:
		return Characterwise
	}
}

// Selection is a half-open [Start, End) range of flat rune offsets, with
// Start <= End regardless of which endpoint the engine calls "start". A
// zero-length selection marks the caret. Blockwise ranges cannot be
// represented as a flat span, so they cover the text between the ordered
// endpoints like a characterwise selection; Kind is preserved so the host
// can render them differently if it wants to.
type Selection struct {
	Start int
	End   int
	Kind  SelectionKind
}

// Empty reports whether the selection is a bare caret.
func (s Selection) Empty() bool { return s.Start == s.End }

// synchronizer owns the bridge's single piece of persistent sync state: the
// last text known to be identical on both sides. It is created at bridge
// construction and never reset except by rebuilding the bridge.
type synchronizer struct {
	eng       engine.Engine
	lastKnown string
}

// push replaces the engine's entire line set with text split on '\n' and
// records it. A push with unchanged text is a no-op, so redundant syncs never
// reach the engine. The replacement is delete-all-then-insert-all, not a
// diff: the engine's internal undo history and marks do not survive it.
func (s *synchronizer) push(text string) bool {
	if text == s.lastKnown {
		return false
	}
	s.eng.SetLines(0, s.eng.LineCount(), strings.Split(text, "\n"))
	s.lastKnown = text
	return true
}

// pull reads the engine's full buffer and cursor/selection state. It returns
// the rejoined text, the reconstructed selection (a caret when no visual
// range is active), and whether the text differs from the last known sync
// state. The caller is responsible for applying the result to the widget.
func (s *synchronizer) pull() (string, Selection, bool) {
	n := s.eng.LineCount()
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		lines[i] = s.eng.Line(i + 1)
	}
	text := strings.Join(lines, "\n")

	changed := text != s.lastKnown
	s.lastKnown = text

	snap := NewSnapshot(text)
	return text, s.selection(snap), changed
}

// selection rebuilds the widget-side selection from the engine's visual
// state against the given snapshot.
func (s *synchronizer) selection(snap Snapshot) Selection {
	if !s.eng.VisualActive() {
		off := snap.PositionToOffset(s.eng.Cursor())
		return Selection{Start: off, End: off, Kind: Characterwise}
	}

	a, b := s.eng.VisualRange()
	kind := selectionKind(s.eng.Kind())

	if kind == Linewise {
		lo, hi := a.Line, b.Line
		if lo > hi {
			lo, hi = hi, lo
		}
		// Full lines regardless of the reported columns: column 0 of the
		// first line through end-of-line of the last.
		return Selection{
			Start: snap.PositionToOffset(engine.Position{Line: lo, Col: 0}),
			End:   snap.PositionToOffset(engine.Position{Line: hi, Col: snap.LineLen(hi)}),
			Kind:  kind,
		}
	}

	// The selection can be drawn in either direction; order by offset and
	// make the later endpoint inclusive (end column + 1, clamped by the
	// snapshot so the newline is never swallowed).
	offA := snap.PositionToOffset(a)
	offB := snap.PositionToOffset(b)
	last := b
	if offA > offB {
		offA, offB = offB, offA
		last = a
	}
	return Selection{
		Start: offA,
		End:   snap.PositionToOffset(engine.Position{Line: last.Line, Col: last.Col + 1}),
		Kind:  kind,
	}
}
