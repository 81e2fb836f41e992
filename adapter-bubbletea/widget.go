package bubble_adapter

import "vimbridge/bridge"

// textArea is the flat-text surface the bridge drives: one rune slice, a
// caret and a half-open selection, all in rune offsets. It implements
// bridge.Widget and additionally supports the native editing the bridge
// routes back during Insert mode.
type textArea struct {
	text     []rune
	caret    int
	selStart int
	selEnd   int
}

var _ bridge.Widget = (*textArea)(nil)

func (t *textArea) Text() string { return string(t.text) }

func (t *textArea) SetText(s string) {
	t.text = []rune(s)
	t.caret = t.clamp(t.caret)
	t.selStart = t.clamp(t.selStart)
	t.selEnd = t.clamp(t.selEnd)
}

func (t *textArea) SetSelection(start, end int) {
	t.selStart = t.clamp(start)
	t.selEnd = t.clamp(end)
	if t.selStart == t.selEnd {
		t.caret = t.selStart
	} else {
		t.caret = t.selEnd
	}
}

func (t *textArea) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if off > len(t.text) {
		return len(t.text)
	}
	return off
}

func (t *textArea) hasSelection() bool { return t.selStart != t.selEnd }

// selectedText returns the text under the selection, or "" for a bare caret.
func (t *textArea) selectedText() string {
	return string(t.text[t.selStart:t.selEnd])
}

// insertString splices s at the caret and moves the caret past it.
func (t *textArea) insertString(s string) {
	runes := []rune(s)
	next := make([]rune, 0, len(t.text)+len(runes))
	next = append(next, t.text[:t.caret]...)
	next = append(next, runes...)
	next = append(next, t.text[t.caret:]...)
	t.text = next
	t.caret += len(runes)
	t.selStart, t.selEnd = t.caret, t.caret
}

func (t *textArea) insertRune(r rune) {
	t.insertString(string(r))
}

// backspace removes the rune before the caret.
func (t *textArea) backspace() {
	if t.caret == 0 {
		return
	}
	t.text = append(t.text[:t.caret-1], t.text[t.caret:]...)
	t.caret--
	t.selStart, t.selEnd = t.caret, t.caret
}

// deleteForward removes the rune under the caret.
func (t *textArea) deleteForward() {
	if t.caret >= len(t.text) {
		return
	}
	t.text = append(t.text[:t.caret], t.text[t.caret+1:]...)
	t.selStart, t.selEnd = t.caret, t.caret
}

// moveCaret shifts the caret horizontally by delta runes.
func (t *textArea) moveCaret(delta int) {
	t.caret = t.clamp(t.caret + delta)
	t.selStart, t.selEnd = t.caret, t.caret
}

// moveCaretLine shifts the caret vertically, keeping the column where the
// target line allows it.
func (t *textArea) moveCaretLine(delta int) {
	snap := bridge.NewSnapshot(t.Text())
	pos := snap.OffsetToPosition(t.caret)
	pos.Line += delta
	t.caret = snap.PositionToOffset(pos)
	t.selStart, t.selEnd = t.caret, t.caret
}
