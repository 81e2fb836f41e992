package enginetest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vimbridge/engine"
)

func TestFake_ZeroValueIsInert(t *testing.T) {
	var f Fake

	assert.False(t, f.Initialized())
	assert.Zero(t, f.LineCount())
	assert.Equal(t, "", f.Line(1))
	assert.Equal(t, engine.Position{}, f.Cursor())
	assert.False(t, f.SendKey(engine.KeyEscape))
	assert.False(t, f.SendChar('x'))

	f.SetLines(0, 0, []string{"ignored"})
	assert.Zero(t, f.LineCount())
}

func TestFake_SetLinesSplices(t *testing.T) {
	f := New()
	f.SetText("one\ntwo\nthree")

	f.SetLines(1, 1, []string{"TWO", "extra"})
	assert.Equal(t, "one\nTWO\nextra\nthree", f.Text())

	f.SetLines(0, f.LineCount(), nil)
	assert.Equal(t, 1, f.LineCount(), "the buffer never drops below one line")
	assert.Equal(t, "", f.Text())
}

func TestFake_SetLinesClampsRange(t *testing.T) {
	f := New()
	f.SetText("a\nb")

	f.SetLines(-3, 99, []string{"only"})
	assert.Equal(t, "only", f.Text())

	f.SetLines(99, 1, []string{"appended"})
	assert.Equal(t, "only\nappended", f.Text())
}

func TestFake_SetCursorClamps(t *testing.T) {
	f := New()
	f.SetText("abc\ndef")

	f.SetCursor(engine.Position{Line: 9, Col: 9})
	assert.Equal(t, engine.Position{Line: 2, Col: 3}, f.Cursor())

	f.SetCursor(engine.Position{Line: -1, Col: -1})
	assert.Equal(t, engine.Position{Line: 1, Col: 0}, f.Cursor())
}

func TestFake_CursorFollowsShrinkingBuffer(t *testing.T) {
	f := New()
	f.SetText("abc\ndef\nghi")
	f.SetCursor(engine.Position{Line: 3, Col: 2})

	f.SetText("ab")
	assert.Equal(t, engine.Position{Line: 1, Col: 2}, f.Cursor())
}

func TestFake_EscapeClearsFlags(t *testing.T) {
	f := New()
	f.SetFlags(engine.ModeFlags{Insert: true})
	f.SetVisual(engine.Position{Line: 1, Col: 0}, engine.Position{Line: 1, Col: 1}, engine.VisualChar)

	assert.True(t, f.SendKey(engine.KeyEscape))
	assert.Equal(t, engine.ModeFlags{}, f.ModeFlags())
	assert.False(t, f.VisualActive())
}

func TestFake_ScriptedHandlers(t *testing.T) {
	f := New()
	f.OnKey = func(k engine.SpecialKey) bool { return k == engine.KeyEnter }
	f.OnChar = func(r rune) bool { return r != 'q' }

	assert.True(t, f.SendKey(engine.KeyEnter))
	assert.False(t, f.SendKey(engine.KeyTab))
	assert.True(t, f.SendChar('a'))
	assert.False(t, f.SendChar('q'))

	assert.Equal(t, []engine.SpecialKey{engine.KeyEnter, engine.KeyTab}, f.KeysSent())
	assert.Equal(t, []rune{'a', 'q'}, f.CharsSent())
}

func TestFake_ChangeCallback(t *testing.T) {
	f := New()

	fired := 0
	f.SetChangeCallback(func() { fired++ })
	assert.True(t, f.HasChangeCallback())

	f.FireChange()
	assert.Equal(t, 1, fired)

	f.SetChangeCallback(nil)
	assert.False(t, f.HasChangeCallback())
	f.FireChange()
	assert.Equal(t, 1, fired)
}
