package bridge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vimbridge/engine"
	"vimbridge/engine/enginetest"
)

type fakeWidget struct {
	text      string
	selStart  int
	selEnd    int
	setTexts  int
	onSetText func()
}

func (w *fakeWidget) Text() string { return w.text }

func (w *fakeWidget) SetText(s string) {
	w.text = s
	w.setTexts++
	if w.onSetText != nil {
		w.onSetText()
	}
}

func (w *fakeWidget) SetSelection(start, end int) {
	w.selStart, w.selEnd = start, end
}

func newTestBridge(t *testing.T, text string, opts ...Option) (*Bridge, *enginetest.Fake, *fakeWidget) {
	t.Helper()
	eng := enginetest.New()
	w := &fakeWidget{text: text}
	b, err := New(eng, w, opts...)
	require.NoError(t, err)
	drainSignals(b) // discard construction-time signals
	return b, eng, w
}

func drainSignals(b *Bridge) []Signal {
	var out []Signal
	for {
		select {
		case sig := <-b.Signals():
			out = append(out, sig)
		default:
			return out
		}
	}
}

// enterInsert scripts the engine to raise the insert flag on 'i' and sends
// the key through the bridge.
func enterInsert(t *testing.T, b *Bridge, eng *enginetest.Fake) {
	t.Helper()
	eng.OnChar = func(r rune) bool {
		if r == 'i' {
			eng.SetFlags(engine.ModeFlags{Insert: true})
		}
		return true
	}
	require.True(t, b.HandleKey(Char('i')))
	require.Equal(t, ModeInsert, b.Mode())
	drainSignals(b)
}

func TestNew_SeedsEngineFromWidget(t *testing.T) {
	b, eng, _ := newTestBridge(t, "abc\ndef")

	assert.Equal(t, "abc\ndef", eng.Text())
	assert.True(t, eng.HasChangeCallback())
	assert.Equal(t, ModeNormal, b.Mode())

	b.Close()
	assert.False(t, eng.HasChangeCallback())
}

func TestNew_NilEngineFallsOpen(t *testing.T) {
	w := &fakeWidget{text: "abc"}
	b, err := New(nil, w)
	require.NoError(t, err)

	assert.False(t, b.HandleKey(Char('x')), "keys must reach native handling")
	assert.NotPanics(t, func() {
		b.NotifyWidgetChanged()
		b.SyncToEngine()
		b.SyncFromEngine()
		b.Close()
	})
}

type initFailEngine struct{ *enginetest.Fake }

func (initFailEngine) Initialize() error { return errors.New("engine unavailable") }

func TestNew_InitializeFailureFallsOpen(t *testing.T) {
	w := &fakeWidget{text: "abc"}
	b, err := New(initFailEngine{&enginetest.Fake{}}, w)
	require.Error(t, err)
	require.NotNil(t, b)

	assert.False(t, b.HandleKey(Char('x')))
	assert.Empty(t, drainSignals(b))
}

func TestHandleKey_ForwardsToEngine(t *testing.T) {
	b, eng, _ := newTestBridge(t, "abc")

	assert.True(t, b.HandleKey(Char('x')))
	assert.Equal(t, []rune{'x'}, eng.CharsSent())

	assert.True(t, b.HandleKey(KeyEvent{Code: KeyEnter}))
	assert.True(t, b.HandleKey(Ctrl('r')))
	assert.Equal(t, []engine.SpecialKey{engine.KeyEnter, "<C-r>"}, eng.KeysSent())
}

func TestHandleKey_UnconsumedKeyFallsThrough(t *testing.T) {
	b, eng, w := newTestBridge(t, "abc")
	eng.OnChar = func(rune) bool { return false }

	assert.False(t, b.HandleKey(Char('q')))
	assert.Equal(t, []rune{'q'}, eng.CharsSent())
	assert.Zero(t, w.setTexts, "no pull after an unconsumed key")
}

func TestHandleKey_PushesWidgetTextBeforeForwarding(t *testing.T) {
	b, eng, w := newTestBridge(t, "abc")

	var atSend string
	eng.OnChar = func(rune) bool {
		atSend = eng.Text()
		return true
	}

	w.text = "edited"
	b.HandleKey(Char('x'))
	assert.Equal(t, "edited", atSend, "engine must see the widget text when the key lands")
}

func TestHandleKey_InsertModePassthrough(t *testing.T) {
	b, eng, _ := newTestBridge(t, "abc")
	enterInsert(t, b, eng)
	before := len(eng.CharsSent())

	assert.False(t, b.HandleKey(Char('x')), "insert typing is native")
	assert.False(t, b.HandleKey(KeyEvent{Code: KeyEnter}))
	assert.Len(t, eng.CharsSent(), before)
	assert.Equal(t, ModeInsert, b.Mode())
	assert.Empty(t, drainSignals(b))
}

func TestHandleKey_InsertModeSuppressesPush(t *testing.T) {
	b, eng, w := newTestBridge(t, "abc")
	enterInsert(t, b, eng)
	calls := eng.SetLinesCalls()

	w.text = "xabc"
	b.NotifyWidgetChanged()
	assert.Equal(t, calls, eng.SetLinesCalls(), "insert-mode edits stay widget-side")
}

func TestHandleKey_ExitKeyReconciles(t *testing.T) {
	b, eng, w := newTestBridge(t, "abc")
	enterInsert(t, b, eng)
	eng.OnChar = nil

	w.text = "abcdef\nmore"
	assert.True(t, b.HandleKey(KeyEvent{Code: KeyEscape}))

	assert.Equal(t, "abcdef\nmore", eng.Text(), "widget edits pushed on exit")
	assert.Contains(t, eng.KeysSent(), engine.KeyEscape)
	assert.Equal(t, ModeNormal, b.Mode())

	sigs := drainSignals(b)
	assert.Contains(t, sigs, TextSignal{text: "abcdef\nmore"})
	assert.Contains(t, sigs, ModeSignal{mode: ModeNormal})
}

func TestHandleKey_NormalModeEscapeCloses(t *testing.T) {
	b, eng, _ := newTestBridge(t, "abc")

	assert.True(t, b.HandleKey(KeyEvent{Code: KeyEscape}))
	assert.Empty(t, eng.KeysSent(), "close is app-level, the engine never sees it")
	assert.Contains(t, drainSignals(b), Signal(CloseSignal{}))
}

func TestHandleKey_VisualModeEscapeGoesToEngine(t *testing.T) {
	b, eng, _ := newTestBridge(t, "abc\ndef")
	eng.SetVisual(engine.Position{Line: 1, Col: 0}, engine.Position{Line: 2, Col: 0}, engine.VisualChar)
	b.HandleKey(Char('l')) // any engine key refreshes the mode
	require.Equal(t, ModeVisual, b.Mode())
	drainSignals(b)

	assert.True(t, b.HandleKey(KeyEvent{Code: KeyEscape}))
	assert.Contains(t, eng.KeysSent(), engine.KeyEscape)
	assert.Equal(t, ModeNormal, b.Mode())
	assert.NotContains(t, drainSignals(b), Signal(CloseSignal{}))
}

func TestHandleKey_ScrollShortcuts(t *testing.T) {
	tests := []struct {
		name     string
		key      KeyEvent
		lines    int
		halfPage bool
	}{
		{"half page down", Ctrl('d'), 1, true},
		{"half page up", Ctrl('u'), -1, true},
		{"line down", Ctrl('e'), 1, false},
		{"line up", Ctrl('y'), -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, eng, _ := newTestBridge(t, "abc")

			assert.True(t, b.HandleKey(tt.key))
			assert.Empty(t, eng.KeysSent())

			sigs := drainSignals(b)
			require.Len(t, sigs, 1)
			scroll, ok := sigs[0].(ScrollSignal)
			require.True(t, ok)
			lines, halfPage := scroll.Value()
			assert.Equal(t, tt.lines, lines)
			assert.Equal(t, tt.halfPage, halfPage)
		})
	}
}

func TestHandleKey_DoubleTapBottom(t *testing.T) {
	now := time.Unix(0, 0)
	b, eng, _ := newTestBridge(t, "abc\ndef\nghi",
		WithClock(func() time.Time { return now }))

	assert.True(t, b.HandleKey(Char('G')), "first tap is held pending")
	assert.Empty(t, drainSignals(b))
	assert.Empty(t, eng.CharsSent(), "pending tap never reaches the engine")

	now = now.Add(100 * time.Millisecond)
	assert.True(t, b.HandleKey(Char('G')))
	assert.Equal(t, engine.Position{Line: 3, Col: 0}, eng.Cursor())

	sigs := drainSignals(b)
	require.NotEmpty(t, sigs)
	jump, ok := sigs[len(sigs)-1].(ScrollToSignal)
	require.True(t, ok)
	assert.False(t, jump.Top())
}

func TestHandleKey_DoubleTapTopExpires(t *testing.T) {
	now := time.Unix(0, 0)
	b, eng, _ := newTestBridge(t, "abc\ndef\nghi",
		WithClock(func() time.Time { return now }))
	eng.SetCursor(engine.Position{Line: 3, Col: 1})

	b.HandleKey(Char('g'))
	now = now.Add(500 * time.Millisecond)
	assert.True(t, b.HandleKey(Char('g')), "late tap starts a new gesture")
	assert.Empty(t, drainSignals(b))
	assert.Equal(t, engine.Position{Line: 3, Col: 1}, eng.Cursor())

	now = now.Add(100 * time.Millisecond)
	assert.True(t, b.HandleKey(Char('g')))
	assert.Equal(t, engine.Position{Line: 1, Col: 0}, eng.Cursor())

	sigs := drainSignals(b)
	require.NotEmpty(t, sigs)
	jump, ok := sigs[len(sigs)-1].(ScrollToSignal)
	require.True(t, ok)
	assert.True(t, jump.Top())
}

func TestHandleKey_OtherKeyCancelsPendingTap(t *testing.T) {
	now := time.Unix(0, 0)
	b, eng, _ := newTestBridge(t, "abc\ndef\nghi",
		WithClock(func() time.Time { return now }))

	b.HandleKey(Char('g'))
	b.HandleKey(Char('x'))
	assert.Equal(t, []rune{'x'}, eng.CharsSent())

	now = now.Add(100 * time.Millisecond)
	assert.True(t, b.HandleKey(Char('g')), "held pending again, not fired")
	assert.Empty(t, drainSignals(b))
}

func TestBridge_EngineChangePullsIntoWidget(t *testing.T) {
	b, eng, w := newTestBridge(t, "abc")

	eng.SetText("engine side")
	eng.FireChange()

	assert.Equal(t, "engine side", w.text)
	assert.Contains(t, drainSignals(b), TextSignal{text: "engine side"})
}

func TestBridge_PullDoesNotEchoBack(t *testing.T) {
	b, eng, w := newTestBridge(t, "abc")
	w.onSetText = func() { b.NotifyWidgetChanged() }

	eng.SetText("changed")
	calls := eng.SetLinesCalls()
	eng.FireChange()

	assert.Equal(t, "changed", w.text)
	assert.Equal(t, calls, eng.SetLinesCalls(), "the applied pull must not push back")
}

func TestBridge_SyncToEngineIdempotent(t *testing.T) {
	b, eng, w := newTestBridge(t, "abc")
	calls := eng.SetLinesCalls()

	b.SyncToEngine()
	assert.Equal(t, calls, eng.SetLinesCalls())

	w.text = "abc\nnew"
	b.SyncToEngine()
	assert.Equal(t, "abc\nnew", eng.Text())
	assert.Contains(t, drainSignals(b), TextSignal{text: "abc\nnew"})
}

func TestBridge_SyncFromEnginePositionsCaret(t *testing.T) {
	b, eng, w := newTestBridge(t, "abc\ndef")
	eng.SetCursor(engine.Position{Line: 2, Col: 1})

	b.SyncFromEngine()
	assert.Equal(t, 5, w.selStart)
	assert.Equal(t, 5, w.selEnd)
}

func TestBridge_SignalOverflowDropsInsteadOfBlocking(t *testing.T) {
	b, _, _ := newTestBridge(t, "abc")

	assert.NotPanics(t, func() {
		for i := 0; i < defaultSignalSize*2; i++ {
			b.HandleKey(Ctrl('d'))
		}
	})
	assert.Len(t, drainSignals(b), defaultSignalSize)
}
