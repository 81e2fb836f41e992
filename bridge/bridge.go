// Package bridge connects a flat-text editing widget to a modal editing
// engine. It owns the mode state machine, bidirectional buffer
// synchronization, flat-offset/line-column coordinate translation, and the
// routing of raw key input either to the engine or to native text insertion.
//
// Everything runs on the caller's thread: engine calls are synchronous and
// the only mutual-exclusion mechanism is a re-entrancy flag guarding against
// synchronous callback re-entry during a sync.
package bridge

import (
	"log"
	"time"

	"vimbridge/engine"
)

// Widget is the host-side flat-text surface the bridge drives. Text is the
// widget's current string; SetText replaces it wholesale after a pull;
// SetSelection positions the caret (zero-length) or selection in flat rune
// offsets.
type Widget interface {
	Text() string
	SetText(string)
	SetSelection(start, end int)
}

const (
	defaultTapWindow  = 400 * time.Millisecond
	defaultSignalSize = 64
)

// Bridge mediates between one widget and one engine. Create it with New and
// release it with Close; it is not safe for concurrent use, by design.
type Bridge struct {
	eng    engine.Engine
	widget Widget
	sync   synchronizer
	modes  modeTracker

	signals chan Signal
	logger  *log.Logger

	exitKey   KeyCode
	tapWindow time.Duration
	now       func() time.Time
	tapKey    rune
	tapAt     time.Time

	// syncing suppresses re-entrant sync triggers (engine change callbacks
	// fired by our own SetLines, widget change notifications fired by our
	// own SetText) while a push or pull is being applied.
	syncing     bool
	initialized bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger injects a logger for degraded-path diagnostics. The default
// discards nothing and logs nowhere; nil is valid.
func WithLogger(l *log.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// WithExitKey overrides the key that leaves Insert mode and, in Normal mode,
// closes the editing surface. Defaults to Escape.
func WithExitKey(code KeyCode) Option {
	return func(b *Bridge) { b.exitKey = code }
}

// WithDoubleTapWindow overrides the go-to-top/bottom gesture window.
func WithDoubleTapWindow(d time.Duration) Option {
	return func(b *Bridge) { b.tapWindow = d }
}

// WithClock injects a time source for the gesture window; tests use this.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) { b.now = now }
}

// New builds a bridge over the given engine and widget, initializes the
// engine, pushes the widget's current text into it and registers the
// engine's buffer-changed callback.
//
// If the engine is nil or fails to initialize, New still returns a usable
// bridge: every key falls through to native handling until the engine is
// replaced, and the error (if any) is returned for the host to log. Input is
// never silently dropped.
func New(eng engine.Engine, w Widget, opts ...Option) (*Bridge, error) {
	b := &Bridge{
		eng:       eng,
		widget:    w,
		signals:   make(chan Signal, defaultSignalSize),
		exitKey:   KeyEscape,
		tapWindow: defaultTapWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	if eng == nil {
		return b, nil
	}
	if err := eng.Initialize(); err != nil {
		b.logf("engine initialize failed, editing natively: %v", err)
		return b, err
	}
	b.initialized = true
	b.sync.eng = eng

	if w != nil {
		b.pushText(w.Text())
	}
	b.modes.update(eng.ModeFlags())
	eng.SetChangeCallback(b.onEngineChanged)

	return b, nil
}

// Close deregisters the engine callback. Call it before releasing the
// bridge so the engine cannot call into a dead host.
func (b *Bridge) Close() {
	if b.eng != nil {
		b.eng.SetChangeCallback(nil)
	}
}

// Mode returns the current resolved mode.
func (b *Bridge) Mode() Mode { return b.modes.current }

// Signals returns the event channel. Hosts drain it non-blocking after each
// handled key; an undrained channel drops events rather than blocking.
func (b *Bridge) Signals() <-chan Signal { return b.signals }

// SyncToEngine pushes the widget's current text into the engine. Idempotent:
// unchanged text performs no engine work. Hosts call this after replacing
// the widget string programmatically.
func (b *Bridge) SyncToEngine() {
	if !b.ready() || b.syncing {
		return
	}
	b.pushText(b.widget.Text())
}

// SyncFromEngine pulls the engine's buffer and cursor/selection into the
// widget. Idempotent: an unchanged buffer only repositions the selection.
func (b *Bridge) SyncFromEngine() {
	b.pullIntoWidget()
}

// NotifyWidgetChanged is the widget-originated change notification. It
// re-pushes the widget text into the engine, except while a pull is being
// applied (re-entrancy) or in Insert mode, where the push is suppressed
// until the exit key reconciles the buffers.
func (b *Bridge) NotifyWidgetChanged() {
	if !b.ready() || b.syncing {
		return
	}
	if b.modes.current == ModeInsert || b.modes.current == ModeReplace {
		return
	}
	b.pushText(b.widget.Text())
}

func (b *Bridge) ready() bool {
	return b.eng != nil && b.widget != nil && b.initialized
}

// pushText pushes under the re-entrancy flag and emits TextSignal when the
// reconciled text actually changed.
func (b *Bridge) pushText(text string) {
	b.syncing = true
	pushed := b.sync.push(text)
	b.syncing = false
	if pushed {
		b.dispatch(TextSignal{text: text})
	}
}

// pullIntoWidget applies a pull to the widget under the re-entrancy flag.
// The most recent pull is authoritative for the widget: no merging, the
// widget string is replaced outright when it differs.
func (b *Bridge) pullIntoWidget() {
	if !b.ready() || b.syncing {
		return
	}
	b.syncing = true
	text, sel, changed := b.sync.pull()
	if text != b.widget.Text() {
		b.widget.SetText(text)
	}
	b.widget.SetSelection(sel.Start, sel.End)
	b.syncing = false
	if changed {
		b.dispatch(TextSignal{text: text})
	}
}

// onEngineChanged is the engine's buffer-changed callback: the engine
// mutated its buffer outside a direct call, so pull. The syncing flag keeps
// our own SetLines from looping back through here.
func (b *Bridge) onEngineChanged() {
	if b.syncing {
		return
	}
	b.pullIntoWidget()
}

// updateMode re-resolves the mode from engine flags and emits the
// edge-triggered mode-changed signal.
func (b *Bridge) updateMode() {
	mode, changed := b.modes.update(b.eng.ModeFlags())
	if changed {
		b.dispatch(ModeSignal{mode: mode})
	}
}

func (b *Bridge) logf(format string, args ...any) {
	if b.logger != nil {
		b.logger.Printf(format, args...)
	}
}
