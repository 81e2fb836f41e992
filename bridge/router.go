package bridge

import "vimbridge/engine"

// HandleKey routes one key event. The return value reports whether the key
// was consumed: false means the host should hand it to the widget's native
// handling (insert-mode typing, or an engine that is unavailable).
//
// Evaluation order, first match wins:
//
//  1. engine unavailable: fall open, nothing is consumed
//  2. Insert/Replace mode: exit key reconciles and leaves, anything else
//     inserts natively
//  3. app-level shortcuts (scrolling, go-to-top/bottom gesture)
//  4. Normal-mode exit key closes the editing surface
//  5. everything else is forwarded to the engine
func (b *Bridge) HandleKey(k KeyEvent) bool {
	if !b.ready() {
		return false
	}

	switch b.modes.current {
	case ModeInsert, ModeReplace:
		if k.Code != b.exitKey {
			return false
		}
		// Reconcile the widget's insert-mode typing before the engine
		// recomputes its state for Normal mode.
		b.pushText(b.widget.Text())
		b.eng.SendKey(engine.KeyEscape)
		b.pullIntoWidget()
		b.updateMode()
		return true
	}

	if b.appShortcut(k) {
		return true
	}
	b.resetTap()

	if b.modes.current == ModeNormal && k.Code == b.exitKey {
		b.dispatch(CloseSignal{})
		return true
	}

	b.pushText(b.widget.Text())
	var consumed bool
	if name, ok := k.engineKey(); ok {
		consumed = b.eng.SendKey(name)
	} else if k.Rune != 0 {
		consumed = b.eng.SendChar(k.Rune)
	}
	if consumed {
		b.pullIntoWidget()
	}
	b.updateMode()
	return consumed
}

// appShortcut intercepts keys the application handles itself, never the
// engine. Scroll signals carry direction and granularity; the go-to-top and
// go-to-bottom gestures additionally move the engine cursor so the view and
// the caret agree.
func (b *Bridge) appShortcut(k KeyEvent) bool {
	if k.Mods&ModCtrl != 0 {
		switch k.Rune {
		case 'd':
			b.dispatch(ScrollSignal{lines: 1, halfPage: true})
			return true
		case 'u':
			b.dispatch(ScrollSignal{lines: -1, halfPage: true})
			return true
		case 'e':
			b.dispatch(ScrollSignal{lines: 1})
			return true
		case 'y':
			b.dispatch(ScrollSignal{lines: -1})
			return true
		}
		return false
	}
	if k.Mods&^ModShift != 0 || k.Code != KeyNone {
		return false
	}

	switch k.Rune {
	case 'g', 'G':
		if !b.tapFired(k.Rune) {
			// First tap: held pending until the window elapses.
			return true
		}
		if k.Rune == 'g' {
			b.eng.SetCursor(engine.Position{Line: 1, Col: 0})
		} else {
			b.eng.SetCursor(engine.Position{Line: b.eng.LineCount(), Col: 0})
		}
		b.pullIntoWidget()
		b.dispatch(ScrollToSignal{top: k.Rune == 'g'})
		return true
	}
	return false
}

// tapFired reports whether r completes a double tap. A tap that does not
// complete one becomes the new pending tap.
func (b *Bridge) tapFired(r rune) bool {
	now := b.now()
	if b.tapKey == r && now.Sub(b.tapAt) <= b.tapWindow {
		b.tapKey = 0
		return true
	}
	b.tapKey = r
	b.tapAt = now
	return false
}

func (b *Bridge) resetTap() { b.tapKey = 0 }
