package bridge

// Signal is an event the bridge emits toward the host through a single
// buffered channel. Hosts drain the channel after each handled key; the
// dispatch never blocks the key-handling path.
type Signal any

// ModeSignal fires when the resolved mode changes. It is edge-triggered:
// processing keys that leave the mode unchanged emits nothing.
type ModeSignal struct {
	mode Mode
}

func (s ModeSignal) Value() Mode { return s.mode }

// TextSignal fires whenever the reconciled text changes, carrying the new
// full text. It is the autosave trigger.
type TextSignal struct {
	text string
}

func (s TextSignal) Value() string { return s.text }

// CloseSignal fires when the exit key is pressed in Normal mode: the whole
// editing surface should close. The bridge does not forward that key to the
// engine.
type CloseSignal struct{}

// ScrollSignal asks the host to scroll its viewport without any engine
// involvement. Lines is positive for down; HalfPage means Lines should be
// read as half-viewport units instead of lines.
type ScrollSignal struct {
	lines    int
	halfPage bool
}

func (s ScrollSignal) Value() (lines int, halfPage bool) {
	return s.lines, s.halfPage
}

// ScrollToSignal asks the host to jump its viewport to the top or bottom,
// after the bridge has already moved the engine cursor there.
type ScrollToSignal struct {
	top bool
}

func (s ScrollToSignal) Top() bool { return s.top }

func (b *Bridge) dispatch(sig Signal) {
	select {
	case b.signals <- sig:
	default: // host is not draining; drop rather than block the key path
	}
}
