// Package bubble_adapter hosts the vim bridge inside a Bubble Tea program:
// a flat-text widget rendered through a viewport, with the bridge deciding
// for every key whether the modal engine or native editing handles it.
package bubble_adapter

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vimbridge/adapter-bubbletea/highlighter"
	"vimbridge/autosave"
	"vimbridge/bridge"
	"vimbridge/engine"
)

type Theme struct {
	NormalModeStyle        lipgloss.Style
	InsertModeStyle        lipgloss.Style
	VisualModeStyle        lipgloss.Style
	CommandModeStyle       lipgloss.Style
	ReplaceModeStyle       lipgloss.Style
	StatusLineStyle        lipgloss.Style
	CommandLineStyle       lipgloss.Style
	MessageStyle           lipgloss.Style
	LineNumberStyle        lipgloss.Style
	CurrentLineNumberStyle lipgloss.Style
	SelectionStyle         lipgloss.Style
	CursorStyle            lipgloss.Style
	ErrorStyle             lipgloss.Style
}

var DefaultTheme = Theme{
	NormalModeStyle:        lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")),
	InsertModeStyle:        lipgloss.NewStyle().Background(lipgloss.Color("26")).Foreground(lipgloss.Color("255")),
	VisualModeStyle:        lipgloss.NewStyle().Background(lipgloss.Color("127")).Foreground(lipgloss.Color("255")),
	CommandModeStyle:       lipgloss.NewStyle().Background(lipgloss.Color("208")).Foreground(lipgloss.Color("255")),
	ReplaceModeStyle:       lipgloss.NewStyle().Background(lipgloss.Color("160")).Foreground(lipgloss.Color("255")),
	CommandLineStyle:       lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("255")),
	StatusLineStyle:        lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("255")),
	MessageStyle:           lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	ErrorStyle:             lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	LineNumberStyle:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Width(4).Align(lipgloss.Right),
	CurrentLineNumberStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(4).Align(lipgloss.Right),
	SelectionStyle:         lipgloss.NewStyle().Background(lipgloss.Color("237")),
	CursorStyle:            lipgloss.NewStyle().Reverse(true),
}

type Model struct {
	bridge      *bridge.Bridge
	widget      *textArea
	viewport    viewport.Model
	saver       *autosave.Saver
	highlighter *highlighter.Highlighter

	width           int
	height          int
	showLineNumbers bool
	showStatusLine  bool
	theme           Theme
	StatusLineFunc  func() string
	err             error
	message         string
	isFocused       bool
	viewScrolled    bool
}

type messageMsg string

type errMsg error

type clearMsg struct{}

// CloseMsg is emitted when the exit key is pressed in Normal mode; the host
// decides what closing the editor means.
type CloseMsg struct{}

func (m *Model) dispatchClearMsg() tea.Cmd {
	return tea.Tick(time.Second*3, func(t time.Time) tea.Msg {
		return clearMsg{}
	})
}

// New builds an editor over the given engine. A nil or failing engine is
// tolerated: the widget stays a plain text area until a working engine is
// supplied, which is the bridge's fail-open contract.
func New(eng engine.Engine, width, height int) Model {
	widget := &textArea{}
	b, err := bridge.New(eng, widget, bridge.WithLogger(log.Default()))

	vp := viewport.New(width, height-2)

	m := Model{
		bridge:          b,
		widget:          widget,
		viewport:        vp,
		showLineNumbers: true,
		showStatusLine:  true,
		theme:           DefaultTheme,
		err:             err,
	}

	m.SetSize(width, height)

	return m
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(1, height-2)
}

// SetContent replaces the widget text and pushes it into the engine.
func (m *Model) SetContent(content []byte) {
	m.widget.SetText(string(content))
	m.widget.SetSelection(0, 0)
	m.bridge.SyncToEngine()
	if m.highlighter != nil {
		m.highlighter.InvalidateCache()
	}
}

// GetContent returns the current widget text.
func (m *Model) GetContent() string {
	return m.widget.Text()
}

// WithTheme allows setting a custom theme for the editor.
func (m *Model) WithTheme(theme Theme) {
	m.theme = theme
}

// EnableAutosave persists the text to path after every quiet period.
func (m *Model) EnableAutosave(path string, opts ...autosave.Option) {
	m.saver = autosave.New(path, opts...)
}

// EnableSyntaxHighlighting colors the buffer with the given chroma language
// and theme, e.g. ("go", "catppuccin-mocha").
func (m *Model) EnableSyntaxHighlighting(language, theme string) {
	m.highlighter = highlighter.New(language, theme)
}

// HideLineNumbers controls whether to show line numbers in the viewport.
func (m *Model) HideLineNumbers(hide bool) {
	m.showLineNumbers = !hide
}

// HideStatusLine controls whether to show the status line at the bottom of
// the viewport.
func (m *Model) HideStatusLine(hide bool) {
	m.showStatusLine = !hide
}

// Mode returns the current editing mode.
func (m *Model) Mode() bridge.Mode {
	return m.bridge.Mode()
}

// Focus sets the editor to focused state.
func (m *Model) Focus() {
	m.isFocused = true
}

// Blur sets the editor to unfocused state.
func (m *Model) Blur() {
	m.isFocused = false
}

// IsFocused returns whether the editor is currently focused.
func (m *Model) IsFocused() bool {
	return m.isFocused
}

// Close flushes any pending autosave and detaches from the engine.
func (m *Model) Close() error {
	m.bridge.Close()
	if m.saver == nil {
		return nil
	}
	err := m.saver.Flush()
	m.saver.Stop()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if !m.IsFocused() {
			break
		}
		cmds = append(cmds, m.handleKey(msg)...)

		// Scroll-only keys deliberately detach the view from the caret;
		// every other key snaps it back into view.
		if m.viewScrolled {
			m.viewScrolled = false
		} else {
			m.ensureCaretVisible()
		}

	case messageMsg:
		m.message = string(msg)
		m.err = nil
		cmds = append(cmds, m.dispatchClearMsg())

	case errMsg:
		m.message = ""
		m.err = msg
		cmds = append(cmds, m.dispatchClearMsg())

	case clearMsg:
		m.message = ""
		m.err = nil
	}

	m.viewport.SetContent(m.renderContent())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) []tea.Cmd {
	// Clipboard is the host's concern, never the engine's.
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.widget.hasSelection() {
			return []tea.Cmd{m.copySelection()}
		}
	case tea.KeyCtrlV:
		return []tea.Cmd{m.pasteClipboard()}
	}

	key := convertBubbleKey(msg)
	if !m.bridge.HandleKey(key) {
		m.applyNative(key)
	}

	return m.drainSignals()
}

// applyNative performs the editing the bridge declined: Insert-mode typing,
// or everything when no engine is available.
func (m *Model) applyNative(k bridge.KeyEvent) {
	switch {
	case k.Code == bridge.KeyEnter:
		m.widget.insertRune('\n')
	case k.Code == bridge.KeyTab:
		m.widget.insertRune('\t')
	case k.Code == bridge.KeySpace:
		m.widget.insertRune(' ')
	case k.Code == bridge.KeyBackspace:
		m.widget.backspace()
	case k.Code == bridge.KeyDelete:
		m.widget.deleteForward()
	case k.Code == bridge.KeyLeft:
		m.widget.moveCaret(-1)
	case k.Code == bridge.KeyRight:
		m.widget.moveCaret(1)
	case k.Code == bridge.KeyUp:
		m.widget.moveCaretLine(-1)
	case k.Code == bridge.KeyDown:
		m.widget.moveCaretLine(1)
	case k.Mods&(bridge.ModCtrl|bridge.ModAlt) == 0 && k.Rune != 0:
		m.widget.insertRune(k.Rune)
	default:
		return
	}

	m.bridge.NotifyWidgetChanged()
	m.scheduleSave()
}

// drainSignals applies every pending bridge event. The channel is drained
// fully after each key so the view always reflects the final state.
func (m *Model) drainSignals() []tea.Cmd {
	var cmds []tea.Cmd
	for {
		select {
		case sig := <-m.bridge.Signals():
			switch sig := sig.(type) {
			case bridge.TextSignal:
				m.scheduleSave()

			case bridge.ScrollSignal:
				lines, halfPage := sig.Value()
				if halfPage {
					lines *= max(1, m.viewport.Height/2)
				}
				m.viewport.SetYOffset(m.viewport.YOffset + lines)
				m.viewScrolled = true

			case bridge.ScrollToSignal:
				if sig.Top() {
					m.viewport.GotoTop()
				} else {
					m.viewport.GotoBottom()
				}
				m.viewScrolled = true

			case bridge.CloseSignal:
				cmds = append(cmds, func() tea.Msg { return CloseMsg{} })
			}
		default:
			return cmds
		}
	}
}

// scheduleSave runs after every text change, from either side of the bridge.
func (m *Model) scheduleSave() {
	if m.highlighter != nil {
		m.highlighter.InvalidateCache()
	}
	if m.saver != nil {
		m.saver.Schedule(m.widget.Text())
	}
}

func (m *Model) copySelection() tea.Cmd {
	text := m.widget.selectedText()
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return errMsg(err)
		}
		snap := bridge.NewSnapshot(text)
		if n := snap.LineCount(); n > 1 {
			return messageMsg(fmt.Sprintf("%d lines yanked", n))
		}
		return messageMsg("selection yanked")
	}
}

func (m *Model) pasteClipboard() tea.Cmd {
	text, err := clipboard.ReadAll()
	if err != nil {
		return func() tea.Msg { return errMsg(err) }
	}
	m.widget.insertString(text)
	m.bridge.NotifyWidgetChanged()
	m.scheduleSave()
	return nil
}

// ensureCaretVisible scrolls the viewport just enough to keep the caret's
// line on screen.
func (m *Model) ensureCaretVisible() {
	snap := bridge.NewSnapshot(m.widget.Text())
	row := snap.OffsetToPosition(m.widget.caret).Line - 1

	if row < m.viewport.YOffset {
		m.viewport.SetYOffset(row)
	} else if row >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(row - m.viewport.Height + 1)
	}
}

func (m Model) View() string {
	content := m.viewport.View()

	var commandLine string
	if m.message != "" {
		commandLine = m.theme.MessageStyle.Render(m.message)
	}
	if m.err != nil {
		commandLine = m.theme.ErrorStyle.Render(m.err.Error())
	}

	statusLine := m.getStatusLine()

	paddingWidth := m.width - lipgloss.Width(statusLine)
	if paddingWidth > 0 {
		statusLine += m.theme.StatusLineStyle.Render(strings.Repeat(" ", paddingWidth))
	}

	paddingWidth = m.width - lipgloss.Width(commandLine)
	if paddingWidth > 0 {
		commandLine += m.theme.CommandLineStyle.Render(strings.Repeat(" ", paddingWidth))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		statusLine,
		commandLine,
	)
}

func (m *Model) getStatusLine() string {
	if !m.showStatusLine {
		return ""
	}

	if m.StatusLineFunc != nil {
		return m.StatusLineFunc()
	}

	mode := m.bridge.Mode()
	badge := " " + mode.String() + " "

	var statusLine string
	switch mode {
	case bridge.ModeInsert:
		statusLine = m.theme.InsertModeStyle.Render(badge)
	case bridge.ModeVisual, bridge.ModeVisualLine, bridge.ModeVisualBlock:
		statusLine = m.theme.VisualModeStyle.Render(badge)
	case bridge.ModeCommand:
		statusLine = m.theme.CommandModeStyle.Render(badge)
	case bridge.ModeReplace:
		statusLine = m.theme.ReplaceModeStyle.Render(badge)
	default:
		statusLine = m.theme.NormalModeStyle.Render(badge)
	}

	snap := bridge.NewSnapshot(m.widget.Text())
	pos := snap.OffsetToPosition(m.widget.caret)
	cursorInfo := fmt.Sprintf("%d/%d ", pos.Line, pos.Col+1)

	width := m.width - (lipgloss.Width(cursorInfo) + lipgloss.Width(statusLine))
	gap := strings.Repeat(" ", max(0, width))

	statusLine += m.theme.StatusLineStyle.Render(
		gap + cursorInfo,
	)

	return statusLine
}
