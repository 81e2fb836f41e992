package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	adapter "vimbridge/adapter-bubbletea"
	"vimbridge/autosave"
	"vimbridge/engine/enginetest"
)

const sample = `package main

import "fmt"

func main() {
	// Press i to insert, Esc to leave, Esc again to quit.
	fmt.Println("hello from vimbridge")
}
`

type app struct {
	editor adapter.Model
}

func (a app) Init() tea.Cmd {
	return a.editor.Init()
}

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case adapter.CloseMsg:
		if err := a.editor.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "flush:", err)
		}
		return a, tea.Quit

	case tea.WindowSizeMsg:
		a.editor.SetSize(msg.Width, msg.Height)
	}

	model, cmd := a.editor.Update(msg)
	a.editor = model.(adapter.Model)
	return a, cmd
}

func (a app) View() string {
	return a.editor.View()
}

func main() {
	// The in-memory engine stands in for a real modal engine; it accepts
	// every key without interpreting motions, so this demo mostly shows the
	// native-editing and app-shortcut paths.
	eng := enginetest.New()

	editor := adapter.New(eng, 80, 24)
	editor.Focus()
	editor.SetContent([]byte(sample))
	editor.EnableSyntaxHighlighting("go", "catppuccin-mocha")
	editor.EnableAutosave(
		filepath.Join(os.TempDir(), "vimbridge-demo.go"),
		autosave.WithDelay(500*time.Millisecond),
	)

	p := tea.NewProgram(app{editor: editor}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
