package bubble_adapter

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"

	"vimbridge/adapter-bubbletea/highlighter"
	"vimbridge/bridge"
)

const (
	cellPlain = iota
	cellCursor
	cellSelection
	cellToken
)

// cellClass identifies how a cell is styled; runs of equal classes render as
// one segment.
type cellClass struct {
	kind  int
	token chroma.TokenType
}

func (m *Model) styleFor(class cellClass) lipgloss.Style {
	switch class.kind {
	case cellCursor:
		return m.theme.CursorStyle
	case cellSelection:
		return m.theme.SelectionStyle
	case cellToken:
		return m.highlighter.GetStyleForToken(class.token)
	default:
		return lipgloss.NewStyle()
	}
}

// renderContent builds the full buffer view: line numbers, syntax colors,
// the active selection and the block cursor, one styled line per buffer
// line. The viewport does the windowing.
func (m *Model) renderContent() string {
	snap := bridge.NewSnapshot(m.widget.Text())
	caretLine := snap.OffsetToPosition(m.widget.caret).Line

	lines := make([]string, snap.LineCount())
	for i := range lines {
		lines[i] = snap.Line(i + 1)
	}

	var sb strings.Builder
	off := 0
	for i, line := range lines {
		lineNum := i + 1
		if m.showLineNumbers {
			style := m.theme.LineNumberStyle
			if lineNum == caretLine {
				style = m.theme.CurrentLineNumberStyle
			}
			sb.WriteString(style.Render(strconv.Itoa(lineNum)))
			sb.WriteString(" ")
		}
		sb.WriteString(m.renderLine(i, line, off, lines))
		if lineNum < len(lines) {
			sb.WriteByte('\n')
		}
		off += len([]rune(line)) + 1
	}

	return sb.String()
}

// renderLine styles one line. Style precedence per cell: cursor, selection,
// syntax token, plain.
func (m *Model) renderLine(lineIdx int, line string, lineStart int, lines []string) string {
	runes := []rune(line)
	caret := m.widget.caret
	selStart, selEnd := m.widget.selStart, m.widget.selEnd
	showCursor := m.isFocused

	var positions []highlighter.TokenPosition
	if m.highlighter != nil {
		tokens := m.highlighter.GetTokensForLine(lineIdx, lines)
		positions = highlighter.GetTokenPositions(tokens)
	}

	classAt := func(col int) cellClass {
		off := lineStart + col
		switch {
		case showCursor && off == caret:
			return cellClass{kind: cellCursor}
		case m.widget.hasSelection() && off >= selStart && off < selEnd:
			return cellClass{kind: cellSelection}
		}
		if positions != nil {
			if token, ok := highlighter.FindTokenAtPosition(positions, col); ok {
				return cellClass{kind: cellToken, token: token.Type}
			}
		}
		return cellClass{kind: cellPlain}
	}

	// Batch runs of identically-styled runes into one Render call.
	var sb strings.Builder
	for col := 0; col < len(runes); {
		class := classAt(col)
		run := col + 1
		for run < len(runes) && classAt(run) == class {
			run++
		}
		sb.WriteString(m.styleFor(class).Render(string(runes[col:run])))
		col = run
	}

	// A caret past the last glyph still needs a visible block.
	if showCursor && caret == lineStart+len(runes) {
		sb.WriteString(m.theme.CursorStyle.Render(" "))
	}

	return sb.String()
}
