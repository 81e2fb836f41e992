// Package highlighter maps buffer lines to chroma syntax tokens and lipgloss
// styles for the renderer.
package highlighter

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter tokenizes whole-buffer content lazily and caches the result
// per line. The whole buffer is tokenized at once because multi-line
// constructs (strings, comments, markdown blocks) cannot be recognized line
// by line.
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style

	mu         sync.RWMutex
	lineTokens map[int][]chroma.Token
	styleCache map[chroma.TokenType]lipgloss.Style
}

// TokenPosition locates a token inside its line, in rune columns.
type TokenPosition struct {
	Token    chroma.Token
	StartCol int
	EndCol   int
}

// New builds a highlighter for a chroma language and style name. Unknown
// names fall back to the plain-text lexer and default style.
func New(language, theme string) *Highlighter {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	return &Highlighter{
		lexer:      chroma.Coalesce(lexer),
		style:      styles.Get(theme),
		lineTokens: make(map[int][]chroma.Token),
		styleCache: make(map[chroma.TokenType]lipgloss.Style),
	}
}

// InvalidateCache drops all cached tokens; call it when the text changes.
func (h *Highlighter) InvalidateCache() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lineTokens = make(map[int][]chroma.Token)
}

// GetTokensForLine returns the tokens of the 0-indexed line, tokenizing the
// buffer on the first call after an invalidation.
func (h *Highlighter) GetTokensForLine(lineNum int, lines []string) []chroma.Token {
	h.mu.RLock()
	_, ready := h.lineTokens[0]
	h.mu.RUnlock()

	if !ready {
		h.tokenize(lines)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lineTokens[lineNum]
}

// tokenize runs the lexer over the joined buffer and splits the token stream
// back onto lines.
func (h *Highlighter) tokenize(lines []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lineTokens = make(map[int][]chroma.Token)

	content := strings.Join(lines, "\n")
	if content == "" {
		return
	}

	iterator, err := h.lexer.Tokenise(nil, content)
	if err != nil {
		// Cache empties so a broken lexer is not retried on every render.
		for i := range lines {
			h.lineTokens[i] = nil
		}
		return
	}

	lineNum := 0
	h.lineTokens[0] = []chroma.Token{}
	for _, token := range iterator.Tokens() {
		value := token.Value
		for strings.Contains(value, "\n") {
			before, after, _ := strings.Cut(value, "\n")
			if before != "" {
				h.lineTokens[lineNum] = append(h.lineTokens[lineNum], chroma.Token{Type: token.Type, Value: before})
			}
			lineNum++
			h.lineTokens[lineNum] = []chroma.Token{}
			value = after
		}
		if value != "" {
			h.lineTokens[lineNum] = append(h.lineTokens[lineNum], chroma.Token{Type: token.Type, Value: value})
		}
	}
}

// GetStyleForToken converts a chroma token type to a lipgloss style.
func (h *Highlighter) GetStyleForToken(tokenType chroma.TokenType) lipgloss.Style {
	h.mu.Lock()
	defer h.mu.Unlock()

	if style, ok := h.styleCache[tokenType]; ok {
		return style
	}

	entry := h.style.Get(tokenType)

	style := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		style = style.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		style = style.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}

	h.styleCache[tokenType] = style
	return style
}

// GetTokenPositions lays a line's tokens out as rune-column ranges.
func GetTokenPositions(tokens []chroma.Token) []TokenPosition {
	positions := make([]TokenPosition, 0, len(tokens))
	col := 0

	for _, token := range tokens {
		n := len([]rune(token.Value))
		positions = append(positions, TokenPosition{
			Token:    token,
			StartCol: col,
			EndCol:   col + n,
		})
		col += n
	}

	return positions
}

// FindTokenAtPosition finds the token covering the given rune column.
func FindTokenAtPosition(positions []TokenPosition, col int) (chroma.Token, bool) {
	for _, pos := range positions {
		if col >= pos.StartCol && col < pos.EndCol {
			return pos.Token, true
		}
	}
	return chroma.Token{}, false
}
