package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/fatih/color"
)

const defaultMarkdownWidth = 80

type rendererKey struct {
	width int
	plain bool
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]*glamour.TermRenderer{}
)

// RenderMarkdown renders a generated description for the terminal. It
// returns the input unchanged when rendering fails.
func RenderMarkdown(input string, width int) string {
	input = strings.TrimRight(input, "\n")
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = defaultMarkdownWidth
	}

	r := getRenderer(width, color.NoColor)
	if r == nil {
		return input
	}
	out, err := r.Render(input)
	if err != nil {
		return input
	}
	return strings.Trim(out, "\n")
}

func getRenderer(width int, plain bool) *glamour.TermRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	key := rendererKey{width: width, plain: plain}
	if r, ok := renderers[key]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styleConfig(plain)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = r
	return r
}

func styleConfig(plain bool) glamouransi.StyleConfig {
	base := styles.DarkStyleConfig
	if plain {
		base = styles.NoTTYStyleConfig
	}
	zero := uint(0)
	base.Document.Margin = &zero
	return base
}
