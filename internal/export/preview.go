package export

import (
	"strconv"
	"strings"
	"sync"

	"valentine/internal/model"
	"valentine/internal/theme"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	previewMu sync.Mutex
	// Renderers are cached by style and wrap width. WithAutoStyle is avoided
	// because it can block on terminal background queries.
	previewRenderers = map[string]*glamour.TermRenderer{}
)

// Preview renders the board's markdown for the terminal. On renderer errors
// the raw markdown is returned.
func Preview(b model.Board, width int) string {
	return RenderMarkdown(Markdown(b), width)
}

// RenderMarkdown renders any Markdown with the preview style.
func RenderMarkdown(src string, width int) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	width = max(width, 10)

	styleName := "light"
	if lipgloss.HasDarkBackground() {
		styleName = "dark"
	}
	key := styleName + ":" + strconv.Itoa(width)

	previewMu.Lock()
	r := previewRenderers[key]
	previewMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(previewStyle(styleName)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return src
		}
		previewMu.Lock()
		if existing := previewRenderers[key]; existing != nil {
			r = existing
		} else {
			previewRenderers[key] = rr
			r = rr
		}
		previewMu.Unlock()
	}

	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

func previewStyle(styleName string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if styleName == "light" {
		cfg = styles.LightStyleConfig
	}

	// Headings and text follow the widget palette.
	fg := paletteColor(theme.ColorSurfaceFg, styleName)
	cfg.Heading.Color = fg
	cfg.H1.Color = fg
	cfg.H2.Color = fg
	cfg.Text.Color = fg
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	return cfg
}

func paletteColor(c lipgloss.TerminalColor, styleName string) *string {
	ac, ok := c.(lipgloss.AdaptiveColor)
	if !ok {
		return nil
	}
	s := ac.Dark
	if styleName == "light" {
		s = ac.Light
	}
	return &s
}
