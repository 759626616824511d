package board

import (
	"fmt"
	"strings"

	"valentine/internal/overlay"
	"valentine/internal/theme"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func truncateText(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return xansi.Truncate(s, w, "…")
}

func (m Model) View() string {
	width, height := m.width, m.height
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := m.st.Board()
	n := len(b.Columns)
	if n == 0 {
		return overlay.Normalize(theme.Muted().Render("(no columns)"), width, height)
	}
	colW := m.columnWidth()

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorSurfaceFg).Background(theme.ColorControlBg)
	headerSelectedStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorSelectedFg).Background(theme.ColorSelectedBg)
	headerOverStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorAccentFg).Background(theme.ColorAccent)
	muted := theme.Muted()

	// Cards are one line; whitespace and a rule separate them.
	itemStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	itemSelectedStyle := itemStyle.Foreground(theme.ColorSelectedFg).Background(theme.ColorSelectedBg).Bold(true)
	itemDraggedStyle := itemStyle.Foreground(theme.ColorAccent).Italic(true)
	itemInnerW := colW - 2

	rows := m.visibleCards()

	renderCol := func(colIdx int) string {
		col := b.Columns[colIdx]
		cards := b.CardsIn(col.Type)

		label := strings.TrimSpace(col.Label)
		if label == "" {
			label = col.Type
		}
		hl := m.st.HighlightOf(col.Type)
		marker := "≡ "
		if hl == HighlightColumn {
			marker = "⇄ "
		}
		if m.st.Drag() == DragColumn && m.st.DraggedColumn() == col.Type {
			marker = "↔ "
		}
		head := truncateText(fmt.Sprintf("%s%s (%d)", marker, label, len(cards)), colW)

		hs := headerStyle
		switch {
		case hl != HighlightNone:
			hs = headerOverStyle
		case colIdx == m.focusCol:
			hs = headerSelectedStyle
		}
		lines := make([]string, 0, max(2, m.height))
		lines = append(lines, hs.Width(colW).Render(head))

		if len(cards) == 0 {
			lines = append(lines, muted.Render("(empty)"))
			return overlay.Normalize(strings.Join(lines, "\n"), colW, height)
		}

		// Padding above the first card.
		lines = append(lines, "")

		top := m.scroll[col.Type]
		end := min(len(cards), top+rows)
		for i := top; i < end; i++ {
			c := cards[i]
			title := strings.TrimSpace(c.Title)
			if title == "" {
				title = "(untitled)"
			}
			text := truncateText(title, itemInnerW)

			switch {
			case m.st.IsDraggedCard(c.ID):
				lines = append(lines, itemDraggedStyle.Render(text))
			case colIdx == m.focusCol && i == m.focusCard:
				lines = append(lines, itemSelectedStyle.Render(text))
			default:
				lines = append(lines, itemStyle.Render(text))
			}

			if i < end-1 {
				sepW := max(colW-2, 0)
				lines = append(lines, muted.Render(" "+strings.Repeat("─", sepW)+" "))
			}
		}
		return overlay.Normalize(strings.Join(lines, "\n"), colW, height)
	}

	rendered := make([]string, 0, n)
	for i := range b.Columns {
		rendered = append(rendered, renderCol(i))
	}

	out := rendered[0]
	sep := strings.Repeat(" ", columnGap)
	for i := 1; i < len(rendered); i++ {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, rendered[i])
	}
	return overlay.Normalize(out, width, height)
}

// HelpView renders the short key help.
func (m Model) HelpView() string {
	return m.help.View(m.keys)
}
