package export

import (
	"bytes"
	"fmt"
	"strings"

	"valentine/internal/model"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

// Markdown renders a board as a document: the title, then one section per
// column with its cards as bullets.
func Markdown(b model.Board) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(b.Title)
	if title == "" {
		title = b.ID
	}
	writeLn("# " + mdEscaper.Replace(title))

	for _, col := range b.Columns {
		cards := b.CardsIn(col.Type)
		writeLn("")
		writeLn(fmt.Sprintf("## %s (%d)", mdEscaper.Replace(columnLabel(col)), len(cards)))
		writeLn("")
		if len(cards) == 0 {
			writeLn("_No cards._")
			continue
		}
		for _, c := range cards {
			writeLn("- " + mdEscaper.Replace(cardTitle(c)))
		}
	}
	return buf.String()
}

func columnLabel(c model.Column) string {
	if l := strings.TrimSpace(c.Label); l != "" {
		return l
	}
	return c.Type
}

func cardTitle(c model.Card) string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return "(untitled)"
}
