package export

import (
	"bytes"
	"html"
	"strings"

	"valentine/internal/model"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var converter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the board's markdown as a standalone HTML page.
func HTML(b model.Board) ([]byte, error) {
	var body bytes.Buffer
	if err := converter.Convert([]byte(Markdown(b)), &body); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(b.Title)
	if title == "" {
		title = b.ID
	}

	var out bytes.Buffer
	out.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	out.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}
