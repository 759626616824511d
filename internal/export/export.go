// Package export renders boards to Markdown, HTML and PDF files and to a
// terminal preview.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"valentine/internal/model"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("invalid export format: %q (expected md|html|pdf)", s)
	}
}

type WriteOptions struct {
	Overwrite bool
	AutoPrint bool
}

type WriteResult struct {
	Written []string `json:"written" yaml:"written"`
}

// Render returns the board encoded in format f.
func Render(b model.Board, f Format, opt WriteOptions) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(Markdown(b)), nil
	case FormatHTML:
		return HTML(b)
	case FormatPDF:
		var buf bytes.Buffer
		if err := PDF(&buf, b, PDFOptions{AutoPrint: opt.AutoPrint}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("invalid export format: %q", f)
	}
}

// FileName is the default file name for a board export.
func FileName(b model.Board, f Format) string {
	return b.ID + "." + string(f)
}

// Write renders the board and writes it to path.
func Write(b model.Board, f Format, path string, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing output path")
	}
	data, err := Render(b, f, opt)
	if err != nil {
		return WriteResult{}, err
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, err
	}
	if err := writeFile(path, data, opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
