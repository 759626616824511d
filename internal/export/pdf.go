package export

import (
	"fmt"
	"io"
	"strings"

	"valentine/internal/model"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres.
const (
	pdfMargin       = 10.0
	pdfContentWidth = 180.0
	pdfLineHeight   = 6.0
)

type PDFOptions struct {
	// AutoPrint embeds a script that opens the print dialog when the
	// document is opened.
	AutoPrint bool
}

// PDF writes the board as an A4 document.
func PDF(w io.Writer, b model.Board, opt PDFOptions) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	title := strings.TrimSpace(b.Title)
	if title == "" {
		title = b.ID
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("valentine", true)
	if opt.AutoPrint {
		pdf.SetJavascript("print(true);")
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(pdfContentWidth, 8, tr(title), "", "L", false)

	for _, col := range b.Columns {
		cards := b.CardsIn(col.Type)
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(pdfContentWidth, 7, tr(fmt.Sprintf("%s (%d)", columnLabel(col), len(cards))), "B", "L", false)
		pdf.Ln(1)

		pdf.SetFont("Helvetica", "", 10)
		if len(cards) == 0 {
			pdf.SetTextColor(128, 128, 128)
			pdf.MultiCell(pdfContentWidth, pdfLineHeight, tr("No cards."), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
			continue
		}
		for _, c := range cards {
			pdf.MultiCell(pdfContentWidth, pdfLineHeight, tr("- "+cardTitle(c)), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
