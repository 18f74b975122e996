package export

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 7.0
	pdfFontSize   = 9.0
	pdfTitleSize  = 14.0
	pdfCellMargin = 2.0
)

// WritePDF renders the row matrix as a landscape A4 table. The header row
// is repeated on every page.
func WritePDF(w io.Writer, title string, rows [][]string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	var header []string
	var body [][]string
	if len(rows) > 0 {
		header, body = rows[0], rows[1:]
	}
	widths := columnWidths(pdf, tr, header, body, usable)

	writeRow := func(cells []string, fill bool) {
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr, cell, widths[i]), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	newPage := func() {
		pdf.AddPage()
		if title != "" {
			pdf.SetFont("Helvetica", "B", pdfTitleSize)
			pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
			pdf.Ln(2)
		}
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(230, 230, 230)
		writeRow(header, true)
		pdf.SetFont("Helvetica", "", pdfFontSize)
	}

	newPage()
	for _, row := range body {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			newPage()
		}
		writeRow(row, false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// columnWidths sizes columns by their widest cell, scaled down to fit the page
func columnWidths(pdf *gofpdf.Fpdf, tr func(string) string, header []string, body [][]string, usable float64) []float64 {
	if len(header) == 0 {
		return nil
	}

	pdf.SetFont("Helvetica", "B", pdfFontSize)
	widths := make([]float64, len(header))
	for i, h := range header {
		widths[i] = pdf.GetStringWidth(tr(h)) + 2*pdfCellMargin
	}

	pdf.SetFont("Helvetica", "", pdfFontSize)
	for _, row := range body {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := pdf.GetStringWidth(tr(cell)) + 2*pdfCellMargin; w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0.0
	for _, w := range widths {
		total += w
	}
	if total > usable {
		scale := usable / total
		for i := range widths {
			widths[i] *= scale
		}
	}
	return widths
}

// fit truncates UTF-8 text with an ellipsis so it stays inside its cell and
// returns it in the font's encoding. Runes are cut before translation since
// the translated bytes are no longer UTF-8.
func fit(pdf *gofpdf.Fpdf, tr func(string) string, text string, width float64) string {
	limit := width - 2*pdfCellMargin
	if out := tr(text); pdf.GetStringWidth(out) <= limit {
		return out
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(tr(string(runes)+"...")) > limit {
		runes = runes[:len(runes)-1]
	}
	return tr(string(runes) + "...")
}
