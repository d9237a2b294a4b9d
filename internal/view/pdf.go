package view

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 7.0
	pdfMaxChars  = 40
)

// WritePDF exports t as a landscape A4 document.
func WritePDF(w io.Writer, t Table, generated time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(t.Title, false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, t.Title)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Page %d of %d (%d records) - generated %s",
		t.Page.Current, t.Page.Total, t.Page.Items, DateTime(generated)))
	pdf.Ln(9)

	if len(t.Columns) == 0 {
		return pdf.Output(w)
	}
	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pdfMargin) / float64(len(t.Columns))
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(102, 126, 234)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range t.Columns {
		pdf.CellFormat(colWidth, pdfRowHeight, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range t.Rows {
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 250)
		for _, cell := range row.Cells {
			pdf.CellFormat(colWidth, pdfRowHeight, tr(Truncate(cell, pdfMaxChars)), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	if t.Empty() {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, pdfRowHeight, "No records")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
