package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin     = 10 // mm
	pdfLineHeight = 4.5
	pdfFontSize   = 9
)

// PDFWriter はレポートの行を PDF に書き出すインターフェースです
type PDFWriter interface {
	WritePDF(path, title string, lines []string) error
}

// PDFExporter は gofpdf を使って等幅フォントで PDF を作成します
type PDFExporter struct{}

// WritePDF は行をそのままの順序で PDF に書き出します
func (PDFExporter) WritePDF(path, title string, lines []string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	pdf.SetFont("Courier", "", pdfFontSize)

	// 組み込みフォントは cp1252 のため変換する
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()
	width := pageWidth - 2*pdfMargin

	for _, line := range lines {
		if line == "" {
			pdf.Ln(pdfLineHeight)
			continue
		}
		pdf.MultiCell(width, pdfLineHeight, tr(line), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("%w: failed to write pdf %s: %v", ErrWriteReport, path, err)
	}
	return nil
}
