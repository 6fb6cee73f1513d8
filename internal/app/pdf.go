package app

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writeSimplePDF renders the simplified document to a PDF. Lines wrapped in
// "===" become bold headings, everything else flows as paragraphs. Core fonts
// use cp1252, so text is translated first (the takeaway bullet survives).
func writeSimplePDF(text string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Simplified legal document", true)
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasPrefix(s, "===") && strings.HasSuffix(s, "===") {
			heading := strings.TrimSpace(strings.Trim(s, "="))
			if heading == "" {
				continue
			}
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 8, tr(heading), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		pdf.MultiCell(0, 5, tr(s), "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}
