package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PDFExtractor pulls text from each page of a PDF in page order.
type PDFExtractor struct{}

func (PDFExtractor) Extract(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	text, pages, err := FromPDF(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return Document{}, err
	}
	log.Debug().Str("path", path).Int("pages", pages).Int("chars", len(text)).Msg("pdf text extracted")
	return Document{Path: path, Text: text, Pages: pages}, nil
}

// FromPDF extracts plain text page by page, appending a newline after each
// page. Typographic ligatures are expanded to plain letters; all other text is
// passed through. Parser panics on malformed input are reported as ErrPDF.
func FromPDF(r io.ReaderAt, size int64) (text string, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, pages = "", 0
			err = fmt.Errorf("%w: %v", ErrPDF, rec)
		}
	}()
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrPDF, err)
	}
	n := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			sb.WriteString("\n")
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("%w: page %d: %v", ErrPDF, i, err)
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return expandLigatures(sb.String()), n, nil
}

// isLigature covers the Latin ligatures block, U+FB00 (ff) to U+FB06 (st).
func isLigature(r rune) bool { return r >= '\ufb00' && r <= '\ufb06' }

// expandLigatures applies NFKC to ligature runes only, so "\ufb01le" becomes
// "file" while ellipses, superscripts and full-width forms stay as they are.
func expandLigatures(s string) string {
	t := runes.If(runes.Predicate(isLigature), norm.NFKC, nil)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
