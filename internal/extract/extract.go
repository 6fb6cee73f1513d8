package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Document is the plain text pulled out of an input file.
type Document struct {
	Path  string
	Text  string
	Pages int
}

var (
	// ErrUnsupportedFormat is returned for extensions other than .pdf and .txt.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrInvalidUTF8 is returned when a text file is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("file is not valid UTF-8")
	// ErrPDF wraps any failure to read text out of a PDF.
	ErrPDF = errors.New("pdf text extraction failed")
)

// Extractor turns a file on disk into a Document.
type Extractor interface {
	Extract(path string) (Document, error)
}

// TextExtractor reads UTF-8 text files.
type TextExtractor struct{}

func (TextExtractor) Extract(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	text, err := FromText(b)
	if err != nil {
		return Document{}, err
	}
	return Document{Path: path, Text: text, Pages: 1}, nil
}

// FromText validates UTF-8 and returns the text unchanged.
func FromText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// ForPath picks an extractor by file extension, case-insensitively.
func ForPath(path string) (Extractor, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return PDFExtractor{}, nil
	case ".txt":
		return TextExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
