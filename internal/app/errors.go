package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/plainlegal/internal/extract"
)

var (
	// ErrNoInputPath is returned when neither -input nor stdin supplies a path.
	ErrNoInputPath = errors.New("no input path provided")
	// ErrFileNotFound is returned when the resolved input path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnreadableFile covers I/O and encoding failures on text input.
	ErrUnreadableFile = errors.New("could not read file")
	// ErrUnsupportedFormat aliases the extractor's sentinel so callers only
	// need this package.
	ErrUnsupportedFormat = extract.ErrUnsupportedFormat
	// ErrPDFExtraction is returned when a PDF yields no text or cannot be parsed.
	ErrPDFExtraction = errors.New("could not extract text from pdf")
	// ErrEmptyDocument is returned for an empty text file. The CLI prints
	// nothing for it.
	ErrEmptyDocument = errors.New("empty document")
	// ErrSimplification wraps failures of the configured simplifier.
	ErrSimplification = errors.New("simplification failed")
)

// FileError ties a failure kind to the input path that caused it.
type FileError struct {
	Kind error
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage renders err as the single line shown to the user. It returns
// "" for conditions that print nothing.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	path := ""
	var fe *FileError
	if errors.As(err, &fe) {
		path = fe.Path
	}
	switch {
	case errors.Is(err, ErrEmptyDocument):
		return ""
	case errors.Is(err, ErrFileNotFound):
		return fmt.Sprintf("Error: File '%s' not found.", path)
	case errors.Is(err, ErrUnsupportedFormat):
		return "Error: Unsupported file format. Please provide a PDF or TXT file."
	case errors.Is(err, ErrPDFExtraction):
		return "Error: Could not extract text from PDF."
	case errors.Is(err, ErrUnreadableFile):
		cause := err
		if fe != nil && fe.Err != nil {
			cause = fe.Err
		}
		return fmt.Sprintf("Error: Could not read file '%s': %v", path, cause)
	case errors.Is(err, ErrSimplification):
		cause := strings.TrimPrefix(err.Error(), ErrSimplification.Error()+": ")
		return fmt.Sprintf("Error: Simplification failed: %s", cause)
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}
