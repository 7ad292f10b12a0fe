// Package extract turns a permit document's binary content into a linear
// text representation, preserving the visual reading order as closely as
// the source format allows.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// DocumentUnreadableError reports a payload that cannot be opened, is not a
// supported document type, or yields no extractable text.
type DocumentUnreadableError struct {
	Source string
	Reason string
	Err    error
}

func (e *DocumentUnreadableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document %q unreadable: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("document %q unreadable: %s", e.Source, e.Reason)
}

func (e *DocumentUnreadableError) Unwrap() error { return e.Err }

// Extractor extracts text from PDF documents using MuPDF.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new text extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// TextFromFile extracts the full text of the document at path, pages
// concatenated in order.
func (e *Extractor) TextFromFile(path string) (string, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return "", &DocumentUnreadableError{Source: path, Reason: fmt.Sprintf("unsupported document type %q", ext)}
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", &DocumentUnreadableError{Source: path, Reason: "cannot open document", Err: err}
	}
	defer doc.Close()

	return e.collectText(doc, path)
}

// TextFromBytes extracts the full text of an in-memory document payload.
// source identifies the payload in errors and logs.
func (e *Extractor) TextFromBytes(data []byte, source string) (string, error) {
	if len(data) == 0 {
		return "", &DocumentUnreadableError{Source: source, Reason: "empty payload"}
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", &DocumentUnreadableError{Source: source, Reason: "cannot open document", Err: err}
	}
	defer doc.Close()

	return e.collectText(doc, source)
}

func (e *Extractor) collectText(doc *fitz.Document, source string) (string, error) {
	var sb strings.Builder
	pageCount := doc.NumPage()
	for page := 0; page < pageCount; page++ {
		text, err := doc.Text(page)
		if err != nil {
			return "", &DocumentUnreadableError{Source: source, Reason: fmt.Sprintf("cannot read page %d", page+1), Err: err}
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", &DocumentUnreadableError{Source: source, Reason: "no extractable text"}
	}

	e.logger.Debug("extracted document text",
		zap.String("source", source),
		zap.Int("pages", pageCount),
		zap.Int("chars", len(text)))

	return text, nil
}
