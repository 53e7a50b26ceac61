// Package extract pulls plain text out of source documents. It is the
// text-extraction boundary of the ingestion pipeline: one document in,
// page-ordered text out. Failures are per-document and permanent; the
// caller skips the document and continues.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether the extension (with leading dot) is a format
// the extractor understands.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".txt", ".md":
		return true
	}
	return false
}

// Extract reads the file at path and returns its text content, ordered by
// source position. PDF pages are concatenated in page order; DOCX text is
// taken from the main document body; .txt and .md are returned as-is.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".txt", ".md":
		return extractPlain(content)
	default:
		return "", faults.Permanent(fmt.Errorf("unsupported document format %q", ext))
	}
}
