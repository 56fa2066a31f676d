// Package ingestion extracts plain text from resume documents.
package ingestion

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// Supported document formats, by extension
const (
	FormatPDF  = ".pdf"
	FormatDOCX = ".docx"
	FormatTXT  = ".txt"
	FormatHTML = ".html"
	FormatHTM  = ".htm"
)

type extractFunc func(data []byte) (string, error)

var extractors = map[string]extractFunc{
	FormatPDF:  extractPDF,
	FormatDOCX: extractDOCX,
	FormatTXT:  decodeText,
	FormatHTML: extractHTML,
	FormatHTM:  extractHTML,
}

// SupportedFormats lists the accepted extensions.
func SupportedFormats() []string {
	return []string{FormatPDF, FormatDOCX, FormatTXT, FormatHTML, FormatHTM}
}

// IsSupported reports whether ext (with leading dot, any case) can be extracted.
func IsSupported(ext string) bool {
	_, ok := extractors[strings.ToLower(ext)]
	return ok
}

// Extractor reads documents and returns their text.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger.With("component", "ingestion")}
}

// ExtractText returns the text of the document at path. ext selects the format
// and defaults to the extension of path. An unsupported extension is an error;
// a document that cannot be read yields empty text and the failure is logged.
func (e *Extractor) ExtractText(path, ext string) (string, error) {
	if ext == "" {
		ext = filepath.Ext(path)
	}
	ext = strings.ToLower(ext)

	extract, ok := extractors[ext]
	if !ok {
		return "", &UnsupportedFormatError{Ext: ext}
	}

	text, err := readAndExtract(path, ext, extract)
	if err != nil {
		e.logger.Warn("text extraction failed", "path", path, "format", ext, "error", err)
		return "", nil
	}
	return text, nil
}

func readAndExtract(path, ext string, extract extractFunc) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractError{Format: ext, Path: path, Cause: err}
	}
	text, err := extract(data)
	if err != nil {
		return "", &ExtractError{Format: ext, Path: path, Cause: err}
	}
	return CleanText(text), nil
}

// extractPDF joins the plain text of every page with spaces.
func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString(" ")
	}
	return sb.String(), nil
}

// extractHTML returns the visible body text of an HTML document.
func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, head").Remove()
	// Block elements end lines so adjacent sections do not run together
	doc.Find("p, li, div, br, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}
