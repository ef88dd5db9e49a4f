// Package extract turns stored upload files into raw text. It understands
// PDF, DOC/DOCX and plain-text files and enforces safety ceilings on
// document size so a pathological upload cannot stall indexing.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	// ErrUnsupportedFormat is returned for extensions the extractor does not
	// understand. Callers treat it as a silent per-file skip.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrTooLarge is returned when a document exceeds the page or paragraph
	// ceiling. Callers treat it as a silent per-file skip.
	ErrTooLarge = errors.New("document exceeds extraction ceiling")
)

const (
	DefaultMaxPages      = 1000
	DefaultMaxParagraphs = 3000
)

// Extractor extracts plain text from uploaded documents.
type Extractor struct {
	MaxPages      int // PDF page ceiling
	MaxParagraphs int // DOC/DOCX paragraph ceiling
}

// New returns an Extractor with the given ceilings; non-positive values fall
// back to the defaults.
func New(maxPages, maxParagraphs int) *Extractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if maxParagraphs <= 0 {
		maxParagraphs = DefaultMaxParagraphs
	}
	return &Extractor{MaxPages: maxPages, MaxParagraphs: maxParagraphs}
}

// Supported reports whether the filename has an extension the extractor
// can handle.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".txt", ".doc", ".docx":
		return true
	}
	return false
}

// Text extracts the plain text of the file at path, dispatching on its
// extension.
func (e *Extractor) Text(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.pdfText(path)
	case ".doc", ".docx":
		return e.docxText(path)
	case ".txt":
		return plainText(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (e *Extractor) pdfText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat pdf: %w", err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	numPages := reader.NumPage()
	if numPages > e.MaxPages {
		return "", fmt.Errorf("%w: %d pages", ErrTooLarge, numPages)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// docx content arrives as raw WordprocessingML; paragraphs are <w:p> elements
// and text runs are <w:t> elements.
var (
	docxParagraphRe = regexp.MustCompile(`</w:p>`)
	docxTextRunRe   = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
)

func (e *Extractor) docxText(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("reading docx: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()

	paragraphs := len(docxParagraphRe.FindAllStringIndex(content, -1))
	if paragraphs > e.MaxParagraphs {
		return "", fmt.Errorf("%w: %d paragraphs", ErrTooLarge, paragraphs)
	}

	var sb strings.Builder
	for _, paragraph := range docxParagraphRe.Split(content, -1) {
		runs := docxTextRunRe.FindAllStringSubmatch(paragraph, -1)
		if len(runs) == 0 {
			continue
		}
		for _, run := range runs {
			sb.WriteString(run[1])
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func plainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	// Drop invalid byte sequences rather than failing the whole file.
	return strings.ToValidUTF8(string(data), ""), nil
}
