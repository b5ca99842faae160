// ABOUTME: PDF page text extraction for ingestion
// ABOUTME: Uses ledongthuc/pdf behind the PageExtractor interface
package ingest

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageExtractor returns the plain text of each page of a PDF, in page order.
// The slice index is the 0-based page number.
type PageExtractor interface {
	Pages(data []byte) ([]string, error)
}

// PDFExtractor extracts page text with github.com/ledongthuc/pdf
type PDFExtractor struct{}

// NewPDFExtractor creates the default PageExtractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Pages implements PageExtractor. Pages that cannot be read come back empty
// so that later pages keep their real page numbers.
func (e *PDFExtractor) Pages(data []byte) (pages []string, err error) {
	// the parser panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
