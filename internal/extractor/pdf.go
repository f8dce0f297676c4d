package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor pulls text out of PDF files page by page. parse may be nil
// when the build carries no PDF parser; Extract then reports the missing
// capability instead of failing obscurely.
type PDFExtractor struct {
	parse func(data []byte) (string, error)
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{parse: parsePDF}
}

func (e *PDFExtractor) Extract(data []byte) (string, error) {
	if e.parse == nil {
		return "", &CapabilityError{Capability: "PDF parsing (github.com/ledongthuc/pdf)"}
	}
	return e.parse(data)
}

func parsePDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var pages []string
	numPages := pdfReader.NumPage()

	// Pages joined in document order; a page that yields no text still
	// keeps its slot so ordering survives.
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}

		pages = append(pages, text)
	}

	extracted := strings.TrimSpace(strings.Join(pages, "\n"))
	if extracted == "" {
		return "", fmt.Errorf("no text could be extracted from PDF")
	}

	return extracted, nil
}
