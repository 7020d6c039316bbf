package providers

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFTextExtractor pulls the plain text layer out of a PDF document.
type PDFTextExtractor struct{}

func NewPDFTextExtractor() *PDFTextExtractor {
	return &PDFTextExtractor{}
}

func (PDFTextExtractor) ExtractText(data []byte) (text string, err error) {
	// the parser panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
