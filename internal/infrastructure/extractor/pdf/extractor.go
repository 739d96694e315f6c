package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/askdoc/askdoc/internal/core/domain"
	"github.com/askdoc/askdoc/internal/core/ports"
)

// Extractor pulls per-page plain text out of stored PDF files. Page numbers
// are 1-based and follow the PDF page order; pages without extractable text
// are returned empty so downstream chunking can skip them without losing
// the page numbering.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) ExtractPages(ctx context.Context, doc *domain.Document) ([]domain.PageText, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	parsed, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse pdf", err)
	}

	pageCount := parsed.NumPage()
	out := make([]domain.PageText, 0, pageCount)
	for number := 1; number <= pageCount; number++ {
		page := parsed.Page(number)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			out = append(out, domain.PageText{Number: number})
			continue
		}
		out = append(out, domain.PageText{
			Number: number,
			Text:   strings.TrimSpace(text),
		})
	}

	if allBlank(out) {
		return nil, nil
	}
	return out, nil
}

func allBlank(pages []domain.PageText) bool {
	for _, page := range pages {
		if strings.TrimSpace(page.Text) != "" {
			return false
		}
	}
	return true
}
