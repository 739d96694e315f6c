package ports

import (
	"context"
	"io"

	"github.com/askdoc/askdoc/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentQueryService is the inbound contract for RAG answering.
type DocumentQueryService interface {
	Answer(ctx context.Context, query string, topK int, filter domain.SearchFilter) (*domain.Answer, error)
	AnswerStream(ctx context.Context, query string, topK int, filter domain.SearchFilter) (<-chan domain.AnswerEvent, error)
}

// DocumentManager is the inbound read/delete model for document state.
type DocumentManager interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
