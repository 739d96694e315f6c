package ports

import (
	"context"
	"io"

	"github.com/askdoc/askdoc/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveCounts(ctx context.Context, id string, pageCount, chunkCount int) error
	Delete(ctx context.Context, id string) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, domain.IngestEvent) error) error
}

// PageExtractor extracts per-page plain text from a stored document.
type PageExtractor interface {
	ExtractPages(ctx context.Context, doc *domain.Document) ([]domain.PageText, error)
}

// Chunker splits extracted pages into overlapping index-ready chunks with a
// global chunk ordering.
type Chunker interface {
	Split(documentName string, pages []domain.PageText) []domain.IndexChunk
}

// Embedder builds vectors for chunks and query text. Document and query
// embedding may use different task hints but share one vector space.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunks and serves the two retrieval paths.
type VectorStore interface {
	IndexChunks(ctx context.Context, chunks []domain.IndexChunk, vectors [][]float32) error
	// Search returns candidates ordered by descending cosine similarity in [0,1].
	Search(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.Candidate, error)
	// SearchContains performs a case-insensitive substring match on chunk content.
	SearchContains(ctx context.Context, term string, limit int, filter domain.SearchFilter) ([]domain.Candidate, error)
	DeleteByDocument(ctx context.Context, documentName string) error
}

// AnswerGenerator drives the language model.
type AnswerGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// GenerateStream yields text fragments until the channel closes. The
	// sequence is finite, non-restartable and consumed exactly once; a
	// fragment with a non-nil Err terminates the stream.
	GenerateStream(ctx context.Context, systemPrompt, userPrompt string) (<-chan GenerationChunk, error)
}

// GenerationChunk is one fragment of a streamed generation.
type GenerationChunk struct {
	Text string
	Err  error
}
