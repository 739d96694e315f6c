package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/askdoc/askdoc/internal/core/domain"
)

type extractorFake struct {
	pages []domain.PageText
	err   error
}

func (f *extractorFake) ExtractPages(_ context.Context, _ *domain.Document) ([]domain.PageText, error) {
	return f.pages, f.err
}

type chunkerFake struct {
	chunks []domain.IndexChunk
}

func (f *chunkerFake) Split(documentName string, _ []domain.PageText) []domain.IndexChunk {
	out := make([]domain.IndexChunk, len(f.chunks))
	copy(out, f.chunks)
	for i := range out {
		out[i].Metadata.DocumentName = documentName
	}
	return out
}

type indexingStoreFake struct {
	vectorStoreFake
	indexed      []domain.IndexChunk
	deletedDocs  []string
	indexErr     error
	deleteErr    error
	deleteBefore bool
}

func (f *indexingStoreFake) IndexChunks(_ context.Context, chunks []domain.IndexChunk, _ [][]float32) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.deleteBefore = len(f.deletedDocs) > 0
	f.indexed = append(f.indexed, chunks...)
	return nil
}

func (f *indexingStoreFake) DeleteByDocument(_ context.Context, documentName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedDocs = append(f.deletedDocs, documentName)
	return nil
}

func seedDocument(repo *repositoryFake) *domain.Document {
	doc := &domain.Document{
		ID:       "doc-1",
		Filename: "manual.pdf",
		Status:   domain.StatusUploaded,
	}
	repo.docs[doc.ID] = doc
	return doc
}

func twoPageFixture() ([]domain.PageText, []domain.IndexChunk) {
	pages := []domain.PageText{
		{Number: 1, Text: "first page text"},
		{Number: 2, Text: "second page text"},
	}
	chunks := []domain.IndexChunk{
		{Content: "first page text", Metadata: domain.ChunkMetadata{PageNumber: 1, ChunkIndex: 0, TotalChunks: 2}},
		{Content: "second page text", Metadata: domain.ChunkMetadata{PageNumber: 2, ChunkIndex: 1, TotalChunks: 2}},
	}
	return pages, chunks
}

func TestProcessByIDHappyPath(t *testing.T) {
	repo := newRepositoryFake()
	seedDocument(repo)
	pages, chunks := twoPageFixture()
	store := &indexingStoreFake{}
	uc := NewProcessDocumentUseCase(repo, &extractorFake{pages: pages}, &chunkerFake{chunks: chunks}, &embedderFake{}, store)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	wantStatuses := []domain.DocumentStatus{domain.StatusProcessing, domain.StatusReady}
	if len(repo.statuses) != len(wantStatuses) {
		t.Fatalf("statuses = %v, want %v", repo.statuses, wantStatuses)
	}
	for i, status := range wantStatuses {
		if repo.statuses[i] != status {
			t.Fatalf("statuses = %v, want %v", repo.statuses, wantStatuses)
		}
	}
	if repo.pageCount != 2 || repo.chunkCount != 2 {
		t.Fatalf("counts = (%d pages, %d chunks), want (2, 2)", repo.pageCount, repo.chunkCount)
	}
	if len(store.indexed) != 2 {
		t.Fatalf("expected 2 indexed chunks, got %d", len(store.indexed))
	}
	for _, chunk := range store.indexed {
		if chunk.Metadata.DocumentName != "manual.pdf" {
			t.Fatalf("chunk missing document name: %+v", chunk.Metadata)
		}
	}
}

func TestProcessByIDClearsPreviousIndexFirst(t *testing.T) {
	repo := newRepositoryFake()
	seedDocument(repo)
	pages, chunks := twoPageFixture()
	store := &indexingStoreFake{}
	uc := NewProcessDocumentUseCase(repo, &extractorFake{pages: pages}, &chunkerFake{chunks: chunks}, &embedderFake{}, store)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(store.deletedDocs) != 1 || store.deletedDocs[0] != "manual.pdf" {
		t.Fatalf("expected stale points cleared for manual.pdf, got %v", store.deletedDocs)
	}
	if !store.deleteBefore {
		t.Fatal("expected delete to happen before indexing")
	}
}

func TestProcessByIDEmptyExtractionMarksFailed(t *testing.T) {
	repo := newRepositoryFake()
	seedDocument(repo)
	uc := NewProcessDocumentUseCase(repo, &extractorFake{}, &chunkerFake{}, &embedderFake{}, &indexingStoreFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.docs["doc-1"].Status != domain.StatusFailed {
		t.Fatalf("status = %q, want %q", repo.docs["doc-1"].Status, domain.StatusFailed)
	}
	if repo.lastError == "" {
		t.Fatal("expected failure reason recorded on document")
	}
}

func TestProcessByIDEmbedFailureMarksFailed(t *testing.T) {
	repo := newRepositoryFake()
	seedDocument(repo)
	pages, chunks := twoPageFixture()
	embedder := &embedderFake{err: errors.New("embedding backend unavailable")}
	uc := NewProcessDocumentUseCase(repo, &extractorFake{pages: pages}, &chunkerFake{chunks: chunks}, embedder, &indexingStoreFake{})

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatal("expected embed failure to propagate")
	}
	if repo.docs["doc-1"].Status != domain.StatusFailed {
		t.Fatalf("status = %q, want %q", repo.docs["doc-1"].Status, domain.StatusFailed)
	}
}

func TestProcessByIDUnknownDocumentMarksFailed(t *testing.T) {
	repo := newRepositoryFake()
	uc := NewProcessDocumentUseCase(repo, &extractorFake{}, &chunkerFake{}, &embedderFake{}, &indexingStoreFake{})

	err := uc.ProcessByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestAdminDeleteRemovesVectorsFileThenRow(t *testing.T) {
	repo := newRepositoryFake()
	doc := seedDocument(repo)
	doc.StoragePath = "doc-1_manual.pdf"
	storage := newStorageFake()
	storage.saved[doc.StoragePath] = []byte("%PDF")
	store := &indexingStoreFake{}
	uc := NewDocumentAdminUseCase(repo, storage, store)

	if err := uc.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(store.deletedDocs) != 1 || store.deletedDocs[0] != "manual.pdf" {
		t.Fatalf("expected vector cleanup for manual.pdf, got %v", store.deletedDocs)
	}
	if len(storage.removed) != 1 || storage.removed[0] != doc.StoragePath {
		t.Fatalf("expected stored file removed, got %v", storage.removed)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "doc-1" {
		t.Fatalf("expected metadata row deleted, got %v", repo.deleted)
	}
}

func TestAdminDeleteKeepsRowWhenVectorCleanupFails(t *testing.T) {
	repo := newRepositoryFake()
	doc := seedDocument(repo)
	doc.StoragePath = "doc-1_manual.pdf"
	store := &indexingStoreFake{deleteErr: errors.New("vector store down")}
	uc := NewDocumentAdminUseCase(repo, newStorageFake(), store)

	if err := uc.Delete(context.Background(), "doc-1"); err == nil {
		t.Fatal("expected error when vector cleanup fails")
	}
	if len(repo.deleted) != 0 {
		t.Fatal("metadata row must survive a failed vector cleanup")
	}
}

func TestAdminDeleteUnknownDocument(t *testing.T) {
	uc := NewDocumentAdminUseCase(newRepositoryFake(), newStorageFake(), &indexingStoreFake{})
	if err := uc.Delete(context.Background(), "missing"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
