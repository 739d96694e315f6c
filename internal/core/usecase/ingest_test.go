package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/askdoc/askdoc/internal/core/domain"
)

type repositoryFake struct {
	docs       map[string]*domain.Document
	created    []*domain.Document
	statuses   []domain.DocumentStatus
	lastError  string
	pageCount  int
	chunkCount int
	deleted    []string
	createErr  error
	updateErr  error
	countsErr  error
}

func newRepositoryFake() *repositoryFake {
	return &repositoryFake{docs: map[string]*domain.Document{}}
}

func (f *repositoryFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, doc)
	f.docs[doc.ID] = doc
	return nil
}

func (f *repositoryFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	return doc, nil
}

func (f *repositoryFake) List(context.Context) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, *doc)
	}
	return out, nil
}

func (f *repositoryFake) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statuses = append(f.statuses, status)
	f.lastError = errMessage
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
		doc.Error = errMessage
	}
	return nil
}

func (f *repositoryFake) SaveCounts(_ context.Context, id string, pageCount, chunkCount int) error {
	if f.countsErr != nil {
		return f.countsErr
	}
	f.pageCount = pageCount
	f.chunkCount = chunkCount
	return nil
}

func (f *repositoryFake) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

type storageFake struct {
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newStorageFake() *storageFake {
	return &storageFake{saved: map[string][]byte{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.saved[key] = content
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := f.saved[key]
	if !ok {
		return nil, errors.New("not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (f *storageFake) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.saved, key)
	return nil
}

type queueFake struct {
	published  []string
	publishErr error
}

func (f *queueFake) PublishDocumentIngested(_ context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentIngested(context.Context, func(context.Context, domain.IngestEvent) error) error {
	return nil
}

func TestUploadStoresCreatesAndPublishes(t *testing.T) {
	repo := newRepositoryFake()
	storage := newStorageFake()
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "Annual Report 2024.pdf", "application/pdf", strings.NewReader("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected generated document id")
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("status = %q, want %q", doc.Status, domain.StatusUploaded)
	}
	if len(storage.saved) != 1 {
		t.Fatalf("expected one stored object, got %d", len(storage.saved))
	}
	if _, ok := storage.saved[doc.StoragePath]; !ok {
		t.Fatalf("storage path %q not found among saved keys", doc.StoragePath)
	}
	if strings.Contains(doc.StoragePath, " ") {
		t.Fatalf("storage path not sanitized: %q", doc.StoragePath)
	}
	if len(repo.created) != 1 || repo.created[0].ID != doc.ID {
		t.Fatalf("expected metadata row for %s, got %+v", doc.ID, repo.created)
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("expected ingestion event for %s, got %v", doc.ID, queue.published)
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	uc := NewIngestDocumentUseCase(newRepositoryFake(), newStorageFake(), &queueFake{})
	_, err := uc.Upload(context.Background(), "notes.txt", "text/plain", strings.NewReader("hello"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadAcceptsPDFExtensionWithoutMime(t *testing.T) {
	uc := NewIngestDocumentUseCase(newRepositoryFake(), newStorageFake(), &queueFake{})
	if _, err := uc.Upload(context.Background(), "report.PDF", "application/octet-stream", strings.NewReader("%PDF")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
}

func TestUploadStorageFailureAborts(t *testing.T) {
	repo := newRepositoryFake()
	storage := newStorageFake()
	storage.saveErr = errors.New("disk full")
	uc := NewIngestDocumentUseCase(repo, storage, &queueFake{})

	_, err := uc.Upload(context.Background(), "report.pdf", "application/pdf", strings.NewReader("%PDF"))
	if err == nil {
		t.Fatal("expected error when storage fails")
	}
	if len(repo.created) != 0 {
		t.Fatalf("no metadata row should exist after storage failure, got %d", len(repo.created))
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Annual Report 2024.pdf", "Annual_Report_2024.pdf"},
		{"../../etc/passwd.pdf", "passwd.pdf"},
		{"naïve.pdf", "na_ve.pdf"},
		{"plain.pdf", "plain.pdf"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
