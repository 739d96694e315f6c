package usecase

import (
	"context"
	"fmt"

	"github.com/askdoc/askdoc/internal/core/domain"
	"github.com/askdoc/askdoc/internal/core/ports"
)

// DocumentAdminUseCase is the read/delete surface over stored documents.
type DocumentAdminUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	vectors ports.VectorStore
}

func NewDocumentAdminUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	vectors ports.VectorStore,
) *DocumentAdminUseCase {
	return &DocumentAdminUseCase{
		repo:    repo,
		storage: storage,
		vectors: vectors,
	}
}

func (uc *DocumentAdminUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *DocumentAdminUseCase) List(ctx context.Context) ([]domain.Document, error) {
	return uc.repo.List(ctx)
}

// Delete removes the document's indexed chunks first, then the stored file,
// then the metadata row, so a partial failure leaves the row behind as
// evidence rather than orphaning unreachable vectors.
func (uc *DocumentAdminUseCase) Delete(ctx context.Context, id string) error {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.vectors.DeleteByDocument(ctx, doc.Filename); err != nil {
		return fmt.Errorf("delete indexed chunks: %w", err)
	}
	if err := uc.storage.Remove(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("remove stored file: %w", err)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document metadata: %w", err)
	}
	return nil
}
