// Package repository defines persistence contracts implemented by
// infra/repository.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/osuhe/remesas/pkg/domain"
)

// TransactionRepository persists money-transfer submissions. Records are
// immutable after Create except for the document URL, which
// AttachDocumentURL sets once the out-of-band upload completes.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	// List returns records ordered newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
	AttachDocumentURL(ctx context.Context, id uuid.UUID, url string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAll removes every record and returns the count removed.
	DeleteAll(ctx context.Context) (int64, error)
}
