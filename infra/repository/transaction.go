// Package repository implements the persistence contracts on GORM/Postgres.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/osuhe/remesas/pkg/domain"
	"github.com/osuhe/remesas/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository builds the GORM-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Migrate creates or updates the transactions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Transaction{})
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	model := fromDomain(tx)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return mapError(err)
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var model Transaction
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return toDomain(&model), nil
}

func (r *transactionRepository) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	var models []Transaction
	err := r.db.WithContext(ctx).
		Order("submitted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]*domain.Transaction, 0, len(models))
	for i := range models {
		out = append(out, toDomain(&models[i]))
	}
	return out, nil
}

func (r *transactionRepository) AttachDocumentURL(ctx context.Context, id uuid.UUID, url string) error {
	result := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", id).
		Update("document_url", url)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: transaction %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *transactionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&Transaction{})
	if result.Error != nil {
		return 0, mapError(result.Error)
	}
	return result.RowsAffected, nil
}

// mapError keeps GORM errors inside the infrastructure layer, translating
// them to domain sentinels where one applies.
func mapError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func fromDomain(tx *domain.Transaction) *Transaction {
	return &Transaction{
		ID:               tx.ID,
		PaymentRef:       tx.PaymentRef,
		OrderID:          tx.OrderID,
		SenderName:       tx.SenderName,
		SenderPhone:      tx.SenderPhone,
		SenderEmail:      tx.SenderEmail,
		BeneficiaryName:  tx.BeneficiaryName,
		BeneficiaryCity:  tx.BeneficiaryCity,
		DestinationCard:  tx.DestinationCard,
		DeliveryCurrency: tx.DeliveryCurrency,
		Amount:           tx.Amount,
		Fee:              tx.Fee,
		Total:            tx.Total,
		PaymentStatus:    tx.PaymentStatus,
		PayerEmail:       tx.PayerEmail,
		CardNumber:       tx.CardNumber,
		CardExpiry:       tx.CardExpiry,
		CardCVV:          tx.CardCVV,
		CardHolder:       tx.CardHolder,
		BillingAddress:   tx.BillingAddress,
		PostalCode:       tx.PostalCode,
		BillingCountry:   tx.BillingCountry,
		DocumentURL:      tx.DocumentURL,
		Notes:            tx.Notes,
		SubmittedAt:      tx.SubmittedAt,
		LocalTime:        tx.LocalTime,
		UserAgent:        tx.UserAgent,
		OriginURL:        tx.OriginURL,
		RawPayload:       tx.RawPayload,
	}
}

func toDomain(m *Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:               m.ID,
		PaymentRef:       m.PaymentRef,
		OrderID:          m.OrderID,
		SenderName:       m.SenderName,
		SenderPhone:      m.SenderPhone,
		SenderEmail:      m.SenderEmail,
		BeneficiaryName:  m.BeneficiaryName,
		BeneficiaryCity:  m.BeneficiaryCity,
		DestinationCard:  m.DestinationCard,
		DeliveryCurrency: m.DeliveryCurrency,
		Amount:           m.Amount,
		Fee:              m.Fee,
		Total:            m.Total,
		PaymentStatus:    m.PaymentStatus,
		PayerEmail:       m.PayerEmail,
		CardNumber:       m.CardNumber,
		CardExpiry:       m.CardExpiry,
		CardCVV:          m.CardCVV,
		CardHolder:       m.CardHolder,
		BillingAddress:   m.BillingAddress,
		PostalCode:       m.PostalCode,
		BillingCountry:   m.BillingCountry,
		DocumentURL:      m.DocumentURL,
		Notes:            m.Notes,
		SubmittedAt:      m.SubmittedAt,
		LocalTime:        m.LocalTime,
		UserAgent:        m.UserAgent,
		OriginURL:        m.OriginURL,
		RawPayload:       m.RawPayload,
	}
}
