// Package transaction implements the business flow around money-transfer
// submissions: building masked records, persisting them, attaching uploaded
// documents, admin listing and the purge operations.
package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/osuhe/remesas/pkg/domain"
	"github.com/osuhe/remesas/pkg/provider"
	"github.com/osuhe/remesas/pkg/repository"
	docsvc "github.com/osuhe/remesas/pkg/service/document"
	"github.com/shopspring/decimal"
)

// DocumentStore is the slice of the upload pipeline this service consumes.
type DocumentStore interface {
	Upload(ctx context.Context, in docsvc.UploadInput) (*docsvc.UploadResult, error)
	PurgeAll(ctx context.Context) (int, error)
}

// SaveInput carries one submission. Card fields arrive in plaintext and are
// masked before the record is built; they are never persisted as received.
type SaveInput struct {
	PaymentRef    string
	OrderID       string
	PaymentStatus string
	PayerEmail    string

	SenderName  string
	SenderPhone string
	SenderEmail string

	BeneficiaryName  string
	BeneficiaryCity  string
	DestinationCard  string
	DeliveryCurrency string

	Amount decimal.Decimal
	Fee    decimal.Decimal
	Total  decimal.Decimal

	CardNumber string
	CardExpiry string
	CardCVV    string
	CardHolder string

	BillingAddress string
	PostalCode     string
	BillingCountry string

	Notes     string
	LocalTime string
	UserAgent string
	OriginURL string

	DocumentFileName string
	DocumentDataURI  string

	RawPayload json.RawMessage
}

// Service wires the repository, the upload pipeline and the notifier.
type Service struct {
	repo   repository.TransactionRepository
	docs   DocumentStore
	mailer provider.EmailSender
	logger *slog.Logger
}

// NewService builds the transaction service. mailer may be nil when
// notifications are disabled.
func NewService(
	repo repository.TransactionRepository,
	docs DocumentStore,
	mailer provider.EmailSender,
	logger *slog.Logger,
) *Service {
	return &Service{repo: repo, docs: docs, mailer: mailer, logger: logger}
}

// Save persists a submission and, when the payload carries a document,
// attaches its reference afterwards. The insert and the upload are
// independent calls: a storage outage degrades the document reference but
// never loses the transaction.
func (s *Service) Save(ctx context.Context, in SaveInput) (*domain.Transaction, error) {
	tx := buildRecord(in)

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}
	s.logger.Info("transaction saved",
		"id", tx.ID,
		"payment_ref", tx.PaymentRef,
		"total", tx.Total,
	)

	if in.DocumentDataURI != "" {
		res, err := s.docs.Upload(ctx, docsvc.UploadInput{
			TransactionID: tx.ID.String(),
			FileName:      in.DocumentFileName,
			DataURI:       in.DocumentDataURI,
		})
		if err != nil {
			// Client-side payload problems; the record stays without a
			// document rather than failing the completed submission.
			s.logger.Warn("document rejected, transaction kept without document",
				"id", tx.ID, "error", err)
		} else {
			if err := s.repo.AttachDocumentURL(ctx, tx.ID, res.URL); err != nil {
				s.logger.Error("failed to attach document url", "id", tx.ID, "error", err)
			} else {
				tx.DocumentURL = &res.URL
			}
		}
	}

	s.notify(ctx, tx)
	return tx, nil
}

// notify sends the admin notification mail. Best effort only.
func (s *Service) notify(ctx context.Context, tx *domain.Transaction) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendTransactionNotification(ctx, tx); err != nil {
		s.logger.Warn("notification email failed", "id", tx.ID, "error", err)
	}
}

// List returns transactions newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Delete removes one transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// OperationResult reports one step of a bulk purge.
type OperationResult struct {
	Operation string `json:"operation"`
	Status    string `json:"status"`
	Count     int64  `json:"count,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ClearSummary totals a purge run.
type ClearSummary struct {
	TotalOperations int    `json:"totalOperations"`
	Successful      int    `json:"successful"`
	Errors          int    `json:"errors"`
	Status          string `json:"status"`
}

// ClearReport is the full outcome of ClearAll.
type ClearReport struct {
	Timestamp  time.Time         `json:"timestamp"`
	Operations []OperationResult `json:"operations"`
	Summary    ClearSummary      `json:"summary"`
}

// ClearAll purges stored documents and transaction records as two
// independent, non-transactional operations. A failure in either is
// reported per operation and never blocks the other; partial success is a
// normal outcome, not an error.
func (s *Service) ClearAll(ctx context.Context) *ClearReport {
	report := &ClearReport{Timestamp: time.Now().UTC()}

	removed, err := s.docs.PurgeAll(ctx)
	report.Operations = append(report.Operations, operationResult("delete_storage_files", int64(removed), err))

	deleted, err := s.repo.DeleteAll(ctx)
	report.Operations = append(report.Operations, operationResult("delete_transactions", deleted, err))

	for _, op := range report.Operations {
		if op.Status == "success" {
			report.Summary.Successful++
		} else {
			report.Summary.Errors++
		}
	}
	report.Summary.TotalOperations = len(report.Operations)
	if report.Summary.Errors == 0 {
		report.Summary.Status = "ALL_CLEARED"
	} else {
		report.Summary.Status = "PARTIAL_SUCCESS"
	}

	s.logger.Info("clear all finished",
		"successful", report.Summary.Successful,
		"errors", report.Summary.Errors,
	)
	return report
}

func operationResult(name string, count int64, err error) OperationResult {
	if err != nil {
		return OperationResult{Operation: name, Status: "error", Error: err.Error()}
	}
	return OperationResult{Operation: name, Status: "success", Count: count}
}

func buildRecord(in SaveInput) *domain.Transaction {
	paymentRef := in.PaymentRef
	if paymentRef == "" {
		paymentRef = domain.NewPaymentRef()
	}
	status := in.PaymentStatus
	if status == "" {
		status = domain.PaymentStatusCompleted
	}
	return &domain.Transaction{
		ID:               uuid.New(),
		PaymentRef:       paymentRef,
		OrderID:          in.OrderID,
		SenderName:       in.SenderName,
		SenderPhone:      in.SenderPhone,
		SenderEmail:      in.SenderEmail,
		BeneficiaryName:  in.BeneficiaryName,
		BeneficiaryCity:  in.BeneficiaryCity,
		DestinationCard:  domain.MaskSensitive(in.DestinationCard),
		DeliveryCurrency: in.DeliveryCurrency,
		Amount:           in.Amount,
		Fee:              in.Fee,
		Total:            in.Total,
		PaymentStatus:    status,
		PayerEmail:       in.PayerEmail,
		CardNumber:       domain.MaskSensitive(in.CardNumber),
		CardExpiry:       domain.MaskSensitive(in.CardExpiry),
		CardCVV:          domain.MaskSensitive(in.CardCVV),
		CardHolder:       in.CardHolder,
		BillingAddress:   in.BillingAddress,
		PostalCode:       in.PostalCode,
		BillingCountry:   in.BillingCountry,
		Notes:            in.Notes,
		SubmittedAt:      time.Now().UTC(),
		LocalTime:        in.LocalTime,
		UserAgent:        in.UserAgent,
		OriginURL:        in.OriginURL,
		RawPayload:       redactPayload(in.RawPayload),
	}
}

// sensitiveKeys are submission fields that carry plaintext card data.
var sensitiveKeys = map[string]bool{
	"cardNumber":      true,
	"cardExpiry":      true,
	"cardCvv":         true,
	"destinationCard": true,
}

// redactPayload masks card fields throughout the raw submission so the
// audit copy never holds plaintext card data. A payload that does not parse
// is dropped rather than stored unredacted.
func redactPayload(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	redactValue(v)
	out, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return out
}

func redactValue(v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if s, ok := val.(string); ok && sensitiveKeys[k] {
				t[k] = domain.MaskSensitive(s)
				continue
			}
			redactValue(val)
		}
	case []any:
		for _, item := range t {
			redactValue(item)
		}
	}
}
