// Package domain holds the core entities of the remittance service:
// transaction records, stored-document references and the shared error
// taxonomy. Entities carry no persistence or transport concerns.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses as reported by the payment provider. The provider sends
// free text, so these are conventions rather than a closed enum.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Transaction represents one money-transfer submission. A record is
// immutable after insert except for DocumentURL, which may be attached later
// because the document upload runs out of band from the insert.
type Transaction struct {
	ID         uuid.UUID
	PaymentRef string
	OrderID    string

	SenderName  string
	SenderPhone string
	SenderEmail string

	BeneficiaryName string
	BeneficiaryCity string
	// DestinationCard is stored in masked display form only.
	DestinationCard  string
	DeliveryCurrency string

	Amount decimal.Decimal
	Fee    decimal.Decimal
	Total  decimal.Decimal

	PaymentStatus string
	PayerEmail    string

	// Card fields are display-masked before the record is built; plaintext
	// never reaches persistence.
	CardNumber string
	CardExpiry string
	CardCVV    string
	CardHolder string

	BillingAddress string
	PostalCode     string
	BillingCountry string

	DocumentURL *string
	Notes       string

	SubmittedAt time.Time
	// LocalTime is the submitter's locale-formatted display time. Derived,
	// not authoritative.
	LocalTime string

	UserAgent string
	OriginURL string

	// RawPayload keeps the submission for audit and backfill. Card fields
	// inside it are masked the same way as the record's own columns.
	RawPayload json.RawMessage
}

// NewPaymentRef generates a placeholder payment reference for submissions
// that arrive without one.
func NewPaymentRef() string {
	return "ORD-" + uuid.NewString()
}

// StoredObject describes one entry in the document bucket. Listings are one
// folder level deep: a folder entry carries IsFolder and its Name must be
// used as the prefix of a further listing to reach the objects inside.
type StoredObject struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	IsFolder  bool      `json:"isFolder,omitempty"`
}
