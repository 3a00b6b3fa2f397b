// Package provider defines the external payment and notification contracts
// implemented under infra/provider.
package provider

import (
	"context"

	"github.com/osuhe/remesas/pkg/domain"
	"github.com/shopspring/decimal"
)

// PaymentProvider creates and captures payment orders with the managed
// payment backend.
type PaymentProvider interface {
	// ClientID exposes the public client identifier for browser SDK
	// initialization. The secret never leaves the server.
	ClientID() string
	// CreateOrder opens a capture-intent order for the given USD amount and
	// returns the provider's order id.
	CreateOrder(ctx context.Context, amount decimal.Decimal) (string, error)
	// CaptureOrder captures a previously approved order and returns the
	// provider-reported status.
	CaptureOrder(ctx context.Context, orderID string) (string, error)
}

// EmailSender delivers transaction notifications. Sends are best effort:
// callers log failures and never fail the submission over them.
type EmailSender interface {
	SendTransactionNotification(ctx context.Context, tx *domain.Transaction) error
}
