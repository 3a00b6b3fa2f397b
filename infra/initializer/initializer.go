// Package initializer assembles the service dependencies from configuration:
// logger, database, object storage, payment provider, mailer and the
// services the HTTP layer consumes.
package initializer

import (
	"fmt"

	"github.com/osuhe/remesas/infra"
	infra_paypal "github.com/osuhe/remesas/infra/provider/paypal"
	infra_sendgrid "github.com/osuhe/remesas/infra/provider/sendgrid"
	infra_repository "github.com/osuhe/remesas/infra/repository"
	infra_supabase "github.com/osuhe/remesas/infra/supabase"
	"github.com/osuhe/remesas/pkg/config"
	docsvc "github.com/osuhe/remesas/pkg/service/document"
	txsvc "github.com/osuhe/remesas/pkg/service/transaction"
	"github.com/osuhe/remesas/webapi"
)

// InitializeDependencies wires every adapter and service from the loaded
// configuration. Failures here abort startup; nothing is lazily connected.
func InitializeDependencies(cfg *config.App) (*webapi.Deps, error) {
	logger := SetupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := infra_repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	repo := infra_repository.NewTransactionRepository(db)

	storageClient := infra_supabase.NewClient(cfg.Supabase, cfg.Storage.MaxUploadBytes, logger)
	documents := docsvc.NewService(storageClient, cfg.Storage, logger)

	mailer := infra_sendgrid.NewMailer(cfg.Email, logger)
	transactions := txsvc.NewService(repo, documents, mailer, logger)

	payments := infra_paypal.NewClient(cfg.PayPal, logger)

	return &webapi.Deps{
		Transactions: transactions,
		Documents:    documents,
		Payments:     payments,
		Config:       cfg,
	}, nil
}
