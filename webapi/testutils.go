package webapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/osuhe/remesas/pkg/config"
	"github.com/osuhe/remesas/pkg/document"
	"github.com/osuhe/remesas/pkg/domain"
	docsvc "github.com/osuhe/remesas/pkg/service/document"
	txsvc "github.com/osuhe/remesas/pkg/service/transaction"
	"github.com/osuhe/remesas/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testAdminToken = "test-admin-token"

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) List(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) AttachDocumentURL(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTransactionRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockStorageClient struct {
	mock.Mock
}

func (m *mockStorageClient) EnsureBucket(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockStorageClient) Upload(ctx context.Context, bucket, key string, data []byte, opts storage.UploadOptions) (string, error) {
	args := m.Called(ctx, bucket, key, data, opts)
	return args.String(0), args.Error(1)
}

func (m *mockStorageClient) PublicURL(bucket, key string) string {
	args := m.Called(bucket, key)
	return args.String(0)
}

func (m *mockStorageClient) ListObjects(ctx context.Context, bucket, prefix string, limit, offset int) ([]domain.StoredObject, error) {
	args := m.Called(ctx, bucket, prefix, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StoredObject), args.Error(1)
}

func (m *mockStorageClient) RemoveObjects(ctx context.Context, bucket string, keys []string) ([]string, error) {
	args := m.Called(ctx, bucket, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type stubPayments struct {
	clientID string
	orderID  string
	status   string
	err      error
}

func (p *stubPayments) ClientID() string { return p.clientID }

func (p *stubPayments) CreateOrder(ctx context.Context, amount decimal.Decimal) (string, error) {
	return p.orderID, p.err
}

func (p *stubPayments) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	return p.status, p.err
}

func newTestConfig() *config.App {
	return &config.App{
		Env:        "test",
		CORSOrigin: "*",
		Admin:      config.AdminConfig{Token: testAdminToken},
		Storage: config.StorageConfig{
			Bucket:          "documentos",
			MaxUploadBytes:  document.DefaultMaxBytes,
			DeleteBatchSize: 100,
		},
	}
}

// WebAPITestSuite wires the full Fiber app over mocked infrastructure.
type WebAPITestSuite struct {
	suite.Suite
	app      *fiber.App
	repo     *mockTransactionRepo
	store    *mockStorageClient
	payments *stubPayments
}

func (s *WebAPITestSuite) SetupTest() {
	log.SetOutput(io.Discard)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := newTestConfig()
	s.repo = &mockTransactionRepo{}
	s.store = &mockStorageClient{}
	s.payments = &stubPayments{clientID: "test-client-id", orderID: "ORDER-1", status: "COMPLETED"}

	docs := docsvc.NewService(s.store, cfg.Storage, logger)
	txs := txsvc.NewService(s.repo, docs, nil, logger)

	s.app = New(Deps{
		Transactions: txs,
		Documents:    docs,
		Payments:     s.payments,
		Config:       cfg,
	})
}

func (s *WebAPITestSuite) makeRequest(method, target, body, token string) *http.Response {
	s.T().Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	return resp
}
