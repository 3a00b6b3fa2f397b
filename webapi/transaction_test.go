package webapi

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/osuhe/remesas/pkg/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const validSubmission = `{
	"formData": {
		"senderName": "Maria Lopez",
		"senderPhone": "+1 305 555 0100",
		"senderEmail": "maria@example.com",
		"beneficiaryName": "Jose Lopez",
		"beneficiaryCity": "La Habana",
		"destinationCard": "9235123412349876",
		"amount": 100,
		"fee": 5,
		"total": 105,
		"cardNumber": "4111111111111111",
		"cardExpiry": "12/27",
		"cardCvv": "123"
	},
	"payment": {
		"orderId": "5O190127TN364715T",
		"status": "COMPLETED",
		"payerEmail": "maria@example.com",
		"amount": 105
	}
}`

type TransactionHandlerTestSuite struct {
	WebAPITestSuite
}

func (s *TransactionHandlerTestSuite) TestSaveTransaction() {
	var saved *domain.Transaction
	s.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.Transaction)
		}).Return(nil).Once()

	resp := s.makeRequest("POST", "/transactions", validSubmission, "")
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusCreated, resp.StatusCode)
	var body struct {
		Success bool      `json:"success"`
		ID      uuid.UUID `json:"id"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.True(body.Success)
	s.NotEqual(uuid.Nil, body.ID)

	s.Require().NotNil(saved)
	s.Equal("************9876", saved.DestinationCard)
	s.Equal("************1111", saved.CardNumber)
	s.Equal("***", saved.CardCVV)
	s.True(saved.Total.Equal(decimal.NewFromInt(105)))

	// The audit payload keeps the submission but never plaintext card data.
	raw := string(saved.RawPayload)
	s.NotContains(raw, "4111111111111111")
	s.NotContains(raw, `"cardCvv":"123"`)
	s.Contains(raw, `"cardNumber":"************1111"`)
	s.Contains(raw, `"senderName":"Maria Lopez"`)
	s.repo.AssertExpectations(s.T())
}

func (s *TransactionHandlerTestSuite) TestSaveTransactionValidation() {
	testCases := []struct {
		desc string
		body string
	}{
		{desc: "malformed json", body: `{"formData":`},
		{desc: "missing sender name", body: `{"formData":{"senderPhone":"+1","beneficiaryName":"J","beneficiaryCity":"C","destinationCard":"9235","amount":10,"total":10}}`},
		{desc: "missing amounts", body: `{"formData":{"senderName":"M","senderPhone":"+1","beneficiaryName":"J","beneficiaryCity":"C","destinationCard":"9235"}}`},
	}
	for _, tc := range testCases {
		s.Run(tc.desc, func() {
			resp := s.makeRequest("POST", "/transactions", tc.body, "")
			defer resp.Body.Close() //nolint:errcheck
			s.Equal(fiber.StatusBadRequest, resp.StatusCode)
		})
	}
	s.repo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *TransactionHandlerTestSuite) TestSaveTransactionRepoFailure() {
	s.repo.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("connection refused")).Once()

	resp := s.makeRequest("POST", "/transactions", validSubmission, "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusInternalServerError, resp.StatusCode)
}

func (s *TransactionHandlerTestSuite) TestListTransactions() {
	docURL := "https://files.test/documentos/T1/doc_1.png"
	s.repo.On("List", mock.Anything, 100, 0).Return([]*domain.Transaction{
		{
			ID:              uuid.New(),
			PaymentRef:      "ORD-abc",
			SenderName:      "Maria Lopez",
			BeneficiaryCity: "La Habana",
			DestinationCard: "************9876",
			Total:           decimal.NewFromInt(105),
			PaymentStatus:   domain.PaymentStatusCompleted,
			DocumentURL:     &docURL,
			SubmittedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}, nil).Once()

	resp := s.makeRequest("GET", "/transactions", "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	var body struct {
		Success      bool              `json:"success"`
		Transactions []TransactionView `json:"transactions"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.True(body.Success)
	s.Require().Len(body.Transactions, 1)
	s.Equal("************9876", body.Transactions[0].DestinationCard)
	s.Equal("2026-08-01T12:00:00Z", body.Transactions[0].SubmittedAt)
}

func (s *TransactionHandlerTestSuite) TestListTransactionsPaging() {
	s.repo.On("List", mock.Anything, 25, 50).
		Return([]*domain.Transaction{}, nil).Once()

	resp := s.makeRequest("GET", "/transactions?limit=25&offset=50", "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.repo.AssertExpectations(s.T())
}

func (s *TransactionHandlerTestSuite) TestDeleteTransaction() {
	id := uuid.New()
	s.repo.On("Delete", mock.Anything, id).Return(nil).Once()

	resp := s.makeRequest("DELETE", "/transactions/"+id.String(), "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func (s *TransactionHandlerTestSuite) TestDeleteTransactionNotFound() {
	id := uuid.New()
	s.repo.On("Delete", mock.Anything, id).Return(domain.ErrNotFound).Once()

	resp := s.makeRequest("DELETE", "/transactions/"+id.String(), "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *TransactionHandlerTestSuite) TestDeleteTransactionBadID() {
	resp := s.makeRequest("DELETE", "/transactions/not-a-uuid", "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *TransactionHandlerTestSuite) TestClearAll() {
	s.store.On("ListObjects", mock.Anything, "documentos", "", 100, 0).
		Return([]domain.StoredObject{{Name: "T1/doc_1.png"}}, nil).Once()
	s.store.On("RemoveObjects", mock.Anything, "documentos", []string{"T1/doc_1.png"}).
		Return([]string{"T1/doc_1.png"}, nil).Once()
	s.repo.On("DeleteAll", mock.Anything).Return(int64(3), nil).Once()

	resp := s.makeRequest("POST", "/transactions/clear", "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	var report struct {
		Operations []struct {
			Operation string `json:"operation"`
			Status    string `json:"status"`
			Count     int64  `json:"count"`
		} `json:"operations"`
		Summary struct {
			TotalOperations int    `json:"totalOperations"`
			Successful      int    `json:"successful"`
			Errors          int    `json:"errors"`
			Status          string `json:"status"`
		} `json:"summary"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&report))
	s.Require().Len(report.Operations, 2)
	s.Equal("delete_storage_files", report.Operations[0].Operation)
	s.Equal(int64(1), report.Operations[0].Count)
	s.Equal("delete_transactions", report.Operations[1].Operation)
	s.Equal(int64(3), report.Operations[1].Count)
	s.Equal(2, report.Summary.Successful)
	s.Equal("ALL_CLEARED", report.Summary.Status)
}

func (s *TransactionHandlerTestSuite) TestClearAllPartialFailure() {
	s.store.On("ListObjects", mock.Anything, "documentos", "", 100, 0).
		Return([]domain.StoredObject{}, nil).Once()
	s.repo.On("DeleteAll", mock.Anything).
		Return(int64(0), errors.New("connection refused")).Once()

	resp := s.makeRequest("POST", "/transactions/clear", "", testAdminToken)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	var report struct {
		Summary struct {
			Successful int    `json:"successful"`
			Errors     int    `json:"errors"`
			Status     string `json:"status"`
		} `json:"summary"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&report))
	s.Equal(1, report.Summary.Successful)
	s.Equal(1, report.Summary.Errors)
	s.Equal("PARTIAL_SUCCESS", report.Summary.Status)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
