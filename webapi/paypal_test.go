package webapi

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type PayPalHandlerTestSuite struct {
	WebAPITestSuite
}

func (s *PayPalHandlerTestSuite) TestClientConfig() {
	resp := s.makeRequest("GET", "/paypal/config", "", "")
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	var body struct {
		ClientID string `json:"clientId"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("test-client-id", body.ClientID)
}

func (s *PayPalHandlerTestSuite) TestCreateOrder() {
	resp := s.makeRequest("POST", "/paypal/orders", `{"amount":"105.00"}`, "")
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusCreated, resp.StatusCode)
	var body struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("ORDER-1", body.ID)
}

func (s *PayPalHandlerTestSuite) TestCreateOrderInvalidAmount() {
	for _, body := range []string{
		`{}`,
		`{"amount":"-5"}`,
		`{"amount":"not a number"}`,
	} {
		resp := s.makeRequest("POST", "/paypal/orders", body, "")
		defer resp.Body.Close() //nolint:errcheck
		s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	}
}

func (s *PayPalHandlerTestSuite) TestCreateOrderProviderDown() {
	s.payments.err = errors.New("oauth token request failed")

	resp := s.makeRequest("POST", "/paypal/orders", `{"amount":"105.00"}`, "")
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(fiber.StatusBadGateway, resp.StatusCode)
}

func (s *PayPalHandlerTestSuite) TestCaptureOrder() {
	resp := s.makeRequest("POST", "/paypal/orders/5O190127TN364715T/capture", "", "")
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(fiber.StatusOK, resp.StatusCode)
	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("5O190127TN364715T", body.ID)
	s.Equal("COMPLETED", body.Status)
}

func TestPayPalHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PayPalHandlerTestSuite))
}
