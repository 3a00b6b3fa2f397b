package paypal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/osuhe/remesas/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, tokenCalls *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/oauth2/token":
			if tokenCalls != nil {
				*tokenCalls++
			}
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "token-abc",
				"expires_in":   3600,
			})
		case "/v2/checkout/orders":
			assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "CAPTURE", body["intent"])
			units := body["purchase_units"].([]any)
			amount := units[0].(map[string]any)["amount"].(map[string]any)
			assert.Equal(t, "109.50", amount["value"])
			assert.Equal(t, "USD", amount["currency_code"])
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "ORDER-1", "status": "CREATED"})
		case "/v2/checkout/orders/ORDER-1/capture":
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "ORDER-1", "status": "COMPLETED"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.PayPalConfig{
		ClientID:    "client-id",
		Secret:      "client-secret",
		BaseURL:     baseURL,
		HTTPTimeout: 5 * time.Second,
	}, slog.Default())
}

func TestCreateOrder(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()

	c := newTestClient(srv.URL)
	id, err := c.CreateOrder(context.Background(), decimal.RequireFromString("109.5"))
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", id)
}

func TestCaptureOrder(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()

	c := newTestClient(srv.URL)
	status, err := c.CaptureOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", status)
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	var tokenCalls int
	srv := newServer(t, &tokenCalls)
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateOrder(context.Background(), decimal.RequireFromString("109.5"))
	require.NoError(t, err)
	_, err = c.CaptureOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}

func TestCreateOrder_TokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.CreateOrder(context.Background(), decimal.NewFromInt(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClientID(t *testing.T) {
	c := newTestClient("http://example.com")
	assert.Equal(t, "client-id", c.ClientID())
}
