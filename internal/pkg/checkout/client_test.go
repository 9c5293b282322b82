package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{BaseURL: srv.URL, HTTPClient: srv.Client()}
}

func TestCreatePaymentSuccess(t *testing.T) {
	created := time.Date(2026, 2, 25, 12, 34, 56, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments", r.URL.Path)
		require.Equal(t, "key-123", r.Header.Get("Idempotency-Key"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreatePaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"INV-2025-008"}, req.InvoiceIDs)
		assert.Equal(t, "12/29", req.Expiry)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(PaymentRecord{ID: "pay-1", Status: "CREATED", CreatedAt: created})
	}))
	defer srv.Close()

	record, err := newTestClient(srv).CreatePayment(context.Background(), "key-123", CreatePaymentRequest{
		InvoiceIDs: []string{"INV-2025-008"},
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Expiry:     "12/29",
		CVV:        "123",
		CardNumber: "4242424242424242",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay-1", record.ID)
	assert.Equal(t, "CREATED", record.Status)
	assert.True(t, record.CreatedAt.Equal(created))
}

func TestCreatePaymentValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"VALIDATION_ERROR","message":"Request validation failed","fieldErrors":[{"field":"cardNumber","message":"invalid"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreatePayment(context.Background(), "key-123", CreatePaymentRequest{})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.NotNil(t, apiErr.Response)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Response.Code)
	require.Len(t, apiErr.Response.FieldErrors, 1)
	assert.Equal(t, "cardNumber", apiErr.Response.FieldErrors[0].Field)
}

func TestCreatePaymentNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).CreatePayment(context.Background(), "key-123", CreatePaymentRequest{})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Nil(t, apiErr.Response)
}

func TestCreatePaymentTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	_, err := newTestClient(srv).CreatePayment(context.Background(), "key-123", CreatePaymentRequest{})
	require.Error(t, err)

	_, ok := err.(*APIError)
	assert.False(t, ok, "transport failures must not be APIErrors")
}
