package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/payflowhq/payflow/internal/pkg/env"
)

const defaultPaymentsAPIBaseURL = "http://localhost:8080"

// CreatePaymentRequest is the JSON body sent to the payment creation
// endpoint. The idempotency key travels out-of-band in the Idempotency-Key
// header, never in the body.
type CreatePaymentRequest struct {
	InvoiceIDs []string `json:"invoiceIds"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Expiry     string   `json:"expiry"`
	CVV        string   `json:"cvv"`
	CardNumber string   `json:"cardNumber"`
}

// PaymentRecord is the payment returned on a successful creation.
type PaymentRecord struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FieldError is one server-side field violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error body returned on a failed creation.
type ErrorResponse struct {
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// APIError is a non-2xx response from the payments endpoint. Transport and
// parse failures are returned as plain errors instead.
type APIError struct {
	Status   int
	Response *ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response != nil && strings.TrimSpace(e.Response.Message) != "" {
		return fmt.Sprintf("payment request failed: status=%d message=%s", e.Status, e.Response.Message)
	}
	return fmt.Sprintf("payment request failed: status=%d", e.Status)
}

// Client calls the payment creation endpoint.
type Client struct {
	BaseURL string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from PAYMENTS_API_BASE_URL.
func NewClientFromEnv() *Client {
	return &Client{
		BaseURL: strings.TrimRight(env.GetEnv("PAYMENTS_API_BASE_URL", defaultPaymentsAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreatePayment posts a payment creation request with the given idempotency
// key attached as the Idempotency-Key header. Non-2xx responses come back as
// *APIError; transport failures come back unwrapped.
func (c *Client) CreatePayment(ctx context.Context, idempotencyKey string, payload CreatePaymentRequest) (*PaymentRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody ErrorResponse
		if json.Unmarshal(raw, &errBody) == nil {
			apiErr.Response = &errBody
		}
		return nil, apiErr
	}

	var out PaymentRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	return &out, nil
}
