package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payflowhq/payflow/internal/pkg/payments"
)

type fakePaymentService struct {
	result  *payments.Result
	err     error
	lastKey string
	lastReq payments.CreateRequest
	calls   int
}

func (f *fakePaymentService) CreatePayment(ctx context.Context, idempotencyKey string, req payments.CreateRequest) (*payments.Result, error) {
	f.calls++
	f.lastKey = idempotencyKey
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newPaymentTestApp(t *testing.T, svc *fakePaymentService) *fiber.App {
	t.Helper()
	prev := paymentSvc
	paymentSvc = svc
	t.Cleanup(func() { paymentSvc = prev })

	app := fiber.New()
	app.Post("/payments", HandleCreatePayment)
	return app
}

func postPayment(t *testing.T, app *fiber.App, key, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) payments.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out payments.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

const validPaymentBody = `{
	"firstName": "Ada",
	"lastName": "Lovelace",
	"expiry": "12/29",
	"cvv": "123",
	"cardNumber": "4242424242424242",
	"invoiceIds": ["INV-2025-008"]
}`

func TestCreatePaymentRequiresIdempotencyKey(t *testing.T) {
	svc := &fakePaymentService{}
	app := newPaymentTestApp(t, svc)

	resp := postPayment(t, app, "", validPaymentBody)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, payments.CodeMissingIdempotencyKey, body.Code)
	assert.Zero(t, svc.calls)
}

func TestCreatePaymentRejectsMalformedJSON(t *testing.T) {
	svc := &fakePaymentService{}
	app := newPaymentTestApp(t, svc)

	resp := postPayment(t, app, "key-1", `{"firstName": `)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, payments.CodeValidationError, body.Code)
	assert.Zero(t, svc.calls)
}

func TestCreatePaymentValidationErrors(t *testing.T) {
	svc := &fakePaymentService{}
	app := newPaymentTestApp(t, svc)

	resp := postPayment(t, app, "key-1", `{"firstName":"Ada","lastName":"Lovelace","expiry":"13/29","cvv":"12","cardNumber":"42","invoiceIds":["INV-2025-008"]}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, payments.CodeValidationError, body.Code)
	assert.Equal(t, "Request validation failed", body.Message)

	fields := make(map[string]string, len(body.FieldErrors))
	for _, fe := range body.FieldErrors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "expiry must be in MM/YY format with month 01-12", fields["expiry"])
	assert.Equal(t, "cvv must be 3 or 4 digits", fields["cvv"])
	assert.Equal(t, "cardNumber must be between 12 and 19 digits", fields["cardNumber"])
	assert.Zero(t, svc.calls, "invalid requests must not reach the service")
}

func TestCreatePaymentCreated(t *testing.T) {
	created := time.Date(2026, 2, 25, 12, 34, 56, 0, time.UTC)
	svc := &fakePaymentService{result: &payments.Result{
		HTTPStatus: fiber.StatusCreated,
		Response:   payments.CreateResponse{ID: "pay-1", Status: "CREATED", CreatedAt: created},
	}}
	app := newPaymentTestApp(t, svc)

	resp := postPayment(t, app, "key-1", validPaymentBody)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()
	var out payments.CreateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "pay-1", out.ID)
	assert.Equal(t, "CREATED", out.Status)

	assert.Equal(t, "key-1", svc.lastKey)
	assert.Equal(t, []string{"INV-2025-008"}, svc.lastReq.InvoiceIDs)
	assert.Equal(t, "4242424242424242", svc.lastReq.CardNumber)
}

func TestCreatePaymentReplayedReturns200(t *testing.T) {
	svc := &fakePaymentService{result: &payments.Result{
		HTTPStatus: fiber.StatusOK,
		Response:   payments.CreateResponse{ID: "pay-1", Status: "CREATED"},
	}}
	app := newPaymentTestApp(t, svc)

	resp := postPayment(t, app, "key-1", validPaymentBody)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreatePaymentConflict(t *testing.T) {
	svc := &fakePaymentService{err: payments.ErrIdempotencyConflict}
	app := newPaymentTestApp(t, svc)

	resp := postPayment(t, app, "key-1", validPaymentBody)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, payments.CodeIdempotencyKeyReused, body.Code)
	assert.Empty(t, body.FieldErrors)
}

func TestCreatePaymentPending(t *testing.T) {
	svc := &fakePaymentService{err: payments.ErrClaimPending}
	app := newPaymentTestApp(t, svc)

	resp := postPayment(t, app, "key-1", validPaymentBody)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, payments.CodePaymentInProgress, body.Code)
}

func TestCreatePaymentInternalError(t *testing.T) {
	svc := &fakePaymentService{err: io.ErrUnexpectedEOF}
	app := newPaymentTestApp(t, svc)

	resp := postPayment(t, app, "key-1", validPaymentBody)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, payments.CodeInternalError, body.Code)
}
