package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/payflowhq/payflow/internal/pkg/payform"
	"github.com/payflowhq/payflow/internal/pkg/selection"
)

// SubmitStatus is the outcome of one Submit call.
type SubmitStatus int

const (
	// SubmitBlocked means a guard failed and nothing was sent.
	SubmitBlocked SubmitStatus = iota
	// SubmitBusy means another attempt was already in flight.
	SubmitBusy
	// SubmitFailed means the attempt failed; the classified error is
	// recorded on the session.
	SubmitFailed
	// SubmitPaid means the payment succeeded and the store was reconciled.
	SubmitPaid
)

// Receipt is the record of a completed payment, built from the totals of the
// selection that was paid, before the invoices were removed.
type Receipt struct {
	RefNumber      string
	PaymentTime    time.Time
	PaidInvoiceIDs []string
	Amount         float64
	Fee            float64
	TotalPaid      float64
}

// PaymentAPI is the payment creation endpoint consumed by the session.
type PaymentAPI interface {
	CreatePayment(ctx context.Context, idempotencyKey string, payload CreatePaymentRequest) (*PaymentRecord, error)
}

// Session is one payment-form instance. It owns the form values, the
// idempotency key lineage and the submission state machine, and reconciles
// the selection store after a confirmed success.
//
// An idempotency key is minted on Open and kept across failed attempts, so a
// bare retry of an unchanged payload replays under the same key and the
// endpoint can deduplicate it. A payment-sensitive edit after a failure that
// changes the payload fingerprint mints a fresh key: the same key must never
// carry two different payloads.
type Session struct {
	mu    sync.Mutex
	store *selection.Store
	api   PaymentAPI

	open           bool
	submitting     bool
	values         payform.Values
	idempotencyKey string
	// Fingerprint of the payload of the last failed attempt, empty when no
	// attempt failed. A sensitive edit that changes it forces a new key.
	failedFingerprint string

	errorMessage string
	retryable    bool
	serverErrors payform.Errors
}

// NewSession creates a session over the injected store and API client.
func NewSession(store *selection.Store, api PaymentAPI) *Session {
	return &Session{
		store:  store,
		api:    api,
		values: payform.InitialValues(),
	}
}

// Open resets the request/error state and mints a fresh idempotency key.
// Field values survive a reopen; only a successful payment blanks them.
func (s *Session) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = true
	s.clearErrorStateLocked()
	s.failedFingerprint = ""
	s.idempotencyKey = uuid.NewString()
}

// Close dismisses the form. It is a no-op while a submission is in flight
// and reports whether the form actually closed.
func (s *Session) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return false
	}
	s.clearErrorStateLocked()
	s.open = false
	return true
}

// SetField stores a field edit. The edit clears the current error/retry
// state, and when it touches a payment-sensitive field after a failed
// attempt, rotates the idempotency key. Card fields are canonicalized
// through their display transforms before storage.
func (s *Session) SetField(field payform.Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case payform.FieldCardNumber:
		s.values.CardNumber = payform.FormatCardNumber(value)
	case payform.FieldExpiry:
		s.values.Expiry = payform.FormatExpiry(value)
	case payform.FieldCVC:
		s.values.CVC = payform.FormatCVC(value)
	case payform.FieldEmail:
		s.values.Email = value
	case payform.FieldCardholderName:
		s.values.CardholderName = value
	case payform.FieldCountryRegion:
		s.values.CountryRegion = value
	case payform.FieldPostalCode:
		s.values.PostalCode = value
	default:
		return
	}

	s.clearErrorStateLocked()

	if s.failedFingerprint != "" && IsSensitiveField(field) && Fingerprint(s.values) != s.failedFingerprint {
		s.idempotencyKey = uuid.NewString()
		s.failedFingerprint = ""
	}
}

// Values returns the current form values.
func (s *Session) Values() payform.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

// IdempotencyKey returns the key of the current attempt lineage.
func (s *Session) IdempotencyKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idempotencyKey
}

// FieldErrors returns local validation errors with server field errors
// overlaid (server messages win on display).
func (s *Session) FieldErrors() payform.Errors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return payform.Validate(s.values).Merge(s.serverErrors)
}

// ErrorMessage returns the active submission error, if any, and whether an
// in-place retry is offered for it.
func (s *Session) ErrorMessage() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorMessage, s.retryable
}

// Submit runs one payment attempt: guard checks, the network call, response
// classification and, on success, reconciliation of the selection store.
// Guard violations return SubmitBlocked without touching the network. At
// most one attempt is in flight per session; a concurrent Submit returns
// SubmitBusy.
func (s *Session) Submit(ctx context.Context) (SubmitStatus, *Receipt) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return SubmitBusy, nil
	}

	// A new attempt clears all prior error state before proceeding.
	s.clearErrorStateLocked()

	selectedIDs := s.store.SelectedIDs()
	if !payform.Validate(s.values).IsZero() || len(selectedIDs) == 0 {
		s.mu.Unlock()
		return SubmitBlocked, nil
	}

	nameParts := strings.Fields(s.values.CardholderName)
	if len(nameParts) < 2 {
		s.serverErrors.CardholderName = "Enter first and last name"
		s.errorMessage = "Please review the payment form."
		s.failedFingerprint = Fingerprint(s.values)
		s.mu.Unlock()
		return SubmitFailed, nil
	}
	firstName := nameParts[0]
	lastName := strings.Join(nameParts[1:], " ")

	payload := CreatePaymentRequest{
		InvoiceIDs: selectedIDs,
		FirstName:  firstName,
		LastName:   lastName,
		Expiry:     stripSpace(s.values.Expiry),
		CVV:        payform.DigitsOnly(s.values.CVC),
		CardNumber: payform.DigitsOnly(s.values.CardNumber),
	}
	totals := s.store.Totals()
	key := s.idempotencyKey
	s.submitting = true
	s.mu.Unlock()

	record, err := s.api.CreatePayment(ctx, key, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		s.classifyFailureLocked(err)
		s.failedFingerprint = Fingerprint(s.values)
		return SubmitFailed, nil
	}

	receipt := &Receipt{
		RefNumber:      record.ID,
		PaymentTime:    record.CreatedAt,
		PaidInvoiceIDs: selectedIDs,
		Amount:         totals.Subtotal,
		Fee:            totals.Fee,
		TotalPaid:      totals.Total,
	}

	// Reconcile: drop paid invoices, clear the selection, blank the form and
	// discard the key. A fresh key is minted on the next Open.
	s.store.RemovePaid(selectedIDs)
	s.store.Clear()
	s.values = payform.InitialValues()
	s.clearErrorStateLocked()
	s.failedFingerprint = ""
	s.idempotencyKey = ""
	s.open = false

	return SubmitPaid, receipt
}

func (s *Session) classifyFailureLocked(err error) {
	apiErr, ok := asAPIError(err)
	if !ok {
		s.errorMessage = "Network error while submitting payment. Please retry."
		s.retryable = true
		return
	}

	switch apiErr.Status {
	case 409:
		s.errorMessage = "This payment attempt was already submitted with a different payload. Please reopen the payment form and try again."
	case 400:
		s.errorMessage = "Please review the payment form."
		if apiErr.Response != nil && strings.TrimSpace(apiErr.Response.Message) != "" {
			s.errorMessage = apiErr.Response.Message
		}
		if apiErr.Response != nil {
			s.serverErrors = mapServerFieldErrors(apiErr.Response.FieldErrors)
		}
	default:
		s.errorMessage = "Payment failed. Please try again."
		s.retryable = true
	}
}

func (s *Session) clearErrorStateLocked() {
	s.errorMessage = ""
	s.retryable = false
	s.serverErrors = payform.Errors{}
}

// mapServerFieldErrors maps wire field names onto the known form field set.
// The first message per field wins; unknown fields are dropped.
func mapServerFieldErrors(fieldErrors []FieldError) payform.Errors {
	var out payform.Errors
	for _, fe := range fieldErrors {
		field, ok := normalizeServerField(fe.Field)
		if !ok || out.Get(field) != "" {
			continue
		}
		out.Set(field, fe.Message)
	}
	return out
}

func normalizeServerField(field string) (payform.Field, bool) {
	switch field {
	case "cardNumber":
		return payform.FieldCardNumber, true
	case "expiry":
		return payform.FieldExpiry, true
	case "cvv":
		return payform.FieldCVC, true
	case "firstName", "lastName":
		return payform.FieldCardholderName, true
	}
	return "", false
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
