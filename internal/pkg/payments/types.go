package payments

import "time"

const (
	CodeValidationError       = "VALIDATION_ERROR"
	CodeMissingIdempotencyKey = "MISSING_IDEMPOTENCY_KEY"
	CodeIdempotencyKeyReused  = "IDEMPOTENCY_KEY_REUSED"
	CodePaymentInProgress     = "PAYMENT_IN_PROGRESS"
	CodeInternalError         = "INTERNAL_ERROR"
)

// CreateRequest is the payment creation body. String fields are trimmed via
// Normalize before validation.
type CreateRequest struct {
	FirstName  string   `json:"firstName" validate:"required,max=100"`
	LastName   string   `json:"lastName" validate:"required,max=100"`
	Expiry     string   `json:"expiry" validate:"required,payexpiry"`
	CVV        string   `json:"cvv" validate:"required,paycvv"`
	CardNumber string   `json:"cardNumber" validate:"required,paycardnumber"`
	InvoiceIDs []string `json:"invoiceIds" validate:"required,min=1,dive,required,max=100"`
}

// CreateResponse is the payment record returned on 201 and replayed on 200.
type CreateResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FieldError is one request field violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error body for every non-2xx payments response.
type ErrorResponse struct {
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	FieldErrors []FieldError `json:"fieldErrors"`
}

// Result pairs the HTTP status with the response body, so the service can
// distinguish a fresh creation (201) from an idempotent replay (200).
type Result struct {
	HTTPStatus int
	Response   CreateResponse
}
