package payments

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/payflowhq/payflow/app/models"
)

var (
	// ErrIdempotencyConflict means the key was already used with a
	// different request payload.
	ErrIdempotencyConflict = errors.New("idempotency key reused with a different payload")
	// ErrClaimPending means an identical request holds the claim but has
	// not stored its response yet; the caller may retry shortly.
	ErrClaimPending = errors.New("payment for this idempotency key is still in progress")
)

// Service creates payments with idempotency-key deduplication: the first
// request under a key creates the payment (201), an identical retry replays
// the stored response (200), and a different payload under the same key is
// rejected as a conflict.
type Service struct {
	repo   Repository
	crypto *Crypto
}

// NewService creates a payment service from an injected repository.
func NewService(repo Repository, crypto *Crypto) *Service {
	return &Service{repo: repo, crypto: crypto}
}

// NewServiceFromDB creates a payment service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, crypto *Crypto) *Service {
	return NewService(NewRepository(db), crypto)
}

// CreatePayment runs the claim/replay/create flow for one request. The
// request must already be normalized and validated.
func (s *Service) CreatePayment(ctx context.Context, idempotencyKey string, req CreateRequest) (*Result, error) {
	_ = ctx
	hash := HashCreateRequest(req)

	claim := &models.PaymentIdempotency{
		IdempotencyKey: idempotencyKey,
		RequestHash:    hash,
	}
	err := s.repo.ClaimIdempotencyKey(claim)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return s.replay(idempotencyKey, hash)
	}
	if err != nil {
		return nil, err
	}

	result, err := s.create(idempotencyKey, req)
	if err != nil {
		// Release the claim so an identical retry is not stuck behind a
		// response that was never stored.
		_ = s.repo.DeleteClaim(idempotencyKey)
		return nil, err
	}
	return result, nil
}

func (s *Service) replay(idempotencyKey, hash string) (*Result, error) {
	existing, err := s.repo.GetIdempotencyClaim(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing.RequestHash != hash {
		return nil, ErrIdempotencyConflict
	}
	if existing.ResponseBody == "" {
		return nil, ErrClaimPending
	}

	var resp CreateResponse
	if err := json.Unmarshal([]byte(existing.ResponseBody), &resp); err != nil {
		return nil, err
	}
	return &Result{HTTPStatus: 200, Response: resp}, nil
}

func (s *Service) create(idempotencyKey string, req CreateRequest) (*Result, error) {
	now := time.Now().UTC().Truncate(time.Second)

	ciphertext, nonce, err := s.crypto.Encrypt(req.CardNumber)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:                   uuid.NewString(),
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		CardLast4:            last4(req.CardNumber),
		CardNumberCiphertext: ciphertext,
		CardNumberNonce:      nonce,
		Status:               models.PaymentStatusCreated,
		CreatedAt:            now,
	}
	resp := CreateResponse{
		ID:        payment.ID,
		Status:    payment.Status,
		CreatedAt: now,
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}

	// The payment row, the invoice updates and the stored replay body must
	// land together. A partial write would let an identical retry create a
	// second payment for the same attempt.
	err = s.repo.Transaction(func(tx Repository) error {
		if err := tx.CreatePayment(payment); err != nil {
			return err
		}
		if err := tx.MarkInvoicesPaid(req.InvoiceIDs, now); err != nil {
			return err
		}
		return tx.SaveClaimResponse(idempotencyKey, payment.ID, 201, string(body))
	})
	if err != nil {
		return nil, err
	}

	return &Result{HTTPStatus: 201, Response: resp}, nil
}

// ListOpenInvoices returns the unpaid invoices.
func (s *Service) ListOpenInvoices(ctx context.Context) ([]models.Invoice, error) {
	_ = ctx
	return s.repo.ListOpenInvoices()
}
