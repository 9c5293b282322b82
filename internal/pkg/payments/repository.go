package payments

import (
	"time"

	"github.com/payflowhq/payflow/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the payment service.
type Repository interface {
	ClaimIdempotencyKey(claim *models.PaymentIdempotency) error
	GetIdempotencyClaim(key string) (*models.PaymentIdempotency, error)
	SaveClaimResponse(key, paymentID string, status int, body string) error
	DeleteClaim(key string) error
	CreatePayment(p *models.Payment) error
	ListOpenInvoices() ([]models.Invoice, error)
	MarkInvoicesPaid(ids []string, at time.Time) error
	// Transaction runs fn against a transactional view of the repository;
	// any error rolls back every write fn made.
	Transaction(fn func(tx Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// ClaimIdempotencyKey inserts the claim row. A second claim for the same key
// fails on the primary key with gorm.ErrDuplicatedKey.
func (r *gormRepository) ClaimIdempotencyKey(claim *models.PaymentIdempotency) error {
	return r.db.Create(claim).Error
}

func (r *gormRepository) GetIdempotencyClaim(key string) (*models.PaymentIdempotency, error) {
	var claim models.PaymentIdempotency
	if err := r.db.Where("idempotency_key = ?", key).First(&claim).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *gormRepository) SaveClaimResponse(key, paymentID string, status int, body string) error {
	return r.db.Model(&models.PaymentIdempotency{}).
		Where("idempotency_key = ?", key).
		Updates(map[string]interface{}{
			"payment_id":      paymentID,
			"response_status": status,
			"response_body":   body,
		}).Error
}

func (r *gormRepository) DeleteClaim(key string) error {
	return r.db.Where("idempotency_key = ?", key).Delete(&models.PaymentIdempotency{}).Error
}

func (r *gormRepository) CreatePayment(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *gormRepository) ListOpenInvoices() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("paid_at IS NULL").Order("id").Find(&invoices).Error
	return invoices, err
}

func (r *gormRepository) Transaction(fn func(tx Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) MarkInvoicesPaid(ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Invoice{}).
		Where("id IN ? AND paid_at IS NULL", ids).
		Update("paid_at", at).Error
}
