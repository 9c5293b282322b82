package models

import "time"

// PaymentIdempotency is the claim record for one idempotency key. The key is
// claimed with a bare insert before the payment is created, so concurrent
// retries race on the primary key instead of creating duplicate payments.
type PaymentIdempotency struct {
	IdempotencyKey string    `gorm:"primaryKey;type:varchar(255)" json:"idempotency_key"`
	RequestHash    string    `gorm:"type:varchar(64);not null" json:"request_hash"`
	PaymentID      string    `gorm:"type:varchar(36)" json:"payment_id"`
	ResponseStatus int       `gorm:"default:0" json:"response_status"`
	ResponseBody   string    `gorm:"type:longtext" json:"response_body"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table aligned with the migration files.
func (PaymentIdempotency) TableName() string {
	return "payment_idempotency"
}
