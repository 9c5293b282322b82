package models

import "time"

const PaymentStatusCreated = "CREATED"

// Payment is a created card payment. The primary account number is stored
// encrypted (AES-256-GCM); only the last four digits are kept in clear.
type Payment struct {
	ID                   string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FirstName            string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName             string    `gorm:"type:varchar(100);not null" json:"last_name"`
	CardLast4            string    `gorm:"type:varchar(4);not null" json:"card_last4"`
	CardNumberCiphertext string    `gorm:"type:text;not null" json:"-"`
	CardNumberNonce      string    `gorm:"type:varchar(64);not null" json:"-"`
	Status               string    `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt            time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
