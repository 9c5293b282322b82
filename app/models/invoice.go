package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityUrgent   = "urgent"
	PriorityCritical = "critical"
)

// Invoice is an outstanding invoice that can be selected for payment.
// Invoices are immutable once listed; a successful payment marks them paid
// instead of deleting the row.
type Invoice struct {
	ID        string     `gorm:"primaryKey;type:varchar(50)" json:"id" validate:"required,max=50"`
	Vendor    string     `gorm:"type:varchar(150);not null" json:"vendor" validate:"required,max=150"`
	Amount    float64    `gorm:"type:decimal(10,2);not null" json:"amount" validate:"gte=0"`
	Currency  string     `gorm:"type:varchar(3);not null;default:'USD'" json:"currency" validate:"required,len=3"`
	IssueDate string     `gorm:"type:varchar(10);not null" json:"issueDate" validate:"required"`
	DueDate   string     `gorm:"type:varchar(10);not null" json:"dueDate" validate:"required"`
	Priority  string     `gorm:"type:varchar(20);not null;default:'normal';index" json:"priority" validate:"oneof=normal high urgent critical"`
	PaidAt    *time.Time `gorm:"type:timestamp;default:null;index" json:"-"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
}

func (i *Invoice) Validate() error {
	v := validator.New()

	return v.Struct(i)
}
