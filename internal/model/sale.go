package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment method categories.
const (
	MethodCash   = "cash"
	MethodCredit = "credit"
	MethodDebit  = "debit"
	MethodPix    = "pix"
	MethodOther  = "other"
)

// PaymentMethod is the configured catalog of accepted payment instruments.
// Read-only to the cash drawer core.
type PaymentMethod struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"not null"`
	// Type: cash | credit | debit | pix | other
	Type      string `gorm:"type:varchar(10);not null;default:'other'"`
	CreatedAt time.Time
}

// Sale is a completed sale associated to a drawer session. Read-only here;
// the sales module owns it. Payment data exists in three historical shapes:
//   - Payments: the current structured rows
//   - PaymentsRaw: a serialized JSON list from an older schema
//   - LegacyMethod: a single free-text method name from the oldest records
//
// The cashflow package resolves the three shapes once; nothing else in the
// codebase sniffs them.
type Sale struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'completed'"`

	PaymentsRaw  *string `gorm:"type:text"`
	LegacyMethod *string `gorm:"type:varchar(60)"`

	Payments  []SalePayment `gorm:"foreignKey:SaleID"`
	CreatedAt time.Time
}

// SalePayment is one payment instrument applied to a sale.
type SalePayment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	MethodID   *uuid.UUID      `gorm:"type:uuid"`
	MethodName string          `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
