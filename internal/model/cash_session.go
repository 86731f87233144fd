package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status values.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// Movement types. Withdrawal = sangria, deposit = suprimento.
const (
	MovementWithdrawal = "withdrawal"
	MovementDeposit    = "deposit"
)

// CashSession represents one open-to-close lifecycle of a physical cash drawer.
// ScopeKey is "store" in shared mode or the operator id in per-operator mode;
// a partial unique index on (scope_key) WHERE status='open' guarantees at most
// one open session per scope at the database, not in application memory.
type CashSession struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ScopeKey       string          `gorm:"type:varchar(40);not null;index"`
	Status         string          `gorm:"type:varchar(10);not null;default:'open'"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OpenedBy       uuid.UUID       `gorm:"type:uuid;not null"`
	OpenedAt       time.Time
	// Closing fields are set exactly once, when the session transitions to
	// closed. A closed session is read-only history and is never reopened.
	ClosingBalance  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpectedBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Difference      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ClosedBy        *uuid.UUID       `gorm:"type:uuid"`
	ClosedAt        *time.Time

	Movements []CashMovement `gorm:"foreignKey:SessionID"`
}

// CashMovement is an immutable cash event outside of normal sales: a deposit
// into or a withdrawal out of an open drawer session. Movements are NEVER
// modified or deleted once created.
type CashMovement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type        string          `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string          `gorm:"not null"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}
