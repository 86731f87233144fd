package dto

import (
	"github.com/shopspring/decimal"

	"github.com/pabloh4516/sellx-sub001/internal/cashflow"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	// OpeningBalance defaults to 0.00 when omitted.
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type MovementRequest struct {
	SessionID   string          `json:"session_id"  validate:"required,uuid"`
	Type        string          `json:"type"        validate:"required,oneof=deposit withdrawal"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Description string          `json:"description" validate:"required,min=3"`
}

type CloseSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	// DeclaredBalance is the blind-counted cash amount. When Denominations is
	// present the server derives the declaration from the physical count and
	// DeclaredBalance is ignored. Omitting both declares 0.00 — the session
	// is still reconciled, never silently closed.
	DeclaredBalance *decimal.Decimal `json:"declared_balance" validate:"omitempty,min=0"`
	Denominations   map[string]int   `json:"denominations"    validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SnapshotResponse is the live drawer view, recomputed on every read.
type SnapshotResponse struct {
	SessionID        string                    `json:"session_id"`
	Status           string                    `json:"status"`
	OpeningBalance   decimal.Decimal           `json:"opening_balance"`
	TotalSales       decimal.Decimal           `json:"total_sales"`
	CashSales        decimal.Decimal           `json:"cash_sales"`
	NonCashSales     decimal.Decimal           `json:"non_cash_sales"`
	Breakdown        []cashflow.BreakdownEntry `json:"payment_breakdown"`
	TotalDeposits    decimal.Decimal           `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal           `json:"total_withdrawals"`
	ExpectedBalance  decimal.Decimal           `json:"expected_balance"`
}

// SessionResponse mirrors a CashSession record.
type SessionResponse struct {
	ID              string           `json:"id"`
	Status          string           `json:"status"`
	OpeningBalance  decimal.Decimal  `json:"opening_balance"`
	OpenedBy        string           `json:"opened_by"`
	OpenedAt        string           `json:"opened_at"`
	ClosingBalance  *decimal.Decimal `json:"closing_balance,omitempty"`
	ExpectedBalance *decimal.Decimal `json:"expected_balance,omitempty"`
	Difference      *decimal.Decimal `json:"difference,omitempty"`
	ClosedBy        *string          `json:"closed_by,omitempty"`
	ClosedAt        *string          `json:"closed_at,omitempty"`
}

// ClosingReportResponse is the final reconciliation record plus the flow
// breakdown, ready for an external formatter to render or print.
type ClosingReportResponse struct {
	Session          SessionResponse           `json:"session"`
	TotalSales       decimal.Decimal           `json:"total_sales"`
	CashSales        decimal.Decimal           `json:"cash_sales"`
	NonCashSales     decimal.Decimal           `json:"non_cash_sales"`
	Breakdown        []cashflow.BreakdownEntry `json:"payment_breakdown"`
	TotalDeposits    decimal.Decimal           `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal           `json:"total_withdrawals"`
}
