package cashflow

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pabloh4516/sellx-sub001/internal/model"
)

// BreakdownEntry is one payment method's aggregate within a session.
type BreakdownEntry struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// Flow holds every total the drawer reconciliation needs. All fields are
// derived exclusively from the sales, movements and method catalog passed to
// Compute.
type Flow struct {
	TotalSales       decimal.Decimal  `json:"total_sales"`
	CashSales        decimal.Decimal  `json:"cash_sales"`
	NonCashSales     decimal.Decimal  `json:"non_cash_sales"`
	Breakdown        []BreakdownEntry `json:"payment_breakdown"`
	TotalDeposits    decimal.Decimal  `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal  `json:"total_withdrawals"`
}

// Compute aggregates a session's sales and movements.
//
// Cash retained per sale accounts for change: customers are always handed
// change from the drawer's cash regardless of which instruments paid, so
//
//	change       = max(0, paidTotal − sale.Total)
//	cashRetained = max(0, cashPaid − change)
//
// A sale with no resolvable payment data contributes its full total to
// non-cash (see IsCash for the classification default).
func Compute(sales []model.Sale, movements []model.CashMovement, methods []model.PaymentMethod) Flow {
	idx := NewMethodIndex(methods)

	flow := Flow{}
	grouped := map[string]*BreakdownEntry{}

	for _, sale := range sales {
		flow.TotalSales = flow.TotalSales.Add(sale.Total)

		entries := ParsePayments(sale)
		if len(entries) == 0 {
			continue
		}

		paidTotal := decimal.Zero
		cashPaid := decimal.Zero
		for _, entry := range entries {
			paidTotal = paidTotal.Add(entry.Amount)
			if IsCash(entry, idx) {
				cashPaid = cashPaid.Add(entry.Amount)
			}

			key := canonicalMethod(entry.MethodName)
			g, ok := grouped[key]
			if !ok {
				g = &BreakdownEntry{Method: key}
				grouped[key] = g
			}
			g.Amount = g.Amount.Add(entry.Amount)
			g.Count++
		}

		change := paidTotal.Sub(sale.Total)
		if change.IsNegative() {
			change = decimal.Zero
		}
		cashRetained := cashPaid.Sub(change)
		if cashRetained.IsNegative() {
			cashRetained = decimal.Zero
		}
		flow.CashSales = flow.CashSales.Add(cashRetained)
	}

	flow.NonCashSales = flow.TotalSales.Sub(flow.CashSales)

	flow.Breakdown = make([]BreakdownEntry, 0, len(grouped))
	for _, g := range grouped {
		flow.Breakdown = append(flow.Breakdown, *g)
	}
	// Largest method first; name as tie-breaker keeps the output stable.
	sort.Slice(flow.Breakdown, func(i, j int) bool {
		if !flow.Breakdown[i].Amount.Equal(flow.Breakdown[j].Amount) {
			return flow.Breakdown[i].Amount.GreaterThan(flow.Breakdown[j].Amount)
		}
		return flow.Breakdown[i].Method < flow.Breakdown[j].Method
	})

	for _, m := range movements {
		switch m.Type {
		case model.MovementDeposit:
			flow.TotalDeposits = flow.TotalDeposits.Add(m.Amount)
		case model.MovementWithdrawal:
			flow.TotalWithdrawals = flow.TotalWithdrawals.Add(m.Amount)
		}
	}

	return flow
}

// canonicalMethod derives the grouping key for the payment breakdown.
// Free-text legacy names and structured names collapse to the same bucket.
func canonicalMethod(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "unknown"
	}
	return key
}
