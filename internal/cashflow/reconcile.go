package cashflow

import "github.com/shopspring/decimal"

// ExpectedBalance is what the drawer should physically contain: opening float
// plus cash retained from sales plus deposits, minus withdrawals.
func ExpectedBalance(opening decimal.Decimal, flow Flow) decimal.Decimal {
	return opening.
		Add(flow.CashSales).
		Add(flow.TotalDeposits).
		Sub(flow.TotalWithdrawals)
}

// Reconcile returns the signed difference between the counted/declared
// closing balance and the expected balance. Positive = surplus, negative =
// shortfall. The sign is never clamped; surfacing shortfalls is the point.
func Reconcile(declared, expected decimal.Decimal) decimal.Decimal {
	return declared.Sub(expected)
}
