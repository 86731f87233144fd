package cashflow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExpectedBalance(t *testing.T) {
	flow := Flow{
		CashSales:        decimal.NewFromFloat(76),
		TotalDeposits:    decimal.NewFromFloat(20),
		TotalWithdrawals: decimal.NewFromFloat(30),
	}
	expected := ExpectedBalance(decimal.NewFromFloat(100), flow)
	assert.Equal(t, "166", expected.String())
}

func TestExpectedBalance_LinearInOpening(t *testing.T) {
	flow := Flow{CashSales: decimal.NewFromFloat(42.50)}

	base := ExpectedBalance(decimal.NewFromFloat(100), flow)
	doubled := ExpectedBalance(decimal.NewFromFloat(200), flow)
	assert.Equal(t, "100", doubled.Sub(base).String())
}

func TestReconcile_Shortfall(t *testing.T) {
	// Declared 170.00 against expected 176.00 → −6.00.
	diff := Reconcile(decimal.NewFromFloat(170), decimal.NewFromFloat(176))
	assert.Equal(t, "-6", diff.String())
	assert.True(t, diff.IsNegative())
}

func TestReconcile_Surplus(t *testing.T) {
	diff := Reconcile(decimal.NewFromFloat(180), decimal.NewFromFloat(176))
	assert.Equal(t, "4", diff.String())
}

func TestReconcile_Exact(t *testing.T) {
	diff := Reconcile(decimal.NewFromFloat(176), decimal.NewFromFloat(176))
	assert.True(t, diff.IsZero())
}
