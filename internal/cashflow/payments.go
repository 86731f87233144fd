// Package cashflow implements the cash drawer reconciliation core: payment
// normalization, cash classification, flow totals, denomination counting and
// the expected-balance computation. Everything here is a pure function over
// already-fetched collections — no I/O, no shared state — so callers may
// recompute on every read.
package cashflow

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pabloh4516/sellx-sub001/internal/model"
)

// cashWord is the local vocabulary for a cash payment. Legacy records carry
// free-text method names ("Dinheiro", "dinheiro à vista", ...), which are more
// reliable than a possibly-stale method id, so name matching wins.
const cashWord = "dinheiro"

// PaymentEntry is the canonical shape every historical payment record is
// normalized into.
type PaymentEntry struct {
	MethodID   *uuid.UUID      `json:"method_id"`
	MethodName string          `json:"method_name"`
	Amount     decimal.Decimal `json:"amount"`
}

// ParsePayments normalizes a sale's payment data into an ordered list of
// entries. Sales have accumulated three shapes over time: structured rows,
// a serialized JSON list, and a single free-text legacy method field. The
// resolution is best-effort: malformed serialized data degrades to an empty
// list instead of failing the whole reconciliation.
func ParsePayments(sale model.Sale) []PaymentEntry {
	if len(sale.Payments) > 0 {
		entries := make([]PaymentEntry, 0, len(sale.Payments))
		for _, p := range sale.Payments {
			entries = append(entries, PaymentEntry{
				MethodID:   p.MethodID,
				MethodName: p.MethodName,
				Amount:     p.Amount,
			})
		}
		return entries
	}

	if sale.PaymentsRaw != nil && strings.TrimSpace(*sale.PaymentsRaw) != "" {
		var entries []PaymentEntry
		if err := json.Unmarshal([]byte(*sale.PaymentsRaw), &entries); err != nil {
			// Dirty historical data — swallow and degrade.
			return nil
		}
		return entries
	}

	if sale.LegacyMethod != nil && strings.TrimSpace(*sale.LegacyMethod) != "" {
		// Oldest records: one method, no amount breakdown. Synthesize a single
		// entry covering the full sale total.
		return []PaymentEntry{{
			MethodName: strings.TrimSpace(*sale.LegacyMethod),
			Amount:     sale.Total,
		}}
	}

	return nil
}

// MethodIndex maps payment method ids to their category for classification.
type MethodIndex map[uuid.UUID]string

// NewMethodIndex builds an index from the configured payment method catalog.
func NewMethodIndex(methods []model.PaymentMethod) MethodIndex {
	idx := make(MethodIndex, len(methods))
	for _, m := range methods {
		idx[m.ID] = m.Type
	}
	return idx
}

// IsCash decides whether a payment entry is physical cash. Name matching runs
// first, then the method-id lookup. Entries with neither a cash-named method
// nor a resolvable cash-typed id default to non-cash.
func IsCash(entry PaymentEntry, idx MethodIndex) bool {
	if strings.Contains(strings.ToLower(entry.MethodName), cashWord) {
		return true
	}
	if entry.MethodID != nil {
		return idx[*entry.MethodID] == model.MethodCash
	}
	return false
}
