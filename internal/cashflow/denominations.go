package cashflow

import "github.com/shopspring/decimal"

// Denominations lists every BRL bill and coin the closing count recognizes,
// largest first. Tags are the string form shown in the counting UI.
var Denominations = []string{
	"200", "100", "50", "20", "10", "5", "2",
	"1", "0.50", "0.25", "0.10", "0.05", "0.01",
}

var faceValues = func() map[string]decimal.Decimal {
	faces := make(map[string]decimal.Decimal, len(Denominations))
	for _, tag := range Denominations {
		faces[tag] = decimal.RequireFromString(tag)
	}
	return faces
}()

// CountDenominations sums a manual physical count into a currency total:
// Σ count × face value. Unknown tags and non-positive counts are ignored,
// so a sparse map from the counting UI is fine.
func CountDenominations(counts map[string]int) decimal.Decimal {
	total := decimal.Zero
	for tag, count := range counts {
		if count <= 0 {
			continue
		}
		face, ok := faceValues[tag]
		if !ok {
			continue
		}
		total = total.Add(face.Mul(decimal.NewFromInt(int64(count))))
	}
	return total
}
