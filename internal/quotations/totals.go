package quotations

import "github.com/shopspring/decimal"

// Extension computes the line amount for a quantity and unit price,
// rounded half away from zero to 2 decimals.
func Extension(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// CalcTotal sums the extensions of the active lines, rounded to 2
// decimals. Inactive lines never contribute. Subtotal and total are the
// same figure; any future tax or surcharge would split them.
func CalcTotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		if l.RecordStatus != RecordActive {
			continue
		}
		sum = sum.Add(l.Extension)
	}
	return sum.Round(2)
}
