package order

import "github.com/shopspring/decimal"

// Totals is the price breakdown of an order. TaxAmount is rounded to two
// decimals exactly once, at the total level; per-line rounding would let
// drift accumulate across large carts.
type Totals struct {
	SubTotal   float64
	TaxRate    float64
	TaxAmount  float64
	GrandTotal float64
}

// LineTotal computes quantity * unitPrice with currency precision.
func LineTotal(quantity int, unitPrice float64) float64 {
	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	return total.InexactFloat64()
}

// Price computes the order totals from already-priced lines and a tax rate
// expressed in percent.
func Price(lines []Line, taxRate float64) Totals {
	sub := decimal.Zero
	for _, l := range lines {
		sub = sub.Add(decimal.NewFromFloat(l.Total))
	}
	tax := sub.Mul(decimal.NewFromFloat(taxRate)).Div(decimal.NewFromInt(100)).Round(2)
	grand := sub.Add(tax)

	return Totals{
		SubTotal:   sub.InexactFloat64(),
		TaxRate:    taxRate,
		TaxAmount:  tax.InexactFloat64(),
		GrandTotal: grand.InexactFloat64(),
	}
}

// MinorUnits converts a grand total to the gateway's smallest currency
// unit (e.g. rupees to paise).
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
