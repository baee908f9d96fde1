// Package pricing holds the quotation money arithmetic: line totals,
// aggregate discount, tax and grand total. All amounts are decimals.
package pricing

import (
	"github.com/shopspring/decimal"

	"quotations/go_backend/internal/core/errx"
)

// StoredPlaces is the scale of NUMERIC money columns.
const StoredPlaces = 4

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

var hundred = decimal.NewFromInt(100)

func init() {
	// the SPA does arithmetic on these fields
	decimal.MarshalJSONWithoutQuotes = true
}

// Line is one priced row: quantity × unit price less a percentage discount.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Total is qty * price * (1 - discount/100).
func (l Line) Total() decimal.Decimal {
	gross := l.Quantity.Mul(l.UnitPrice)
	if l.Discount.IsZero() {
		return gross
	}
	return gross.Mul(hundred.Sub(l.Discount)).Div(hundred)
}

// Adjustments are the document-level discount and tax.
type Adjustments struct {
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	TaxRate       decimal.Decimal
}

type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// Sum adds up line totals without intermediate rounding.
func Sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}

// Compute applies discount then tax to subtotal. Results are rounded to
// StoredPlaces only at the end so a recompute of the same inputs is stable.
func Compute(subtotal decimal.Decimal, adj Adjustments) Totals {
	discount := decimal.Zero
	switch adj.DiscountType {
	case DiscountPercentage:
		discount = subtotal.Mul(adj.DiscountValue).Div(hundred)
	case DiscountFixed:
		discount = adj.DiscountValue
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(adj.TaxRate).Div(hundred)
	return Totals{
		Subtotal:       subtotal.Round(StoredPlaces),
		DiscountAmount: discount.Round(StoredPlaces),
		TaxAmount:      tax.Round(StoredPlaces),
		TotalAmount:    taxable.Add(tax).Round(StoredPlaces),
	}
}

// ValidateLine checks a single row. prefix is the JSON path used in field errors.
func ValidateLine(fields errx.Fields, prefix string, l Line) {
	if !l.Quantity.IsPositive() {
		fields.Add(prefix+".quantity", "must be greater than 0")
	}
	if l.UnitPrice.IsNegative() {
		fields.Add(prefix+".unitPrice", "must not be negative")
	}
	if l.Discount.IsNegative() || l.Discount.GreaterThan(hundred) {
		fields.Add(prefix+".discount", "must be between 0 and 100")
	}
}

// ValidateAdjustments checks discount and tax against the computed subtotal.
func ValidateAdjustments(fields errx.Fields, subtotal decimal.Decimal, adj Adjustments) {
	if adj.DiscountType != "" && !adj.DiscountType.Valid() {
		fields.Add("discountType", "must be percentage or fixed")
	}
	if adj.DiscountValue.IsNegative() {
		fields.Add("discountValue", "must not be negative")
	}
	switch adj.DiscountType {
	case DiscountPercentage:
		if adj.DiscountValue.GreaterThan(hundred) {
			fields.Add("discountValue", "must not exceed 100 percent")
		}
	case DiscountFixed:
		if adj.DiscountValue.GreaterThan(subtotal) {
			fields.Add("discountValue", "must not exceed the subtotal")
		}
	}
	if adj.TaxRate.IsNegative() || adj.TaxRate.GreaterThan(hundred) {
		fields.Add("taxRate", "must be between 0 and 100")
	}
}
