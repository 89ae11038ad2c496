package domain

import "github.com/shopspring/decimal"

// DefaultVATRate is applied to products created without an explicit rate.
var DefaultVATRate = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

// Product is a sellable item. Price is tax inclusive; the exclusive price and
// VAT amount are derived from it.
type Product struct {
	ProductID    string          `json:"id"`
	OwnerID      string          `json:"-"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	VATRate      decimal.Decimal `json:"tva"`
	PriceExclTax decimal.Decimal `json:"-"`
	VATAmount    decimal.Decimal `json:"-"`
	Timestamps
}

// ComputeTaxes refreshes PriceExclTax and VATAmount from Price and VATRate.
func (p *Product) ComputeTaxes() {
	divisor := hundred.Add(p.VATRate)
	if divisor.IsZero() {
		p.VATAmount = decimal.Zero
	} else {
		p.VATAmount = p.Price.Mul(p.VATRate).Div(divisor)
	}
	p.PriceExclTax = p.Price.Sub(p.VATAmount)
}
