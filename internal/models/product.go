package models

import "github.com/shopspring/decimal"

// Product is a row of the products table.
type Product struct {
	ProductID    string          `db:"product_id"`
	OwnerID      string          `db:"owner_id"`
	Name         string          `db:"name"`
	Description  string          `db:"description"`
	Price        decimal.Decimal `db:"price"`
	VATRate      decimal.Decimal `db:"vat_rate"`
	PriceExclTax decimal.Decimal `db:"price_excl_tax"`
	VATAmount    decimal.Decimal `db:"vat_amount"`
	Timestamps
}
