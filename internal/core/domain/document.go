package domain

// InvoiceDocument is everything a renderer needs to lay out one invoice.
type InvoiceDocument struct {
	Invoice       Invoice
	IssuerName    string
	IssuerEmail   string
	FooterText    string
	CurrencyLabel string
}
