package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money":  formatMoney,
	"date":   formatDate,
	"status": strings.ToUpper,
}).Parse(invoiceHTML))

// invoiceView is the data handed to the invoice template.
type invoiceView struct {
	Number      string
	Status      string
	IssueDate   time.Time
	DueDate     *time.Time
	IssuerName  string
	IssuerEmail string
	Client      dto.InvoiceClient
	Items       []domain.LineItem
	Subtotal    decimal.Decimal
	TaxRate     decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	Notes       string
	Footer      string
	Currency    string
}

// RenderInvoiceHTML lays out doc as a standalone A4 HTML page.
func RenderInvoiceHTML(doc domain.InvoiceDocument) (string, error) {
	inv := doc.Invoice
	view := invoiceView{
		Number:      inv.InvoiceNumber,
		Status:      string(inv.Status),
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		IssuerName:  doc.IssuerName,
		IssuerEmail: doc.IssuerEmail,
		Client:      dto.ToInvoiceResponse(&inv).Client,
		Items:       inv.Items,
		Subtotal:    inv.Subtotal,
		TaxRate:     inv.TaxRate,
		TaxAmount:   inv.TaxAmount,
		Total:       inv.Total,
		Footer:      doc.FooterText,
		Currency:    doc.CurrencyLabel,
	}
	if inv.Notes != nil {
		view.Notes = *inv.Notes
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to execute invoice template: %w", err)
	}
	return buf.String(), nil
}

// formatMoney renders d with two decimals dropped when zero and thousands
// separated by spaces, e.g. 1 234 500 or 12.50.
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	s = strings.TrimSuffix(s, ".00")

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

const invoiceHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<title>{{.Number}}</title>
<style>
  @page { size: A4; margin: 18mm 16mm; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #222; }
  header { display: flex; justify-content: space-between; border-bottom: 2px solid #1f4e79; padding-bottom: 8px; }
  h1 { margin: 0; color: #1f4e79; font-size: 22pt; }
  .meta td { padding: 1px 8px 1px 0; }
  .parties { display: flex; justify-content: space-between; margin: 18px 0; }
  .party { width: 48%; }
  .party h3 { margin: 0 0 4px; font-size: 10pt; text-transform: uppercase; color: #666; }
  table.items { width: 100%; border-collapse: collapse; }
  table.items th { background: #1f4e79; color: #fff; text-align: left; padding: 6px; }
  table.items td { border-bottom: 1px solid #ddd; padding: 6px; }
  .num { text-align: right; }
  table.totals { margin-left: auto; margin-top: 12px; }
  table.totals td { padding: 3px 8px; }
  table.totals tr.grand td { font-weight: bold; border-top: 2px solid #1f4e79; }
  .notes { margin-top: 18px; }
  footer { margin-top: 32px; font-size: 9pt; color: #666; text-align: center; }
</style>
</head>
<body>
<header>
  <div>
    <h1>FACTURE</h1>
    <table class="meta">
      <tr><td>Numéro</td><td><strong>{{.Number}}</strong></td></tr>
      <tr><td>Date</td><td>{{date .IssueDate}}</td></tr>
      {{- if .DueDate}}
      <tr><td>Échéance</td><td>{{date .DueDate}}</td></tr>
      {{- end}}
      <tr><td>Statut</td><td>{{status .Status}}</td></tr>
    </table>
  </div>
</header>

<section class="parties">
  <div class="party">
    <h3>Émetteur</h3>
    <div>{{.IssuerName}}</div>
    <div>{{.IssuerEmail}}</div>
  </div>
  <div class="party">
    <h3>Client</h3>
    <div><strong>{{.Client.Name}}</strong></div>
    {{- with .Client.Email}}<div>{{.}}</div>{{end}}
    {{- with .Client.Phone}}<div>{{.}}</div>{{end}}
    {{- with .Client.Address}}<div>{{.}}</div>{{end}}
  </div>
</section>

<table class="items">
  <thead>
    <tr><th>Produit</th><th class="num">Quantité</th><th class="num">Prix unitaire</th><th class="num">Total</th></tr>
  </thead>
  <tbody>
  {{- range .Items}}
    <tr>
      <td>{{.ProductName}}</td>
      <td class="num">{{money .Quantity}}</td>
      <td class="num">{{money .UnitPrice}} {{$.Currency}}</td>
      <td class="num">{{money .Total}} {{$.Currency}}</td>
    </tr>
  {{- end}}
  </tbody>
</table>

<table class="totals">
  <tr><td>Sous-total</td><td class="num">{{money .Subtotal}} {{.Currency}}</td></tr>
  <tr><td>TVA ({{money .TaxRate}}%)</td><td class="num">{{money .TaxAmount}} {{.Currency}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">{{money .Total}} {{.Currency}}</td></tr>
</table>

{{- if .Notes}}
<div class="notes"><strong>Notes :</strong> {{.Notes}}</div>
{{- end}}

{{- if .Footer}}
<footer>{{.Footer}}</footer>
{{- end}}
</body>
</html>
`
