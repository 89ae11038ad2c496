package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Counter is the per-scope sequence record invoice numbers are minted from.
type Counter struct {
	Scope      string    `json:"scope"`
	LastNumber int64     `json:"lastNumber"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const (
	DefaultNumberTemplate = "FAC-{year}-{num}"
	DefaultNumberPad      = 4

	ownerIDSuffixLen = 6
)

// NumberFormat describes how a raw counter value is rendered and which scope
// the counter belongs to.
type NumberFormat struct {
	Template string
	Pad      int
	PerOwner bool
}

// DefaultNumberFormat yields numbers like FAC-2024-0007 on a yearly scope.
func DefaultNumberFormat() NumberFormat {
	return NumberFormat{Template: DefaultNumberTemplate, Pad: DefaultNumberPad}
}

// Scope returns the counter partition for an invoice created at now by ownerID.
func (f NumberFormat) Scope(ownerID string, now time.Time) string {
	if f.PerOwner {
		return fmt.Sprintf("owner-%s-year-%d", ownerID, now.Year())
	}
	return YearScope(now.Year())
}

// YearScope returns the yearly counter partition, e.g. "year-2024".
func YearScope(year int) string {
	return "year-" + strconv.Itoa(year)
}

// Format renders n with the template. {num} is zero padded, {year} is the
// four digit year and {userId} the last six characters of ownerID. Any other
// placeholder is left as is.
func (f NumberFormat) Format(n int64, year int, ownerID string) string {
	tmpl := f.Template
	if tmpl == "" {
		tmpl = DefaultNumberTemplate
	}
	pad := f.Pad
	if pad <= 0 {
		pad = DefaultNumberPad
	}

	owner := ownerID
	if len(owner) > ownerIDSuffixLen {
		owner = owner[len(owner)-ownerIDSuffixLen:]
	}

	return strings.NewReplacer(
		"{num}", fmt.Sprintf("%0*d", pad, n),
		"{year}", strconv.Itoa(year),
		"{userId}", owner,
	).Replace(tmpl)
}
