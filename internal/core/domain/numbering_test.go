package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumberFormat_Format(t *testing.T) {
	tests := []struct {
		name   string
		format NumberFormat
		n      int64
		year   int
		owner  string
		want   string
	}{
		{"default template", DefaultNumberFormat(), 7, 2024, "", "FAC-2024-0007"},
		{"zero value falls back to defaults", NumberFormat{}, 12, 2025, "", "FAC-2025-0012"},
		{"counter wider than padding", DefaultNumberFormat(), 123456, 2024, "", "FAC-2024-123456"},
		{"owner suffix", NumberFormat{Template: "INV-{userId}-{num}", Pad: 3}, 5, 2024, "0f8e2c1a-9b7d-4e55-a3c1-d4c9b8a7e6f5", "INV-a7e6f5-005"},
		{"short owner kept whole", NumberFormat{Template: "{userId}/{num}", Pad: 2}, 1, 2024, "abc", "abc/01"},
		{"every occurrence replaced", NumberFormat{Template: "{year}-{num}-{year}", Pad: 1}, 3, 2024, "", "2024-3-2024"},
		{"unknown placeholders left alone", NumberFormat{Template: "{prefix}-{num}", Pad: 4}, 9, 2024, "", "{prefix}-0009"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.Format(tt.n, tt.year, tt.owner))
		})
	}
}

func TestNumberFormat_Scope(t *testing.T) {
	at := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "year-2024", DefaultNumberFormat().Scope("u1", at))
	assert.Equal(t, "owner-u1-year-2024", NumberFormat{PerOwner: true}.Scope("u1", at))
	assert.NotEqual(t,
		DefaultNumberFormat().Scope("u1", at),
		DefaultNumberFormat().Scope("u1", at.Add(time.Minute)),
		"a new year starts a new sequence")
}

func TestInvoiceStatus_IsValid(t *testing.T) {
	for _, s := range InvoiceStatuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, InvoiceStatus("archived").IsValid())
	assert.False(t, InvoiceStatus("").IsValid())
	assert.False(t, InvoiceStatus("Paid").IsValid())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("owner").IsValid())
}
