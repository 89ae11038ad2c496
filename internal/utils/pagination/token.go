package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
)

const timeFormat = time.RFC3339Nano

// EncodeInvoiceCursor turns a keyset position into an opaque nextToken.
func EncodeInvoiceCursor(cursor domain.InvoiceCursor) string {
	tokenStr := fmt.Sprintf("%s|%s", cursor.CreatedAt.UTC().Format(timeFormat), cursor.InvoiceID)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeInvoiceCursor parses a nextToken produced by EncodeInvoiceCursor.
func DecodeInvoiceCursor(token string) (domain.InvoiceCursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return domain.InvoiceCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return domain.InvoiceCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return domain.InvoiceCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return domain.InvoiceCursor{CreatedAt: createdAt, InvoiceID: parts[1]}, nil
}

// ClampLimit applies the default when limit is unset and caps it at max.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
