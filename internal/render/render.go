// Package render turns structured invoice data into output documents.
// Renderers are pure: identical input renders identical bytes, and missing
// invoice fields fall back to zero values instead of failing.
package render

import (
	"strconv"

	"github.com/sehoon/invoice-pipeline/internal/invoice"
)

// Renderer produces one output format from invoice data.
type Renderer interface {
	Render(inv *invoice.Invoice) ([]byte, error)
}

// ForFormat returns the renderer for a format. The error is an
// *invoice.ErrUnsupportedFormat for formats outside the supported set.
func ForFormat(f invoice.Format) (Renderer, error) {
	switch f {
	case invoice.FormatPDF:
		return &PDFRenderer{}, nil
	case invoice.FormatSpreadsheet:
		return &SpreadsheetRenderer{}, nil
	case invoice.FormatDelimited:
		return &DelimitedRenderer{}, nil
	default:
		return nil, &invoice.ErrUnsupportedFormat{Format: string(f)}
	}
}

// Column headers of the line-item table, shared by all three renderers.
var itemColumns = []string{"ITEM #", "DESCRIPTION", "QTY", "UNIT PRICE", "TOTAL"}

// money formats a currency amount with two decimal places.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// qty formats a quantity with the minimal number of digits.
func qty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
