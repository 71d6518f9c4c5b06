package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/sehoon/invoice-pipeline/internal/invoice"
)

// DelimitedRenderer writes the invoice as comma-separated rows: a short
// header block, the line-item table, and the totals. The tax rate is
// written as a raw rate, not a formatted percentage.
type DelimitedRenderer struct{}

// Render implements Renderer.
func (r *DelimitedRenderer) Render(inv *invoice.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"INVOICE #: " + inv.InvoiceNo},
		{"DATE: " + inv.Date},
		{"COMPANY: " + inv.CompanyName},
		{""},
		itemColumns,
	}

	for _, item := range inv.Items {
		records = append(records, []string{
			strconv.Itoa(item.ID),
			item.Description,
			qty(item.Qty),
			money(item.UnitPrice),
			money(item.Total),
		})
	}

	records = append(records,
		[]string{""},
		[]string{"SUBTOTAL", "", "", money(inv.Subtotal)},
		[]string{"TAX RATE", "", "", strconv.FormatFloat(inv.TaxRate, 'f', -1, 64)},
		[]string{"TOTAL", "", "", money(inv.TotalAmount)},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("render delimited text: %w", err)
	}
	return buf.Bytes(), nil
}
