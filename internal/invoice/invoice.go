// Package invoice defines the invoice data model, the supported output
// formats, and the queue message contracts that link the pipeline stages.
package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Party is one side of a bill-to / ship-to block.
type Party struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Address string `json:"address"`
}

// LineItem is a single billed row of an invoice.
type LineItem struct {
	ID          int     `json:"id"`
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Invoice is the structured source data uploaded by a client. Every field is
// optional: renderers substitute zero values for anything absent.
type Invoice struct {
	InvoiceNo      string     `json:"invoice_no"`
	Date           string     `json:"date"`
	CompanyName    string     `json:"company_name"`
	CompanyAddress string     `json:"company_address"`
	CompanyPhone   string     `json:"company_phone"`
	BillTo         Party      `json:"bill_to"`
	ShipTo         Party      `json:"ship_to"`
	Items          []LineItem `json:"items"`
	Subtotal       float64    `json:"subtotal"`
	TaxRate        float64    `json:"tax_rate"`
	TaxAmount      float64    `json:"tax_amount"`
	TotalAmount    float64    `json:"total_amount"`
}

// Decode parses raw invoice bytes as JSON. Missing fields are fine (they
// render as zero values); malformed JSON or mistyped fields are an error.
func Decode(data []byte) (*Invoice, error) {
	var inv Invoice
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&inv); err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	return &inv, nil
}
