package render

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/sehoon/invoice-pipeline/internal/invoice"
)

func TestDelimitedRenderer_Layout(t *testing.T) {
	out, err := (&DelimitedRenderer{}).Render(sampleInvoice())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	// Blank separator rows are dropped by the CSV reader.
	if len(records) != 8 {
		t.Fatalf("expected 8 records, got %d: %v", len(records), records)
	}

	if records[0][0] != "INVOICE #: INV-2026-001" {
		t.Errorf("unexpected invoice row: %v", records[0])
	}
	if records[1][0] != "DATE: 2026-09-01" {
		t.Errorf("unexpected date row: %v", records[1])
	}
	if records[2][0] != "COMPANY: Acme Supplies" {
		t.Errorf("unexpected company row: %v", records[2])
	}

	header := records[3]
	want := []string{"ITEM #", "DESCRIPTION", "QTY", "UNIT PRICE", "TOTAL"}
	for i, col := range want {
		if header[i] != col {
			t.Errorf("header[%d] = %q, want %q", i, header[i], col)
		}
	}

	item := records[4]
	if item[0] != "1" || item[1] != "Widget" || item[2] != "2" || item[3] != "5.00" || item[4] != "10.00" {
		t.Errorf("unexpected item row: %v", item)
	}

	if records[5][0] != "SUBTOTAL" || records[5][3] != "10.00" {
		t.Errorf("unexpected subtotal row: %v", records[5])
	}
	// The tax rate is written raw, not formatted as a percentage.
	if records[6][0] != "TAX RATE" || records[6][3] != "5" {
		t.Errorf("unexpected tax rate row: %v", records[6])
	}
	if records[7][0] != "TOTAL" || records[7][3] != "10.50" {
		t.Errorf("unexpected total row: %v", records[7])
	}
}

func TestDelimitedRenderer_EmptyInvoice(t *testing.T) {
	out, err := (&DelimitedRenderer{}).Render(&invoice.Invoice{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty output")
	}
}

func TestDelimitedRenderer_Deterministic(t *testing.T) {
	inv := sampleInvoice()
	r := &DelimitedRenderer{}

	first, err := r.Render(inv)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := r.Render(inv)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("expected identical output for identical input")
	}
}
