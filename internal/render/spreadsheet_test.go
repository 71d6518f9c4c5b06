package render

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/sehoon/invoice-pipeline/internal/invoice"
)

func TestSpreadsheetRenderer_Layout(t *testing.T) {
	out, err := (&SpreadsheetRenderer{}).Render(sampleInvoice())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Invoice" {
		t.Fatalf("expected single Invoice sheet, got %v", sheets)
	}

	cells := map[string]string{
		"A1":  "Acme Supplies",
		"A3":  "Phone: 555-0100",
		"A5":  "INVOICE",
		"A7":  "INVOICE #: INV-2026-001",
		"A9":  "BILL TO:",
		"C9":  "SHIP TO:",
		"A10": "Jordan Lee",
		"A14": "ITEM #",
		"B14": "DESCRIPTION",
		"B15": "Widget",
		"D17": "SUBTOTAL",
		"D18": "TAX RATE",
		"E18": "5.00%",
		"D20": "TOTAL",
		"A22": "Thank You For Your Business!",
	}

	for cell, want := range cells {
		got, err := f.GetCellValue("Invoice", cell)
		if err != nil {
			t.Fatalf("get %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestSpreadsheetRenderer_EmptyInvoice(t *testing.T) {
	out, err := (&SpreadsheetRenderer{}).Render(&invoice.Invoice{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	f.Close()
}
