package render

import (
	"bytes"
	"testing"

	"github.com/sehoon/invoice-pipeline/internal/invoice"
)

func TestPDFRenderer_ProducesPDF(t *testing.T) {
	out, err := (&PDFRenderer{}).Render(sampleInvoice())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", out[:min(len(out), 8)])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Error("expected PDF trailer")
	}
}

func TestPDFRenderer_EmptyInvoice(t *testing.T) {
	out, err := (&PDFRenderer{}).Render(&invoice.Invoice{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("expected PDF header")
	}
}

func TestPDFRenderer_Deterministic(t *testing.T) {
	inv := sampleInvoice()
	r := &PDFRenderer{}

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

func TestPDFRenderer_ManyItems(t *testing.T) {
	inv := sampleInvoice()
	for i := 2; i <= 40; i++ {
		inv.Items = append(inv.Items, invoice.LineItem{
			ID: i, Description: "Widget", Qty: 1, UnitPrice: 5, Total: 5,
		})
	}

	out, err := (&PDFRenderer{}).Render(inv)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty output")
	}
}
