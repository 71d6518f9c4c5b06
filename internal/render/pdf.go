package render

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sehoon/invoice-pipeline/internal/invoice"
)

// Column widths of the line-item table in millimeters.
var pdfColWidths = []float64{25, 75, 18, 30, 30}

// renderTimestamp is embedded as the document creation date so that
// identical invoice data renders byte-identical PDFs.
var renderTimestamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// PDFRenderer lays the invoice out on a US Letter page: company header,
// invoice metadata, bill-to/ship-to columns, the line-item table, and a
// right-aligned totals block.
type PDFRenderer struct{}

// Render implements Renderer.
func (r *PDFRenderer) Render(inv *invoice.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(renderTimestamp)
	pdf.SetModificationDate(renderTimestamp)
	pdf.SetTitle("Invoice "+inv.InvoiceNo, false)
	pdf.AddPage()

	// Company header block.
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 8, inv.CompanyName)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, inv.CompanyAddress)
	pdf.Ln(5)
	pdf.Cell(0, 5, "Phone: "+inv.CompanyPhone)
	pdf.Ln(12)

	// Invoice metadata.
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 0, 255)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, "DATE: "+inv.Date)
	pdf.Ln(5)
	pdf.Cell(0, 5, "INVOICE #: "+inv.InvoiceNo)
	pdf.Ln(12)

	// Bill-to / ship-to columns.
	const half = 89.0
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, 5, "BILL TO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, "SHIP TO:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, pair := range [][2]string{
		{inv.BillTo.Name, inv.ShipTo.Name},
		{inv.BillTo.Company, inv.ShipTo.Company},
		{inv.BillTo.Address, inv.ShipTo.Address},
	} {
		pdf.CellFormat(half, 5, pair[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(half, 5, pair[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Line-item table header.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0, 0, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range itemColumns {
		pdf.CellFormat(pdfColWidths[i], 7, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(7)

	// Line-item rows.
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range inv.Items {
		r.itemRow(pdf, strconv.Itoa(item.ID), item.Description, qty(item.Qty), money(item.UnitPrice), money(item.Total))
	}
	// Padding rows keep short invoices looking like the printed template.
	for range 5 {
		r.itemRow(pdf, "", "", "", "", "")
	}
	pdf.Ln(8)

	// Totals block.
	r.totalRow(pdf, "SUBTOTAL", money(inv.Subtotal), false)
	r.totalRow(pdf, "TAX RATE", fmt.Sprintf("%.3f%%", inv.TaxRate), false)
	r.totalRow(pdf, "TAX", money(inv.TaxAmount), false)
	r.totalRow(pdf, "TOTAL", "$ "+money(inv.TotalAmount), true)

	pdf.Ln(15)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 5, "Thank You For Your Business!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) itemRow(pdf *fpdf.Fpdf, cells ...string) {
	aligns := []string{"C", "L", "C", "R", "R"}
	for i, cell := range cells {
		pdf.CellFormat(pdfColWidths[i], 6, cell, "1", 0, aligns[i], false, 0, "")
	}
	pdf.Ln(6)
}

func (r *PDFRenderer) totalRow(pdf *fpdf.Fpdf, label, value string, fill bool) {
	if fill {
		pdf.SetFillColor(211, 211, 211)
		pdf.SetFont("Helvetica", "B", 10)
	}
	pdf.CellFormat(100, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(48, 6, label, "1", 0, "R", fill, 0, "")
	pdf.CellFormat(30, 6, value, "1", 1, "R", fill, 0, "")
	if fill {
		pdf.SetFont("Helvetica", "", 10)
	}
}
