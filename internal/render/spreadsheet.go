package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sehoon/invoice-pipeline/internal/invoice"
)

const sheetName = "Invoice"

// SpreadsheetRenderer writes the invoice as an xlsx workbook with a single
// sheet mirroring the printed layout: company header, metadata, bill-to and
// ship-to columns, the line-item table, and the totals block.
type SpreadsheetRenderer struct{}

// Render implements Renderer.
func (r *SpreadsheetRenderer) Render(inv *invoice.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"000080"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 18, Color: "0000FF"},
	})
	if err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: 2,
	})
	if err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}

	set := func(cell string, value interface{}) {
		f.SetCellValue(sheetName, cell, value)
	}

	// Company header and invoice metadata.
	set("A1", inv.CompanyName)
	f.SetCellStyle(sheetName, "A1", "A1", boldStyle)
	set("A2", inv.CompanyAddress)
	set("A3", "Phone: "+inv.CompanyPhone)

	set("A5", "INVOICE")
	f.SetCellStyle(sheetName, "A5", "A5", titleStyle)
	set("A6", "DATE: "+inv.Date)
	set("A7", "INVOICE #: "+inv.InvoiceNo)

	// Bill-to / ship-to columns.
	set("A9", "BILL TO:")
	set("C9", "SHIP TO:")
	f.SetCellStyle(sheetName, "A9", "C9", boldStyle)
	set("A10", inv.BillTo.Name)
	set("C10", inv.ShipTo.Name)
	set("A11", inv.BillTo.Company)
	set("C11", inv.ShipTo.Company)
	set("A12", inv.BillTo.Address)
	set("C12", inv.ShipTo.Address)

	// Line-item table.
	const tableStart = 14
	for i, col := range itemColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, tableStart)
		if err != nil {
			return nil, fmt.Errorf("render spreadsheet: %w", err)
		}
		set(cell, col)
	}
	first, _ := excelize.CoordinatesToCellName(1, tableStart)
	last, _ := excelize.CoordinatesToCellName(len(itemColumns), tableStart)
	f.SetCellStyle(sheetName, first, last, headerStyle)

	row := tableStart + 1
	for _, item := range inv.Items {
		set(fmt.Sprintf("A%d", row), item.ID)
		set(fmt.Sprintf("B%d", row), item.Description)
		set(fmt.Sprintf("C%d", row), item.Qty)
		set(fmt.Sprintf("D%d", row), item.UnitPrice)
		set(fmt.Sprintf("E%d", row), item.Total)
		f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("E%d", row), moneyStyle)
		row++
	}

	// Totals block.
	row++
	set(fmt.Sprintf("D%d", row), "SUBTOTAL")
	set(fmt.Sprintf("E%d", row), inv.Subtotal)
	f.SetCellStyle(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), moneyStyle)
	row++
	set(fmt.Sprintf("D%d", row), "TAX RATE")
	set(fmt.Sprintf("E%d", row), fmt.Sprintf("%.2f%%", inv.TaxRate))
	row++
	set(fmt.Sprintf("D%d", row), "TAX")
	set(fmt.Sprintf("E%d", row), inv.TaxAmount)
	f.SetCellStyle(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), moneyStyle)
	row++
	set(fmt.Sprintf("D%d", row), "TOTAL")
	set(fmt.Sprintf("E%d", row), inv.TotalAmount)
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 2,
	})
	if err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), boldStyle)
	f.SetCellStyle(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), totalStyle)

	row += 2
	set(fmt.Sprintf("A%d", row), "Thank You For Your Business!")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 35)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
