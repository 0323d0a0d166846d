package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	salesSheet    = "Sales"
	customerSheet = "Customers"
)

var salesHeaders = []string{
	"Date", "Order ID", "Customer", "Company", "Sales", "Qty sold", "Qty gift",
	"Ice cream revenue", "Topping revenue", "Total revenue", "Shipping", "Total payment", "Deposit", "Invoice",
}

var customerHeaders = []string{
	"Name", "Company", "Position", "Phone", "Email", "Address", "City",
	"Representative", "Owner", "First purchase", "Last purchase", "Orders", "Note",
}

// SalesLogWorkbook renders sales log rows into a single sheet workbook.
func SalesLogWorkbook(rows []SalesLogRow) (*excelize.File, error) {
	f, err := newWorkbook(salesSheet, salesHeaders)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		values := []interface{}{
			r.Date, r.ID, r.CustomerName, r.CompanyName, r.CreatedByName, r.QtySold, r.QtyGift,
			r.RevenueIceCream, r.RevenueTopping, r.TotalRevenue, r.ShippingCost, r.TotalPayment, r.Deposit, yesNo(r.HasInvoice),
		}
		if err := writeRow(f, salesSheet, i+2, values); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// CustomerListWorkbook renders customer rows into a single sheet workbook.
func CustomerListWorkbook(rows []CustomerRow) (*excelize.File, error) {
	f, err := newWorkbook(customerSheet, customerHeaders)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		values := []interface{}{
			r.Name, r.Company, r.Position, r.Phone, r.Email, r.Address, r.City(),
			r.RepName, r.CreatedByName, r.FirstPurchase, r.LastPurchase, r.OrderCount, r.Note,
		}
		if err := writeRow(f, customerSheet, i+2, values); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func newWorkbook(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1e3a8a"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		f.Close()
		return nil, err
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		f.Close()
		return nil, fmt.Errorf("apply header style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		f.Close()
		return nil, fmt.Errorf("column width: %w", err)
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
