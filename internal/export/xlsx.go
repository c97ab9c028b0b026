// Package export renders order reports as Excel workbooks for the
// back office.
package export

import (
	"fmt"
	"strings"

	"cvs-storefront/internal/domain"
	"github.com/xuri/excelize/v2"
)

var orderHeaders = []string{
	"Order Number", "Date", "Status", "Customer", "Email", "Phone",
	"Pickup Store", "Store Address", "Payment", "Total", "Items", "Notes",
}

// OrdersWorkbook builds a single-sheet workbook, one row per order with
// the line items flattened into a readable cell.
func OrdersWorkbook(orders []domain.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Orders"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for col, name := range orderHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, header); err != nil {
			return nil, err
		}
	}

	for i, o := range orders {
		row := []interface{}{
			o.OrderNumber,
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.Status.String(),
			strings.TrimSpace(o.Contact.FirstName + " " + o.Contact.LastName),
			o.Contact.Email,
			o.Contact.Phone,
			o.Pickup.StoreName,
			o.Pickup.Address,
			o.PaymentMethod,
			formatCents(o.TotalCents),
			formatLines(o.Lines),
			o.Notes,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	// Widen the columns that hold free text.
	for _, c := range []struct {
		col   string
		width float64
	}{{"A", 20}, {"B", 18}, {"D", 18}, {"E", 24}, {"G", 18}, {"H", 32}, {"K", 44}, {"L", 24}} {
		if err := f.SetColWidth(sheet, c.col, c.col, c.width); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func formatLines(lines []domain.OrderLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s x%d @ %s", l.ProductName, l.Quantity, formatCents(l.UnitPriceCents)))
	}
	return strings.Join(parts, "; ")
}
