// Package export flattens the loan history into a spreadsheet report.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/duka/loanbook/internal/models"
	"github.com/duka/loanbook/internal/storage"
)

// FileName is the workbook written into the export directory. Any previous
// file at that path is overwritten.
const FileName = "loan_export_with_items.xlsx"

// Row is one flattened line of the report: loan, client, payment and item
// columns side by side.
type Row struct {
	LoanID          string
	ClientName      string
	PhoneNumber     string
	BusinessName    string
	TotalAmount     float64
	RemainingAmount float64
	PaymentAmount   float64
	PaymentMethod   string
	PaymentDate     time.Time
	ProcessedBy     string
	ItemName        string
	ItemQuantity    int
	ItemPrice       float64
}

// headers is the first row of the workbook, in column order.
var headers = []string{
	"Loan ID",
	"Client Name",
	"Phone Number",
	"Business Name",
	"Total Loan Amount",
	"Remaining Loan Amount",
	"Payment Amount",
	"Payment Method",
	"Payment Date",
	"Processed By",
	"Item Name",
	"Item Quantity",
	"Item Price",
}

// Exporter writes the loan history report.
type Exporter struct {
	store storage.Store
}

// New creates an Exporter over the given store.
func New(store storage.Store) *Exporter {
	return &Exporter{store: store}
}

// Run queries every loan and writes the report workbook into dir, creating
// the directory if needed. It returns the path of the written file.
func (e *Exporter) Run(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	loans, err := e.store.ListLoans(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to query loans: %w", err)
	}

	rows := BuildRows(loans)
	path := filepath.Join(dir, FileName)
	if err := writeWorkbook(path, rows); err != nil {
		return "", err
	}

	slog.Info("Export written", "path", path, "loans", len(loans), "rows", len(rows))
	return path, nil
}

// BuildRows flattens loans into report rows: one row per (payment, item)
// pair of each loan. The report has always had this shape, so a loan with
// 2 payments and 3 items produces 6 rows, and loans with no payments or no
// items produce none.
func BuildRows(loans []*models.Loan) []Row {
	var rows []Row
	for _, loan := range loans {
		for _, payment := range loan.Payments {
			for _, item := range loan.Items {
				rows = append(rows, Row{
					LoanID:          loan.ID,
					ClientName:      loan.Client.Name,
					PhoneNumber:     loan.Client.PhoneNumber,
					BusinessName:    loan.Client.BusinessName,
					TotalAmount:     loan.TotalAmount,
					RemainingAmount: loan.RemainingAmount,
					PaymentAmount:   payment.Amount,
					PaymentMethod:   payment.Method,
					PaymentDate:     time.Unix(payment.Date, 0),
					ProcessedBy:     payment.RecordedBy,
					ItemName:        item.Name,
					ItemQuantity:    item.Quantity,
					ItemPrice:       item.Price,
				})
			}
		}
	}
	return rows
}

// writeWorkbook writes the rows (with a header line) to a single-sheet
// .xlsx file at path, replacing any existing file.
func writeWorkbook(path string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		values := []interface{}{
			row.LoanID,
			row.ClientName,
			row.PhoneNumber,
			row.BusinessName,
			row.TotalAmount,
			row.RemainingAmount,
			row.PaymentAmount,
			row.PaymentMethod,
			row.PaymentDate.Format("2006-01-02 15:04:05"),
			row.ProcessedBy,
			row.ItemName,
			row.ItemQuantity,
			row.ItemPrice,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
