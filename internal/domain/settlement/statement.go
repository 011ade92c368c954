package settlement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// Statement renders the batch as a settlement statement PDF and returns the
// file path.
func (s *Service) Statement(ctx context.Context, batchID string) (string, error) {
	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return "", err
	}
	rows, err := s.store.Rows(ctx, batchID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.StatementDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.StatementDir, batchID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Settlement Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Event: %s", batch.EventID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", batch.From, batch.To))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", batch.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 8, "Staff", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Hours", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Total Pay", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Confirmed", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		confirmed := "no"
		if row.FinalConfirmed {
			confirmed = "yes"
		}
		pdf.CellFormat(70, 8, row.StaffName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.1f", row.TotalHours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", row.TotalPay), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, confirmed, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f across %d staff", batch.TotalPay, batch.TotalStaff))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
