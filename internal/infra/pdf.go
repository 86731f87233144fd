package infra

// pdf.go — Closing-report PDF generation using go-pdf/fpdf.
// Renders an A7-size thermal-receipt-style reconciliation report with:
//   - Store name header
//   - Session id, opened/closed timestamps
//   - Sales totals (cash / non-cash) and payment method breakdown
//   - Deposits and withdrawals
//   - Expected vs declared balance and the signed difference
//
// The output file is saved to storagePath/closing_{sessionID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/pabloh4516/sellx-sub001/internal/dto"
)

// RenderClosingReportPDF writes the closing report to a PDF file and returns
// its absolute path. storagePath is created if needed.
func RenderClosingReportPDF(report *dto.ClosingReportResponse, storagePath, storeName string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("closing_%s.pdf", report.Session.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Cash Drawer Closing Report", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Session %s", report.Session.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Opened  %s", report.Session.OpenedAt), "", 1, "L", false, 0, "")
	if report.Session.ClosedAt != nil {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Closed  %s", *report.Session.ClosedAt), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	line := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(contentW*0.6, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 4, amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Sales", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	line("Total sales", report.TotalSales)
	line("Cash in drawer", report.CashSales)
	line("Non-cash", report.NonCashSales)
	for _, b := range report.Breakdown {
		line(fmt.Sprintf("  %s (x%d)", b.Method, b.Count), b.Amount)
	}
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Movements", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	line("Deposits", report.TotalDeposits)
	line("Withdrawals", report.TotalWithdrawals)
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Reconciliation", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	line("Opening balance", report.Session.OpeningBalance)
	if report.Session.ExpectedBalance != nil {
		line("Expected balance", *report.Session.ExpectedBalance)
	}
	if report.Session.ClosingBalance != nil {
		line("Declared balance", *report.Session.ClosingBalance)
	}
	if report.Session.Difference != nil {
		pdf.SetFont("Helvetica", "B", 8)
		line("Difference", *report.Session.Difference)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
