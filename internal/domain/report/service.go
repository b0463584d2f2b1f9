package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	GeneratePayrollSummaryReport(ctx context.Context, req PayrollSummaryReportRequest) (PayrollSummaryReport, error)
	GenerateLeaveBalanceReport(ctx context.Context, req LeaveBalanceReportRequest) (LeaveBalanceReport, error)

	// ExportPayrollSummaryReport writes the summary as an xlsx workbook.
	ExportPayrollSummaryReport(ctx context.Context, req PayrollSummaryReportRequest, w io.Writer) error
}
