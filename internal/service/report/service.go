package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/report"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	now        func() time.Time
}

func NewReportService(reportRepo report.ReportRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// GeneratePayrollSummaryReport totals the stored slips of a period.
func (s *ReportServiceImpl) GeneratePayrollSummaryReport(ctx context.Context, req report.PayrollSummaryReportRequest) (report.PayrollSummaryReport, error) {
	if err := req.Validate(); err != nil {
		return report.PayrollSummaryReport{}, err
	}

	rows, err := s.reportRepo.GetPayrollSummaryReport(ctx, req.Month, req.Year)
	if err != nil {
		return report.PayrollSummaryReport{}, fmt.Errorf("failed to get payroll data: %w", err)
	}
	if len(rows) == 0 {
		return report.PayrollSummaryReport{}, report.ErrNoDataFound
	}

	// Slip amounts are already rounded, so the totals need no further rounding.
	totalGross, totalDeductions, totalNet := decimal.Zero, decimal.Zero, decimal.Zero
	negative := 0
	for _, row := range rows {
		totalGross = totalGross.Add(row.GrossEarned)
		totalDeductions = totalDeductions.Add(row.TotalDeductions)
		totalNet = totalNet.Add(row.NetEarned)
		if row.NegativeNet {
			negative++
		}
	}

	return report.PayrollSummaryReport{
		PeriodMonth:      req.Month,
		PeriodYear:       req.Year,
		GeneratedAt:      s.now().Format(time.RFC3339),
		TotalGrossPayout: totalGross,
		TotalDeductions:  totalDeductions,
		TotalNetPayout:   totalNet,
		TotalEmployees:   len(rows),
		NegativeNetCount: negative,
		Rows:             rows,
	}, nil
}

// GenerateLeaveBalanceReport lists every active employee with their balances
// for the leave year.
func (s *ReportServiceImpl) GenerateLeaveBalanceReport(ctx context.Context, req report.LeaveBalanceReportRequest) (report.LeaveBalanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.LeaveBalanceReport{}, err
	}

	rows, err := s.reportRepo.GetLeaveBalanceReport(ctx, req.LeaveYear)
	if err != nil {
		return report.LeaveBalanceReport{}, fmt.Errorf("failed to get leave balance data: %w", err)
	}

	return report.LeaveBalanceReport{
		GeneratedAt: s.now().Format(time.RFC3339),
		LeaveYear:   req.LeaveYear,
		Rows:        rows,
	}, nil
}

func (s *ReportServiceImpl) ExportPayrollSummaryReport(ctx context.Context, req report.PayrollSummaryReportRequest, w io.Writer) error {
	summary, err := s.GeneratePayrollSummaryReport(ctx, req)
	if err != nil {
		return err
	}

	if err := writePayrollSummaryWorkbook(summary, w); err != nil {
		return fmt.Errorf("failed to write payroll workbook: %w", err)
	}

	slog.Info("Payroll summary exported", "month", req.Month, "year", req.Year, "rows", len(summary.Rows))
	return nil
}
