package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-core-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	// Payroll Summary Report
	GetPayrollSummaryReport(w http.ResponseWriter, r *http.Request)

	// Leave Balance Report
	GetLeaveBalanceReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetPayrollSummaryReport handles GET /reports/payroll. format=xlsx returns
// a workbook instead of JSON.
func (h *reportHandlerImpl) GetPayrollSummaryReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.PayrollSummaryReportRequest{
		Month: month,
		Year:  year,
	}

	if r.URL.Query().Get("format") == "xlsx" {
		// Buffered so a failure can still produce a JSON error.
		var buf bytes.Buffer
		if err := h.reportService.ExportPayrollSummaryReport(ctx, req, &buf); err != nil {
			response.HandleError(w, err)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%04d-%02d.xlsx"`, year, month))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
		return
	}

	result, err := h.reportService.GeneratePayrollSummaryReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetLeaveBalanceReport handles GET /reports/leave-balances
func (h *reportHandlerImpl) GetLeaveBalanceReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	result, err := h.reportService.GenerateLeaveBalanceReport(r.Context(), report.LeaveBalanceReportRequest{LeaveYear: year})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
