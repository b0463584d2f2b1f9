package report

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const payrollSheet = "Payroll"

var payrollSummaryHeader = []interface{}{
	"Employee ID", "Employee Code", "Employee Name", "Days Worked", "Days In Month",
	"Basic", "HRA", "Conveyance", "Special Allowance", "Gross",
	"Total Deductions", "Net", "Negative Net",
}

func writePayrollSummaryWorkbook(summary report.PayrollSummaryReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), payrollSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(payrollSheet, "A1", &payrollSummaryHeader); err != nil {
		return err
	}

	for i, row := range summary.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.EmployeeID, row.EmployeeCode, row.EmployeeName, row.DaysWorked, row.DaysInMonth,
			money(row.BasicEarned), money(row.HRAEarned), money(row.ConveyanceEarned),
			money(row.SpecialAllowanceEarned), money(row.GrossEarned),
			money(row.TotalDeductions), money(row.NetEarned), row.NegativeNet,
		}
		if err := f.SetSheetRow(payrollSheet, cell, &values); err != nil {
			return err
		}
	}

	totalRow := len(summary.Rows) + 2
	totals := map[string]decimal.Decimal{
		"J": summary.TotalGrossPayout,
		"K": summary.TotalDeductions,
		"L": summary.TotalNetPayout,
	}
	if err := f.SetCellValue(payrollSheet, fmt.Sprintf("A%d", totalRow), "Total"); err != nil {
		return err
	}
	for col, value := range totals {
		if err := f.SetCellValue(payrollSheet, fmt.Sprintf("%s%d", col, totalRow), money(value)); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(payrollSheet, "F2", fmt.Sprintf("L%d", totalRow), style); err != nil {
		return err
	}

	return f.Write(w)
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
