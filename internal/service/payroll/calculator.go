package payroll

import (
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the scale every stored amount is rounded to.
const moneyPlaces = 2

func sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// ComputeTotals derives gross, deductions and net from a structure.
func ComputeTotals(s payroll.SalaryStructure) payroll.SalaryTotals {
	gross := sum(s.Earnings()...)
	deductions := sum(s.Deductions()...)

	return payroll.SalaryTotals{
		GrossSalary:     gross,
		TotalDeductions: deductions,
		NetSalary:       gross.Sub(deductions),
	}
}

// ValidateStructure rejects negative components. A negative net salary is
// only a warning; the caller decides whether to persist it.
func ValidateStructure(s payroll.SalaryStructure) (payroll.SalaryTotals, []string, error) {
	if errs := s.Validate(); len(errs) > 0 {
		return payroll.SalaryTotals{}, nil, errs
	}

	totals := ComputeTotals(s)

	var warnings []string
	if totals.NetSalary.IsNegative() {
		warnings = append(warnings, payroll.WarningNegativeNetSalary)
	}

	return totals, warnings, nil
}

// Calculator pro-rates a salary structure by attendance.
type Calculator struct {
	// ClampAttendance caps days worked at the period's working days.
	ClampAttendance bool
}

func NewCalculator(clampAttendance bool) *Calculator {
	return &Calculator{ClampAttendance: clampAttendance}
}

// CalculateSlip returns an unsaved slip with every earning scaled by
// presentDays/workingDays. Gross is summed from the unrounded earnings.
// Deductions are carried at their full amount.
func (c *Calculator) CalculateSlip(s payroll.SalaryStructure, summary payroll.AttendanceSummary) (payroll.PayrollSlip, error) {
	if summary.WorkingDays <= 0 {
		return payroll.PayrollSlip{}, &payroll.InvalidPeriodError{
			Month:       summary.PeriodMonth,
			Year:        summary.PeriodYear,
			WorkingDays: summary.WorkingDays,
		}
	}

	var warnings []string
	daysWorked := summary.PresentDays
	if c.ClampAttendance && daysWorked > summary.WorkingDays {
		daysWorked = summary.WorkingDays
		warnings = append(warnings, payroll.WarningAttendanceClamped)
	}

	present := decimal.NewFromInt(int64(daysWorked))
	working := decimal.NewFromInt(int64(summary.WorkingDays))
	// Multiply before dividing so full attendance returns the component unchanged.
	prorate := func(component decimal.Decimal) decimal.Decimal {
		return component.Mul(present).Div(working)
	}

	basic := prorate(s.Basic)
	hra := prorate(s.HRA)
	conveyance := prorate(s.Conveyance)
	special := prorate(s.SpecialAllowance)
	gross := roundMoney(sum(basic, hra, conveyance, special))
	deductions := roundMoney(sum(s.Deductions()...))
	// Net is derived from the stored figures so net = gross - deductions holds exactly.
	net := gross.Sub(deductions)

	if net.IsNegative() {
		warnings = append(warnings, payroll.WarningNegativeNetEarned)
	}

	return payroll.PayrollSlip{
		EmployeeID:             s.EmployeeID,
		Month:                  summary.PeriodMonth,
		Year:                   summary.PeriodYear,
		BasicEarned:            roundMoney(basic),
		HRAEarned:              roundMoney(hra),
		ConveyanceEarned:       roundMoney(conveyance),
		SpecialAllowanceEarned: roundMoney(special),
		GrossEarned:            gross,
		PF:                     roundMoney(s.PF),
		ESI:                    roundMoney(s.ESI),
		ProfessionalTax:        roundMoney(s.ProfessionalTax),
		OtherDeductions:        roundMoney(s.OtherDeductions),
		TotalDeductions:        deductions,
		NetEarned:              net,
		NegativeNet:            net.IsNegative(),
		DaysWorked:             daysWorked,
		DaysInMonth:            summary.WorkingDays,
		Status:                 payroll.SlipStatusGenerated,
		Warnings:               warnings,
	}, nil
}
