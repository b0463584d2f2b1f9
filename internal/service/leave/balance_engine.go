package leave

import (
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

const monthsPerLeaveYear = 12

var (
	two    = decimal.NewFromInt(2)
	twelve = decimal.NewFromInt(monthsPerLeaveYear)
)

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// roundToHalfDay rounds half-up to the nearest 0.5 day.
func roundToHalfDay(days decimal.Decimal) decimal.Decimal {
	return days.Mul(two).Round(0).Div(two)
}

func anchor(plan leave.LeavePlan, year int) time.Time {
	month, day := plan.LeaveYearStartMonth, plan.LeaveYearStartDay
	if month == 0 {
		month = leave.DefaultLeaveYearStartMonth
	}
	if day == 0 {
		day = leave.DefaultLeaveYearStartDay
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// LeaveYearWindow returns the first and last day of leave year N, which
// starts on the plan anchor in calendar year N.
func LeaveYearWindow(plan leave.LeavePlan, leaveYear int) (start, end time.Time) {
	start = anchor(plan, leaveYear)
	end = anchor(plan, leaveYear+1).AddDate(0, 0, -1)
	return start, end
}

// LeaveYearOf returns the leave year containing date.
func LeaveYearOf(plan leave.LeavePlan, date time.Time) int {
	date = dateOnly(date)
	year := date.Year()
	if date.Before(anchor(plan, year)) {
		return year - 1
	}
	return year
}

// wholeMonthsElapsed counts anchor-aligned months from start up to joining.
func wholeMonthsElapsed(start, joining time.Time) int {
	months := 0
	for months < monthsPerLeaveYear && !start.AddDate(0, months+1, 0).After(joining) {
		months++
	}
	return months
}

// ProratedAllocation returns the days granted for one allocation. Employees
// joining after the leave year start get the remaining months' share; the
// month they join in counts as a full month.
func ProratedAllocation(allocation leave.Allocation, plan leave.LeavePlan, joiningDate time.Time, leaveYear int) decimal.Decimal {
	if !allocation.ProrateOnJoining {
		return allocation.DaysAllocated
	}

	start, end := LeaveYearWindow(plan, leaveYear)
	joining := dateOnly(joiningDate)
	if !joining.After(start) || joining.After(end) {
		return allocation.DaysAllocated
	}

	remaining := monthsPerLeaveYear - wholeMonthsElapsed(start, joining)
	share := allocation.DaysAllocated.Mul(decimal.NewFromInt(int64(remaining))).Div(twelve)
	return roundToHalfDay(share)
}

// BuildInitialBalances returns one unsaved balance per plan allocation.
func BuildInitialBalances(employeeID string, plan leave.LeavePlan, joiningDate time.Time, leaveYear int) []leave.LeaveBalance {
	balances := make([]leave.LeaveBalance, 0, len(plan.Allocations))
	for _, allocation := range plan.Allocations {
		balances = append(balances, leave.LeaveBalance{
			EmployeeID:       employeeID,
			LeaveTypeID:      allocation.LeaveTypeID,
			LeaveYear:        leaveYear,
			AllocatedDays:    ProratedAllocation(allocation, plan, joiningDate, leaveYear),
			CarryForwardDays: decimal.Zero,
			UsedDays:         decimal.Zero,
		})
	}
	return balances
}

// CarryForwardAmount is the unused balance moved into the next year, capped
// by the leave type and never negative.
func CarryForwardAmount(previous leave.LeaveBalance, leaveType leave.LeaveType) decimal.Decimal {
	if !leaveType.CanCarryForward {
		return decimal.Zero
	}
	available := previous.AvailableDays()
	if !available.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(available, leaveType.CarryForwardCap())
}
