package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
)

const (
	WorkingDaysPolicyFixed    = "fixed"
	WorkingDaysPolicyCalendar = "calendar"

	DefaultFixedWorkingDays = 30
)

// WorkingDaysPolicy returns the payable days for a period.
type WorkingDaysPolicy interface {
	WorkingDays(month, year int) int
}

// FixedWorkingDays pays every month over the same number of days.
type FixedWorkingDays struct {
	Days int
}

func (p FixedWorkingDays) WorkingDays(_, _ int) int {
	return p.Days
}

// CalendarWorkingDays pays over the number of days in the calendar month.
type CalendarWorkingDays struct{}

func (CalendarWorkingDays) WorkingDays(month, year int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func NewWorkingDaysPolicy(name string, fixedDays int) (WorkingDaysPolicy, error) {
	switch name {
	case "", WorkingDaysPolicyFixed:
		if fixedDays <= 0 {
			fixedDays = DefaultFixedWorkingDays
		}
		return FixedWorkingDays{Days: fixedDays}, nil
	case WorkingDaysPolicyCalendar:
		return CalendarWorkingDays{}, nil
	default:
		return nil, fmt.Errorf("unknown working days policy %q", name)
	}
}

// AttendanceAggregator turns raw present-day counts into attendance summaries.
type AttendanceAggregator struct {
	repo   payroll.AttendanceRepository
	policy WorkingDaysPolicy
}

func NewAttendanceAggregator(repo payroll.AttendanceRepository, policy WorkingDaysPolicy) *AttendanceAggregator {
	return &AttendanceAggregator{repo: repo, policy: policy}
}

func (a *AttendanceAggregator) CountPresentDays(ctx context.Context, employeeIDs []string, month, year int) (map[string]int, error) {
	if len(employeeIDs) == 0 {
		return map[string]int{}, nil
	}
	counts, err := a.repo.CountPresentDays(ctx, employeeIDs, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to count present days: %w", err)
	}
	return counts, nil
}

// Summaries returns one summary per requested employee; missing counts are 0.
func (a *AttendanceAggregator) Summaries(ctx context.Context, employeeIDs []string, month, year int) (map[string]payroll.AttendanceSummary, error) {
	counts, err := a.CountPresentDays(ctx, employeeIDs, month, year)
	if err != nil {
		return nil, err
	}

	workingDays := a.policy.WorkingDays(month, year)
	summaries := make(map[string]payroll.AttendanceSummary, len(employeeIDs))
	for _, id := range employeeIDs {
		summaries[id] = payroll.AttendanceSummary{
			EmployeeID:  id,
			PeriodMonth: month,
			PeriodYear:  year,
			PresentDays: counts[id],
			WorkingDays: workingDays,
		}
	}
	return summaries, nil
}

func (a *AttendanceAggregator) Summary(ctx context.Context, employeeID string, month, year int) (payroll.AttendanceSummary, error) {
	summaries, err := a.Summaries(ctx, []string{employeeID}, month, year)
	if err != nil {
		return payroll.AttendanceSummary{}, err
	}
	return summaries[employeeID], nil
}
