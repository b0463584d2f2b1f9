package leave

import (
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== LEAVE TYPE DTOs ==========

type CreateLeaveTypeRequest struct {
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	Description         *string         `json:"description,omitempty"`
	IsPaid              *bool           `json:"is_paid,omitempty"`
	RequiresApproval    *bool           `json:"requires_approval,omitempty"`
	CanCarryForward     bool            `json:"can_carry_forward"`
	MaxCarryForwardDays decimal.Decimal `json:"max_carry_forward_days"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	}
	if len(r.Code) > 50 {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code must not exceed 50 characters"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}
	if validator.IsNegative(r.MaxCarryForwardDays) {
		errs = append(errs, validator.ValidationError{Field: "max_carry_forward_days", Message: "must be non-negative"})
	}

	return errs.OrNil()
}

type LeaveTypeResponse struct {
	ID                  string          `json:"id"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	Description         *string         `json:"description,omitempty"`
	IsPaid              bool            `json:"is_paid"`
	RequiresApproval    bool            `json:"requires_approval"`
	CanCarryForward     bool            `json:"can_carry_forward"`
	MaxCarryForwardDays decimal.Decimal `json:"max_carry_forward_days"`
	IsActive            bool            `json:"is_active"`
}

// ========== LEAVE PLAN DTOs ==========

type AllocationRequest struct {
	LeaveTypeID      string          `json:"leave_type_id"`
	DaysAllocated    decimal.Decimal `json:"days_allocated"`
	ProrateOnJoining bool            `json:"prorate_on_joining"`
}

type CreateLeavePlanRequest struct {
	Name                string              `json:"name"`
	LeaveYearStartMonth *int                `json:"leave_year_start_month,omitempty"`
	LeaveYearStartDay   *int                `json:"leave_year_start_day,omitempty"`
	Description         *string             `json:"description,omitempty"`
	Allocations         []AllocationRequest `json:"allocations"`
}

func (r *CreateLeavePlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if r.LeaveYearStartMonth != nil && !validator.IsValidMonth(*r.LeaveYearStartMonth) {
		errs = append(errs, validator.ValidationError{Field: "leave_year_start_month", Message: "must be between 1 and 12"})
	}
	if r.LeaveYearStartDay != nil && (*r.LeaveYearStartDay < 1 || *r.LeaveYearStartDay > MaxLeaveYearStartDay) {
		errs = append(errs, validator.ValidationError{Field: "leave_year_start_day", Message: "must be between 1 and 28"})
	}

	seen := make(map[string]bool, len(r.Allocations))
	for _, a := range r.Allocations {
		if validator.IsEmpty(a.LeaveTypeID) {
			errs = append(errs, validator.ValidationError{Field: "allocations.leave_type_id", Message: "leave_type_id is required"})
			continue
		}
		if seen[a.LeaveTypeID] {
			errs = append(errs, validator.ValidationError{Field: "allocations.leave_type_id", Message: "duplicate allocation for leave type " + a.LeaveTypeID})
		}
		seen[a.LeaveTypeID] = true
		if validator.IsNegative(a.DaysAllocated) {
			errs = append(errs, validator.ValidationError{Field: "allocations.days_allocated", Message: "must be non-negative"})
		}
	}

	return errs.OrNil()
}

// Anchor returns the leave year start, defaulting to January 1.
func (r *CreateLeavePlanRequest) Anchor() (month, day int) {
	month, day = DefaultLeaveYearStartMonth, DefaultLeaveYearStartDay
	if r.LeaveYearStartMonth != nil {
		month = *r.LeaveYearStartMonth
	}
	if r.LeaveYearStartDay != nil {
		day = *r.LeaveYearStartDay
	}
	return month, day
}

type AllocationResponse struct {
	LeaveTypeID      string          `json:"leave_type_id"`
	DaysAllocated    decimal.Decimal `json:"days_allocated"`
	ProrateOnJoining bool            `json:"prorate_on_joining"`
}

type LeavePlanResponse struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	LeaveYearStartMonth int                  `json:"leave_year_start_month"`
	LeaveYearStartDay   int                  `json:"leave_year_start_day"`
	Description         *string              `json:"description,omitempty"`
	IsActive            bool                 `json:"is_active"`
	Allocations         []AllocationResponse `json:"allocations"`
}

type AssignPlanRequest struct {
	EmployeeID  string `json:"employee_id"`
	LeavePlanID string `json:"leave_plan_id"`
}

func (r *AssignPlanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(r.LeavePlanID) {
		errs = append(errs, validator.ValidationError{Field: "leave_plan_id", Message: "leave_plan_id is required"})
	}

	return errs.OrNil()
}

// ========== LEAVE BALANCE DTOs ==========

type InitializeBalancesRequest struct {
	EmployeeID string `json:"employee_id"`
	// LeavePlanID defaults to the plan assigned to the employee.
	LeavePlanID string `json:"leave_plan_id,omitempty"`
	LeaveYear   int    `json:"leave_year"`
	Force       bool   `json:"force"`
}

func (r *InitializeBalancesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsValidYear(r.LeaveYear) {
		errs = append(errs, validator.ValidationError{Field: "leave_year", Message: "must be a 4-digit year"})
	}

	return errs.OrNil()
}

type LeaveBalanceResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	LeaveTypeID      string          `json:"leave_type_id"`
	LeaveYear        int             `json:"leave_year"`
	AllocatedDays    decimal.Decimal `json:"allocated_days"`
	CarryForwardDays decimal.Decimal `json:"carry_forward_days"`
	UsedDays         decimal.Decimal `json:"used_days"`
	AvailableDays    decimal.Decimal `json:"available_days"`
}

type CarryForwardRequest struct {
	EmployeeID string `json:"employee_id"`
	// LeaveYear is the receiving year; the source is LeaveYear-1.
	LeaveYear int `json:"leave_year"`
}

func (r *CarryForwardRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsValidYear(r.LeaveYear) || !validator.IsValidYear(r.LeaveYear-1) {
		errs = append(errs, validator.ValidationError{Field: "leave_year", Message: "must be a 4-digit year"})
	}

	return errs.OrNil()
}

// ========== LEAVE APPLICATION DTOs ==========

type ApplyLeaveRequest struct {
	// EmployeeID defaults to the caller.
	EmployeeID  string          `json:"employee_id,omitempty"`
	LeaveTypeID string          `json:"leave_type_id"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalDays   decimal.Decimal `json:"total_days"`
	Reason      string          `json:"reason"`

	startDate time.Time
	endDate   time.Time
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{Field: "leave_type_id", Message: "leave_type_id is required"})
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
	}
	if !r.TotalDays.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "total_days", Message: "total_days must be greater than 0"})
	}

	if len(errs) > 0 {
		return errs
	}

	r.startDate, r.endDate = start, end
	return nil
}

// Dates returns the parsed period; valid only after Validate succeeds.
func (r *ApplyLeaveRequest) Dates() (start, end time.Time) {
	return r.startDate, r.endDate
}

type RejectLeaveRequest struct {
	ApplicationID string `json:"-"`
	Reason        string `json:"reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ApplicationID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "application id is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "rejection reason is required"})
	}

	return errs.OrNil()
}

type LeaveApplicationResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	LeaveTypeID     string          `json:"leave_type_id"`
	LeaveYear       int             `json:"leave_year"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	TotalDays       decimal.Decimal `json:"total_days"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	AppliedAt       string          `json:"applied_at"`
	AppliedBy       string          `json:"applied_by"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	RejectedBy      *string         `json:"rejected_by,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CancelledBy     *string         `json:"cancelled_by,omitempty"`
	CancelledAt     *string         `json:"cancelled_at,omitempty"`
}

type ApproveLeaveResponse struct {
	Application    LeaveApplicationResponse `json:"application"`
	UpdatedBalance LeaveBalanceResponse     `json:"updated_balance"`
}

type CancelLeaveResponse struct {
	Application LeaveApplicationResponse `json:"application"`
	// UpdatedBalance is set only when an approved leave was re-credited.
	UpdatedBalance *LeaveBalanceResponse `json:"updated_balance,omitempty"`
}

// ========== ROLLOVER DTOs ==========

type RolloverResult struct {
	Plans          int `json:"plans"`
	Initialized    int `json:"initialized"`
	CarriedForward int `json:"carried_forward"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
}
