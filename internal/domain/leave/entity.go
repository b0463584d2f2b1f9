package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultLeaveYearStartMonth = 1
	DefaultLeaveYearStartDay   = 1
	// MaxLeaveYearStartDay keeps the anchor valid in every month.
	MaxLeaveYearStartDay = 28
)

// LeaveType entity
type LeaveType struct {
	ID          string
	Code        string
	Name        string
	Description *string

	IsPaid           bool
	RequiresApproval bool

	// Carry-forward rules
	CanCarryForward     bool
	MaxCarryForwardDays decimal.Decimal

	// Disabled types stay referenced by plans and balances
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CarryForwardCap is zero when carry-forward is off; the configured max is kept but ignored.
func (t LeaveType) CarryForwardCap() decimal.Decimal {
	if !t.CanCarryForward || t.MaxCarryForwardDays.IsNegative() {
		return decimal.Zero
	}
	return t.MaxCarryForwardDays
}

// LeavePlan entity
type LeavePlan struct {
	ID                  string
	Name                string
	LeaveYearStartMonth int
	LeaveYearStartDay   int
	Description         *string
	IsActive            bool
	Allocations         []Allocation

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allocation - days granted per leave type within a plan, at most one per type
type Allocation struct {
	LeaveTypeID      string
	DaysAllocated    decimal.Decimal
	ProrateOnJoining bool
}

// LeaveBalance entity, one per (employee, leave type, leave year)
type LeaveBalance struct {
	ID               string
	EmployeeID       string
	LeaveTypeID      string
	LeaveYear        int
	AllocatedDays    decimal.Decimal
	CarryForwardDays decimal.Decimal
	UsedDays         decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableDays is computed, never stored.
func (b LeaveBalance) AvailableDays() decimal.Decimal {
	return b.AllocatedDays.Add(b.CarryForwardDays).Sub(b.UsedDays)
}

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCancelled ApplicationStatus = "cancelled"
)

// CanTransitionTo enforces pending -> approved|rejected and pending|approved -> cancelled.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch next {
	case ApplicationStatusApproved, ApplicationStatusRejected:
		return s == ApplicationStatusPending
	case ApplicationStatusCancelled:
		return s == ApplicationStatusPending || s == ApplicationStatusApproved
	}
	return false
}

// LeaveApplication entity
type LeaveApplication struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	LeaveYear   int

	StartDate time.Time
	EndDate   time.Time
	TotalDays decimal.Decimal
	Reason    string

	Status     ApplicationStatus
	AppliedAt  time.Time
	AppliedBy  string
	ApprovedBy *string
	ApprovedAt *time.Time

	RejectedBy      *string
	RejectedAt      *time.Time
	RejectionReason *string

	CancelledBy *string
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
