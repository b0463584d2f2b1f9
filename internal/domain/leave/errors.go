package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrLeaveTypeNotFound           = errors.New("leave type not found")
	ErrLeaveTypeCodeExists         = errors.New("leave type code already exists")
	ErrLeaveTypeInactive           = errors.New("leave type is disabled")
	ErrLeavePlanNotFound           = errors.New("leave plan not found")
	ErrLeavePlanInactive           = errors.New("leave plan is inactive")
	ErrLeaveBalanceNotFound        = errors.New("leave balance not found")
	ErrLeaveApplicationNotFound    = errors.New("leave application not found")
	ErrApplicationAlreadyProcessed = errors.New("leave application already processed")
	ErrNotApplicationOwner         = errors.New("only the applicant or an admin can cancel this application")
	ErrInsufficientBalance         = errors.New("insufficient leave balance")
	ErrBalanceAlreadyExists        = errors.New("leave balance already initialized")
	ErrInvariantViolation          = errors.New("leave balance invariant violated")
)

// InsufficientBalanceError carries the computed shortfall back to the caller.
type InsufficientBalanceError struct {
	EmployeeID  string
	LeaveTypeID string
	LeaveYear   int
	Available   decimal.Decimal
	Requested   decimal.Decimal
	Shortfall   decimal.Decimal
}

func NewInsufficientBalanceError(b LeaveBalance, requested decimal.Decimal) *InsufficientBalanceError {
	available := b.AvailableDays()
	return &InsufficientBalanceError{
		EmployeeID:  b.EmployeeID,
		LeaveTypeID: b.LeaveTypeID,
		LeaveYear:   b.LeaveYear,
		Available:   available,
		Requested:   requested,
		Shortfall:   requested.Sub(available),
	}
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance: available %s, requested %s, shortfall %s",
		e.Available, e.Requested, e.Shortfall)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

type BalanceAlreadyExistsError struct {
	EmployeeID  string
	LeaveTypeID string
	LeaveYear   int
}

func (e *BalanceAlreadyExistsError) Error() string {
	return fmt.Sprintf("leave balance for employee %s, type %s, year %d already exists",
		e.EmployeeID, e.LeaveTypeID, e.LeaveYear)
}

func (e *BalanceAlreadyExistsError) Unwrap() error {
	return ErrBalanceAlreadyExists
}

// InvariantViolationError means a balance would have gone negative despite
// the prior check. It points at a concurrency bug and must be surfaced.
type InvariantViolationError struct {
	EmployeeID  string
	LeaveTypeID string
	LeaveYear   int
	Detail      string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("leave balance invariant violated for employee %s, type %s, year %d: %s",
		e.EmployeeID, e.LeaveTypeID, e.LeaveYear, e.Detail)
}

func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrBalanceAlreadyExists) ||
		errors.Is(err, ErrApplicationAlreadyProcessed) ||
		errors.Is(err, ErrLeaveTypeCodeExists) ||
		errors.Is(err, ErrLeaveTypeInactive) ||
		errors.Is(err, ErrLeavePlanInactive)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLeaveTypeNotFound) ||
		errors.Is(err, ErrLeavePlanNotFound) ||
		errors.Is(err, ErrLeaveBalanceNotFound) ||
		errors.Is(err, ErrLeaveApplicationNotFound)
}
