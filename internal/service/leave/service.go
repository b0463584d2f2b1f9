package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	transactor database.Transactor
	leave.LeaveTypeRepository
	leave.LeavePlanRepository
	leave.LeaveBalanceRepository
	leave.LeaveApplicationRepository
	employee.EmployeeRepository
	now func() time.Time
}

func NewLeaveService(
	transactor database.Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	leavePlanRepository leave.LeavePlanRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveApplicationRepository leave.LeaveApplicationRepository,
	employeeRepository employee.EmployeeRepository,
) leave.LeaveService {
	return &LeaveServiceImpl{
		transactor:                 transactor,
		LeaveTypeRepository:        leaveTypeRepository,
		LeavePlanRepository:        leavePlanRepository,
		LeaveBalanceRepository:     leaveBalanceRepository,
		LeaveApplicationRepository: leaveApplicationRepository,
		EmployeeRepository:         employeeRepository,
		now:                        time.Now,
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// InitializeBalances creates the leave year's balances from the employee's
// plan. Existing balances are only recomputed when Force is set, and then
// only their allocation changes.
func (l *LeaveServiceImpl) InitializeBalances(ctx context.Context, req leave.InitializeBalancesRequest) ([]leave.LeaveBalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	planID := req.LeavePlanID
	if planID == "" {
		if emp.LeavePlanID == nil {
			return nil, employee.ErrLeavePlanNotAssigned
		}
		planID = *emp.LeavePlanID
	}

	plan, err := l.LeavePlanRepository.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave plan: %w", err)
	}
	if !plan.IsActive {
		return nil, leave.ErrLeavePlanInactive
	}

	built := BuildInitialBalances(emp.ID, plan, emp.JoiningDate(), req.LeaveYear)

	var saved []leave.LeaveBalance
	err = l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		saved = saved[:0]
		for _, b := range built {
			existing, err := l.LeaveBalanceRepository.GetForUpdate(ctx, b.EmployeeID, b.LeaveTypeID, b.LeaveYear)
			switch {
			case err == nil:
				if !req.Force {
					return &leave.BalanceAlreadyExistsError{EmployeeID: b.EmployeeID, LeaveTypeID: b.LeaveTypeID, LeaveYear: b.LeaveYear}
				}
				existing.AllocatedDays = b.AllocatedDays
				if existing.AvailableDays().IsNegative() {
					return validator.ValidationErrors{{
						Field:   "force",
						Message: fmt.Sprintf("reallocating leave type %s would leave a negative balance", b.LeaveTypeID),
					}}
				}
				updated, err := l.LeaveBalanceRepository.UpdateAllocation(ctx, existing.ID, b.AllocatedDays)
				if err != nil {
					return fmt.Errorf("failed to update leave balance: %w", err)
				}
				saved = append(saved, updated)

			case errors.Is(err, leave.ErrLeaveBalanceNotFound):
				if b.ID, err = newID(); err != nil {
					return err
				}
				created, err := l.LeaveBalanceRepository.Create(ctx, b)
				if err != nil {
					if errors.Is(err, leave.ErrBalanceAlreadyExists) {
						return &leave.BalanceAlreadyExistsError{EmployeeID: b.EmployeeID, LeaveTypeID: b.LeaveTypeID, LeaveYear: b.LeaveYear}
					}
					return fmt.Errorf("failed to create leave balance: %w", err)
				}
				saved = append(saved, created)

			default:
				return fmt.Errorf("failed to get leave balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Initialized leave balances",
		"employee_id", emp.ID,
		"leave_plan_id", plan.ID,
		"leave_year", req.LeaveYear,
		"balances", len(saved),
		"force", req.Force,
	)

	return toBalanceResponses(saved), nil
}

func (l *LeaveServiceImpl) GetBalance(ctx context.Context, actor user.Actor, employeeID string, leaveYear int) ([]leave.LeaveBalanceResponse, error) {
	if !actor.Owns(employeeID) && !user.HasPermission(actor.Role, user.PermissionLeaveViewAll) {
		return nil, user.ErrInsufficientPermissions
	}
	if !validator.IsValidYear(leaveYear) {
		return nil, validator.ValidationErrors{{Field: "year", Message: "must be a 4-digit year"}}
	}

	balances, err := l.LeaveBalanceRepository.GetByEmployeeYear(ctx, employeeID, leaveYear)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave balances: %w", err)
	}
	return toBalanceResponses(balances), nil
}

// CarryForward sets each carry-forward balance of LeaveYear from the unused
// days of LeaveYear-1. Running it twice yields the same result.
func (l *LeaveServiceImpl) CarryForward(ctx context.Context, req leave.CarryForwardRequest) ([]leave.LeaveBalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	previous, err := l.LeaveBalanceRepository.GetByEmployeeYear(ctx, req.EmployeeID, req.LeaveYear-1)
	if err != nil {
		return nil, fmt.Errorf("failed to get previous leave balances: %w", err)
	}
	if len(previous) == 0 {
		return []leave.LeaveBalanceResponse{}, nil
	}

	typeIDs := make([]string, 0, len(previous))
	for _, b := range previous {
		typeIDs = append(typeIDs, b.LeaveTypeID)
	}
	types, err := l.LeaveTypeRepository.GetByIDs(ctx, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave types: %w", err)
	}

	var updated []leave.LeaveBalance
	err = l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		updated = updated[:0]
		for _, prev := range previous {
			leaveType, ok := types[prev.LeaveTypeID]
			if !ok || !leaveType.CanCarryForward {
				continue
			}
			amount := CarryForwardAmount(prev, leaveType)

			target, err := l.LeaveBalanceRepository.GetForUpdate(ctx, req.EmployeeID, prev.LeaveTypeID, req.LeaveYear)
			if err != nil {
				if errors.Is(err, leave.ErrLeaveBalanceNotFound) {
					return fmt.Errorf("leave year %d must be initialized before carry-forward: %w", req.LeaveYear, err)
				}
				return fmt.Errorf("failed to get leave balance: %w", err)
			}

			target.CarryForwardDays = amount
			if target.AvailableDays().IsNegative() {
				return validator.ValidationErrors{{
					Field:   "carry_forward_days",
					Message: fmt.Sprintf("carry-forward for leave type %s would leave a negative balance", prev.LeaveTypeID),
				}}
			}

			saved, err := l.LeaveBalanceRepository.UpdateCarryForward(ctx, target.ID, amount)
			if err != nil {
				return fmt.Errorf("failed to update carry-forward: %w", err)
			}
			updated = append(updated, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Carried forward leave balances",
		"employee_id", req.EmployeeID,
		"leave_year", req.LeaveYear,
		"balances", len(updated),
	)

	return toBalanceResponses(updated), nil
}

// RolloverLeaveYear makes sure every active plan's current leave year is
// open: employees without balances for it are initialized and get their
// unused days carried forward. Runs that missed the anchor day catch up on
// the next tick. On the anchor day itself carry-forward is also refreshed
// for balances that already exist.
func (l *LeaveServiceImpl) RolloverLeaveYear(ctx context.Context, today time.Time) (leave.RolloverResult, error) {
	var result leave.RolloverResult

	plans, err := l.LeavePlanRepository.ListActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list leave plans: %w", err)
	}

	for _, plan := range plans {
		if !plan.IsActive {
			continue
		}
		result.Plans++
		leaveYear := LeaveYearOf(plan, today)
		onAnchor := dateOnly(today).Equal(anchor(plan, leaveYear))

		employees, err := l.EmployeeRepository.GetActiveByLeavePlan(ctx, plan.ID)
		if err != nil {
			return result, fmt.Errorf("failed to get employees for leave plan %s: %w", plan.ID, err)
		}

		for _, emp := range employees {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			_, err := l.InitializeBalances(ctx, leave.InitializeBalancesRequest{
				EmployeeID:  emp.ID,
				LeavePlanID: plan.ID,
				LeaveYear:   leaveYear,
			})
			switch {
			case err == nil:
				result.Initialized++
			case errors.Is(err, leave.ErrBalanceAlreadyExists):
				result.Skipped++
				if !onAnchor {
					continue
				}
			default:
				result.Failed++
				slog.Error("Failed to initialize leave balances", "employee_id", emp.ID, "leave_year", leaveYear, "error", err)
				continue
			}

			if _, err := l.CarryForward(ctx, leave.CarryForwardRequest{EmployeeID: emp.ID, LeaveYear: leaveYear}); err != nil {
				result.Failed++
				slog.Error("Failed to carry forward leave balances", "employee_id", emp.ID, "leave_year", leaveYear, "error", err)
				continue
			}
			result.CarriedForward++
		}
	}

	return result, nil
}

// ========== MAPPERS ==========

func formatDate(t time.Time) string {
	return t.Format(validator.DateLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func toBalanceResponse(b leave.LeaveBalance) leave.LeaveBalanceResponse {
	return leave.LeaveBalanceResponse{
		ID:               b.ID,
		EmployeeID:       b.EmployeeID,
		LeaveTypeID:      b.LeaveTypeID,
		LeaveYear:        b.LeaveYear,
		AllocatedDays:    b.AllocatedDays,
		CarryForwardDays: b.CarryForwardDays,
		UsedDays:         b.UsedDays,
		AvailableDays:    b.AvailableDays(),
	}
}

func toBalanceResponses(balances []leave.LeaveBalance) []leave.LeaveBalanceResponse {
	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, toBalanceResponse(b))
	}
	return responses
}

func toApplicationResponse(a leave.LeaveApplication) leave.LeaveApplicationResponse {
	return leave.LeaveApplicationResponse{
		ID:              a.ID,
		EmployeeID:      a.EmployeeID,
		LeaveTypeID:     a.LeaveTypeID,
		LeaveYear:       a.LeaveYear,
		StartDate:       formatDate(a.StartDate),
		EndDate:         formatDate(a.EndDate),
		TotalDays:       a.TotalDays,
		Reason:          a.Reason,
		Status:          string(a.Status),
		AppliedAt:       a.AppliedAt.Format(time.RFC3339),
		AppliedBy:       a.AppliedBy,
		ApprovedBy:      a.ApprovedBy,
		ApprovedAt:      formatTimePtr(a.ApprovedAt),
		RejectedBy:      a.RejectedBy,
		RejectionReason: a.RejectionReason,
		CancelledBy:     a.CancelledBy,
		CancelledAt:     formatTimePtr(a.CancelledAt),
	}
}
