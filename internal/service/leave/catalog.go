package leave

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
)

func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	id, err := newID()
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	isPaid := true
	if req.IsPaid != nil {
		isPaid = *req.IsPaid
	}
	requiresApproval := true
	if req.RequiresApproval != nil {
		requiresApproval = *req.RequiresApproval
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		ID:                  id,
		Code:                strings.TrimSpace(req.Code),
		Name:                strings.TrimSpace(req.Name),
		Description:         req.Description,
		IsPaid:              isPaid,
		RequiresApproval:    requiresApproval,
		CanCarryForward:     req.CanCarryForward,
		MaxCarryForwardDays: req.MaxCarryForwardDays,
		IsActive:            true,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	slog.Info("Created leave type", "leave_type_id", created.ID, "code", created.Code)
	return toLeaveTypeResponse(created), nil
}

func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context, includeInactive bool) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.List(ctx, !includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, toLeaveTypeResponse(t))
	}
	return responses, nil
}

// DisableLeaveType soft-disables a type; plans and balances keep referencing it.
func (l *LeaveServiceImpl) DisableLeaveType(ctx context.Context, id string) error {
	if _, err := l.LeaveTypeRepository.GetByID(ctx, id); err != nil {
		return err
	}
	if err := l.LeaveTypeRepository.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to disable leave type: %w", err)
	}

	slog.Info("Disabled leave type", "leave_type_id", id)
	return nil
}

func (l *LeaveServiceImpl) CreatePlan(ctx context.Context, req leave.CreateLeavePlanRequest) (leave.LeavePlanResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeavePlanResponse{}, err
	}

	typeIDs := make([]string, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		typeIDs = append(typeIDs, a.LeaveTypeID)
	}
	types, err := l.LeaveTypeRepository.GetByIDs(ctx, typeIDs)
	if err != nil {
		return leave.LeavePlanResponse{}, fmt.Errorf("failed to get leave types: %w", err)
	}

	var errs validator.ValidationErrors
	allocations := make([]leave.Allocation, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		if _, ok := types[a.LeaveTypeID]; !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "allocations.leave_type_id",
				Message: fmt.Sprintf("leave type %s does not exist", a.LeaveTypeID),
			})
			continue
		}
		allocations = append(allocations, leave.Allocation{
			LeaveTypeID:      a.LeaveTypeID,
			DaysAllocated:    a.DaysAllocated,
			ProrateOnJoining: a.ProrateOnJoining,
		})
	}
	if len(errs) > 0 {
		return leave.LeavePlanResponse{}, errs
	}

	id, err := newID()
	if err != nil {
		return leave.LeavePlanResponse{}, err
	}

	month, day := req.Anchor()
	created, err := l.LeavePlanRepository.Create(ctx, leave.LeavePlan{
		ID:                  id,
		Name:                strings.TrimSpace(req.Name),
		LeaveYearStartMonth: month,
		LeaveYearStartDay:   day,
		Description:         req.Description,
		IsActive:            true,
		Allocations:         allocations,
	})
	if err != nil {
		return leave.LeavePlanResponse{}, fmt.Errorf("failed to create leave plan: %w", err)
	}

	slog.Info("Created leave plan", "leave_plan_id", created.ID, "allocations", len(created.Allocations))
	return toLeavePlanResponse(created), nil
}

func (l *LeaveServiceImpl) GetPlan(ctx context.Context, id string) (leave.LeavePlanResponse, error) {
	plan, err := l.LeavePlanRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeavePlanResponse{}, err
	}
	return toLeavePlanResponse(plan), nil
}

func (l *LeaveServiceImpl) AssignPlan(ctx context.Context, req leave.AssignPlanRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	plan, err := l.LeavePlanRepository.GetByID(ctx, req.LeavePlanID)
	if err != nil {
		return err
	}
	if !plan.IsActive {
		return leave.ErrLeavePlanInactive
	}

	if _, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return err
	}

	if err := l.EmployeeRepository.AssignLeavePlan(ctx, req.EmployeeID, plan.ID); err != nil {
		return fmt.Errorf("failed to assign leave plan: %w", err)
	}

	slog.Info("Assigned leave plan", "employee_id", req.EmployeeID, "leave_plan_id", plan.ID)
	return nil
}

func toLeaveTypeResponse(t leave.LeaveType) leave.LeaveTypeResponse {
	return leave.LeaveTypeResponse{
		ID:                  t.ID,
		Code:                t.Code,
		Name:                t.Name,
		Description:         t.Description,
		IsPaid:              t.IsPaid,
		RequiresApproval:    t.RequiresApproval,
		CanCarryForward:     t.CanCarryForward,
		MaxCarryForwardDays: t.MaxCarryForwardDays,
		IsActive:            t.IsActive,
	}
}

func toLeavePlanResponse(p leave.LeavePlan) leave.LeavePlanResponse {
	allocations := make([]leave.AllocationResponse, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		allocations = append(allocations, leave.AllocationResponse{
			LeaveTypeID:      a.LeaveTypeID,
			DaysAllocated:    a.DaysAllocated,
			ProrateOnJoining: a.ProrateOnJoining,
		})
	}
	return leave.LeavePlanResponse{
		ID:                  p.ID,
		Name:                p.Name,
		LeaveYearStartMonth: p.LeaveYearStartMonth,
		LeaveYearStartDay:   p.LeaveYearStartDay,
		Description:         p.Description,
		IsActive:            p.IsActive,
		Allocations:         allocations,
	}
}
