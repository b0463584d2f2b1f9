package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
)

type LeaveService interface {
	// Type
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context, includeInactive bool) ([]LeaveTypeResponse, error)
	DisableLeaveType(ctx context.Context, id string) error
	// Plan
	CreatePlan(ctx context.Context, req CreateLeavePlanRequest) (LeavePlanResponse, error)
	GetPlan(ctx context.Context, id string) (LeavePlanResponse, error)
	AssignPlan(ctx context.Context, req AssignPlanRequest) error
	// Balance
	InitializeBalances(ctx context.Context, req InitializeBalancesRequest) ([]LeaveBalanceResponse, error)
	GetBalance(ctx context.Context, actor user.Actor, employeeID string, leaveYear int) ([]LeaveBalanceResponse, error)
	CarryForward(ctx context.Context, req CarryForwardRequest) ([]LeaveBalanceResponse, error)
	RolloverLeaveYear(ctx context.Context, today time.Time) (RolloverResult, error)
	// Application
	Apply(ctx context.Context, actor user.Actor, req ApplyLeaveRequest) (LeaveApplicationResponse, error)
	Approve(ctx context.Context, actor user.Actor, applicationID string) (ApproveLeaveResponse, error)
	Reject(ctx context.Context, actor user.Actor, req RejectLeaveRequest) (LeaveApplicationResponse, error)
	Cancel(ctx context.Context, actor user.Actor, applicationID string) (CancelLeaveResponse, error)
}
