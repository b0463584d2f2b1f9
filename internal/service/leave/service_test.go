package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hrAdmin  = user.Actor{UserID: "user-admin", EmployeeID: "emp-admin", Role: user.RoleAdmin}
	manager  = user.Actor{UserID: "user-mgr", EmployeeID: "emp-mgr", Role: user.RoleManager}
	staff    = user.Actor{UserID: "user-1", EmployeeID: "emp-1", Role: user.RoleEmployee}
	coworker = user.Actor{UserID: "user-2", EmployeeID: "emp-2", Role: user.RoleEmployee}
)

type leaveFixture struct {
	service      leave.LeaveService
	types        *memLeaveTypes
	plans        *memLeavePlans
	balances     *memLeaveBalances
	applications *memLeaveApplications
	employees    *memEmployees
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()
	planID := "plan-1"
	f := &leaveFixture{
		types: &memLeaveTypes{types: map[string]leave.LeaveType{
			"annual": {ID: "annual", Code: "AL", Name: "Annual", IsPaid: true, CanCarryForward: true, MaxCarryForwardDays: days("5"), IsActive: true},
			"sick":   {ID: "sick", Code: "SL", Name: "Sick", IsPaid: true, IsActive: true},
		}},
		plans: &memLeavePlans{plans: map[string]leave.LeavePlan{
			planID: calendarPlan(
				leave.Allocation{LeaveTypeID: "annual", DaysAllocated: days("12"), ProrateOnJoining: true},
				leave.Allocation{LeaveTypeID: "sick", DaysAllocated: days("10")},
			),
		}},
		balances:     &memLeaveBalances{balances: map[balanceKey]leave.LeaveBalance{}},
		applications: &memLeaveApplications{apps: map[string]leave.LeaveApplication{}},
		employees: &memEmployees{employees: map[string]employee.Employee{
			"emp-1": {ID: "emp-1", HireDate: date(2020, 3, 1), EmploymentStatus: employee.EmploymentStatusActive, LeavePlanID: &planID},
			"emp-2": {ID: "emp-2", HireDate: date(2025, 7, 1), EmploymentStatus: employee.EmploymentStatusActive, LeavePlanID: &planID},
		}},
	}
	f.service = NewLeaveService(passThroughTransactor{}, f.types, f.plans, f.balances, f.applications, f.employees)
	return f
}

func (f *leaveFixture) initialize(t *testing.T, employeeID string, year int) {
	t.Helper()
	_, err := f.service.InitializeBalances(context.Background(), leave.InitializeBalancesRequest{EmployeeID: employeeID, LeaveYear: year})
	require.NoError(t, err)
}

func (f *leaveFixture) apply(t *testing.T, actor user.Actor, total string) leave.LeaveApplicationResponse {
	t.Helper()
	app, err := f.service.Apply(context.Background(), actor, leave.ApplyLeaveRequest{
		LeaveTypeID: "annual",
		StartDate:   "2025-08-04",
		EndDate:     "2025-08-08",
		TotalDays:   days(total),
		Reason:      "family trip",
	})
	require.NoError(t, err)
	return app
}

func TestLeaveService_InitializeBalances(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()

	balances, err := f.service.InitializeBalances(ctx, leave.InitializeBalancesRequest{EmployeeID: "emp-2", LeaveYear: 2025})
	require.NoError(t, err)
	require.Len(t, balances, 2)

	annual := f.balances.get("emp-2", "annual", 2025)
	assert.True(t, days("6").Equal(annual.AllocatedDays), "prorated allocation: %s", annual.AllocatedDays)
	assert.NotEmpty(t, annual.ID)
	sick := f.balances.get("emp-2", "sick", 2025)
	assert.True(t, days("10").Equal(sick.AllocatedDays))

	t.Run("second initialization is rejected", func(t *testing.T) {
		_, err := f.service.InitializeBalances(ctx, leave.InitializeBalancesRequest{EmployeeID: "emp-2", LeaveYear: 2025})

		var exists *leave.BalanceAlreadyExistsError
		require.True(t, errors.As(err, &exists))
		assert.Equal(t, "emp-2", exists.EmployeeID)
		assert.Equal(t, 2025, exists.LeaveYear)
		assert.ErrorIs(t, err, leave.ErrBalanceAlreadyExists)
	})

	t.Run("force keeps used and carry-forward days", func(t *testing.T) {
		b := f.balances.get("emp-2", "annual", 2025)
		b.UsedDays = days("2")
		b.CarryForwardDays = days("1")
		f.balances.balances[balanceKey{"emp-2", "annual", 2025}] = b

		plan := f.plans.plans["plan-1"]
		plan.Allocations[0].DaysAllocated = days("24")
		f.plans.plans["plan-1"] = plan

		_, err := f.service.InitializeBalances(ctx, leave.InitializeBalancesRequest{EmployeeID: "emp-2", LeaveYear: 2025, Force: true})
		require.NoError(t, err)

		got := f.balances.get("emp-2", "annual", 2025)
		assert.True(t, days("12").Equal(got.AllocatedDays), "allocated: %s", got.AllocatedDays)
		assert.True(t, days("2").Equal(got.UsedDays))
		assert.True(t, days("1").Equal(got.CarryForwardDays))
	})

	t.Run("force below used days is rejected", func(t *testing.T) {
		b := f.balances.get("emp-2", "annual", 2025)
		b.UsedDays = days("20")
		f.balances.balances[balanceKey{"emp-2", "annual", 2025}] = b

		_, err := f.service.InitializeBalances(ctx, leave.InitializeBalancesRequest{EmployeeID: "emp-2", LeaveYear: 2025, Force: true})

		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.True(t, verrs.Has("force"))
	})
}

func TestLeaveService_InitializeBalances_NoPlan(t *testing.T) {
	f := newLeaveFixture(t)
	f.employees.employees["emp-3"] = employee.Employee{ID: "emp-3", EmploymentStatus: employee.EmploymentStatusActive}

	_, err := f.service.InitializeBalances(context.Background(), leave.InitializeBalancesRequest{EmployeeID: "emp-3", LeaveYear: 2025})
	assert.ErrorIs(t, err, employee.ErrLeavePlanNotAssigned)
}

func TestLeaveService_Apply(t *testing.T) {
	f := newLeaveFixture(t)
	f.initialize(t, "emp-1", 2025)
	ctx := context.Background()

	app := f.apply(t, staff, "5")
	assert.Equal(t, string(leave.ApplicationStatusPending), app.Status)
	assert.Equal(t, 2025, app.LeaveYear)
	assert.Equal(t, "2025-08-04", app.StartDate)
	assert.True(t, f.balances.get("emp-1", "annual", 2025).UsedDays.IsZero(), "apply must not touch the balance")

	t.Run("insufficient balance", func(t *testing.T) {
		_, err := f.service.Apply(ctx, staff, leave.ApplyLeaveRequest{
			LeaveTypeID: "annual", StartDate: "2025-09-01", EndDate: "2025-09-30", TotalDays: days("13"),
		})

		var insufficient *leave.InsufficientBalanceError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, days("12").Equal(insufficient.Available))
		assert.True(t, days("13").Equal(insufficient.Requested))
		assert.True(t, days("1").Equal(insufficient.Shortfall))
	})

	t.Run("no balance for the year", func(t *testing.T) {
		_, err := f.service.Apply(ctx, staff, leave.ApplyLeaveRequest{
			LeaveTypeID: "annual", StartDate: "2026-02-02", EndDate: "2026-02-02", TotalDays: days("1"),
		})
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.service.Apply(ctx, staff, leave.ApplyLeaveRequest{
			LeaveTypeID: "annual", StartDate: "2025-09-02", EndDate: "2025-09-01", TotalDays: days("1"),
		})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.True(t, verrs.Has("end_date"))
	})

	t.Run("zero days", func(t *testing.T) {
		_, err := f.service.Apply(ctx, staff, leave.ApplyLeaveRequest{
			LeaveTypeID: "annual", StartDate: "2025-09-01", EndDate: "2025-09-01",
		})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.True(t, verrs.Has("total_days"))
	})

	t.Run("disabled leave type", func(t *testing.T) {
		require.NoError(t, f.service.DisableLeaveType(ctx, "sick"))
		_, err := f.service.Apply(ctx, staff, leave.ApplyLeaveRequest{
			LeaveTypeID: "sick", StartDate: "2025-09-01", EndDate: "2025-09-01", TotalDays: days("1"),
		})
		assert.ErrorIs(t, err, leave.ErrLeaveTypeInactive)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		_, err := f.service.Apply(ctx, staff, leave.ApplyLeaveRequest{
			LeaveTypeID: "sabbatical", StartDate: "2025-09-01", EndDate: "2025-09-01", TotalDays: days("1"),
		})
		assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
	})

	t.Run("employees cannot apply for others", func(t *testing.T) {
		_, err := f.service.Apply(ctx, coworker, leave.ApplyLeaveRequest{
			EmployeeID: "emp-1", LeaveTypeID: "annual", StartDate: "2025-09-01", EndDate: "2025-09-01", TotalDays: days("1"),
		})
		assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
	})

	t.Run("spanning leave years", func(t *testing.T) {
		_, err := f.service.Apply(ctx, staff, leave.ApplyLeaveRequest{
			LeaveTypeID: "annual", StartDate: "2025-12-30", EndDate: "2026-01-02", TotalDays: days("2"),
		})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.True(t, verrs.Has("end_date"))
	})
}

func TestLeaveService_Approve(t *testing.T) {
	f := newLeaveFixture(t)
	f.initialize(t, "emp-1", 2025)
	ctx := context.Background()

	app := f.apply(t, staff, "5")

	resp, err := f.service.Approve(ctx, manager, app.ID)
	require.NoError(t, err)

	assert.Equal(t, string(leave.ApplicationStatusApproved), resp.Application.Status)
	require.NotNil(t, resp.Application.ApprovedBy)
	assert.Equal(t, manager.UserID, *resp.Application.ApprovedBy)
	assert.NotNil(t, resp.Application.ApprovedAt)
	assert.True(t, days("5").Equal(resp.UpdatedBalance.UsedDays))
	assert.True(t, days("7").Equal(resp.UpdatedBalance.AvailableDays))

	_, err = f.service.Approve(ctx, manager, app.ID)
	assert.ErrorIs(t, err, leave.ErrApplicationAlreadyProcessed)

	_, err = f.service.Approve(ctx, staff, app.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.service.Approve(ctx, manager, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveApplicationNotFound)
}

func TestLeaveService_Approve_BalanceNeverNegative(t *testing.T) {
	f := newLeaveFixture(t)
	f.initialize(t, "emp-1", 2025)
	ctx := context.Background()

	// Both fit individually; together they exceed the 12 allocated days.
	first := f.apply(t, staff, "8")
	second := f.apply(t, staff, "8")

	_, err := f.service.Approve(ctx, manager, first.ID)
	require.NoError(t, err)

	before := f.balances.get("emp-1", "annual", 2025)
	_, err = f.service.Approve(ctx, manager, second.ID)
	after := f.balances.get("emp-1", "annual", 2025)

	var insufficient *leave.InsufficientBalanceError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, days("4").Equal(insufficient.Available))
	assert.True(t, days("4").Equal(insufficient.Shortfall))
	assert.Equal(t, before, after)
	assert.False(t, after.AvailableDays().IsNegative())
	assert.Equal(t, leave.ApplicationStatusPending, f.applications.apps[second.ID].Status)
}

func TestLeaveService_Approve_GuardRejectionIsInvariantViolation(t *testing.T) {
	f := newLeaveFixture(t)
	f.initialize(t, "emp-1", 2025)
	app := f.apply(t, staff, "2")
	f.balances.guardBypass = true

	_, err := f.service.Approve(context.Background(), manager, app.ID)

	var violation *leave.InvariantViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, "emp-1", violation.EmployeeID)
	assert.ErrorIs(t, err, leave.ErrInvariantViolation)
	assert.False(t, leave.IsClientError(err))
}

func TestLeaveService_Reject(t *testing.T) {
	f := newLeaveFixture(t)
	f.initialize(t, "emp-1", 2025)
	ctx := context.Background()
	app := f.apply(t, staff, "3")

	_, err := f.service.Reject(ctx, manager, leave.RejectLeaveRequest{ApplicationID: app.ID, Reason: "  "})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("reason"))

	rejected, err := f.service.Reject(ctx, manager, leave.RejectLeaveRequest{ApplicationID: app.ID, Reason: "project deadline"})
	require.NoError(t, err)
	assert.Equal(t, string(leave.ApplicationStatusRejected), rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "project deadline", *rejected.RejectionReason)
	assert.True(t, f.balances.get("emp-1", "annual", 2025).UsedDays.IsZero())

	_, err = f.service.Approve(ctx, manager, app.ID)
	assert.ErrorIs(t, err, leave.ErrApplicationAlreadyProcessed)
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("pending has no balance effect", func(t *testing.T) {
		f := newLeaveFixture(t)
		f.initialize(t, "emp-1", 2025)
		app := f.apply(t, staff, "3")

		resp, err := f.service.Cancel(ctx, staff, app.ID)
		require.NoError(t, err)
		assert.Equal(t, string(leave.ApplicationStatusCancelled), resp.Application.Status)
		assert.Nil(t, resp.UpdatedBalance)
		assert.True(t, f.balances.get("emp-1", "annual", 2025).UsedDays.IsZero())
	})

	t.Run("approved is re-credited", func(t *testing.T) {
		f := newLeaveFixture(t)
		f.initialize(t, "emp-1", 2025)
		app := f.apply(t, staff, "3")
		_, err := f.service.Approve(ctx, manager, app.ID)
		require.NoError(t, err)

		resp, err := f.service.Cancel(ctx, hrAdmin, app.ID)
		require.NoError(t, err)
		require.NotNil(t, resp.UpdatedBalance)
		assert.True(t, resp.UpdatedBalance.UsedDays.IsZero())
		assert.True(t, days("12").Equal(resp.UpdatedBalance.AvailableDays))
		require.NotNil(t, resp.Application.CancelledBy)
		assert.Equal(t, hrAdmin.UserID, *resp.Application.CancelledBy)

		_, err = f.service.Cancel(ctx, hrAdmin, app.ID)
		assert.ErrorIs(t, err, leave.ErrApplicationAlreadyProcessed)
	})

	t.Run("only applicant or admin", func(t *testing.T) {
		f := newLeaveFixture(t)
		f.initialize(t, "emp-1", 2025)
		app := f.apply(t, staff, "3")

		_, err := f.service.Cancel(ctx, coworker, app.ID)
		assert.ErrorIs(t, err, leave.ErrNotApplicationOwner)

		_, err = f.service.Cancel(ctx, manager, app.ID)
		assert.ErrorIs(t, err, leave.ErrNotApplicationOwner)
	})

	t.Run("rejected cannot be cancelled", func(t *testing.T) {
		f := newLeaveFixture(t)
		f.initialize(t, "emp-1", 2025)
		app := f.apply(t, staff, "3")
		_, err := f.service.Reject(ctx, manager, leave.RejectLeaveRequest{ApplicationID: app.ID, Reason: "no"})
		require.NoError(t, err)

		_, err = f.service.Cancel(ctx, staff, app.ID)
		assert.ErrorIs(t, err, leave.ErrApplicationAlreadyProcessed)
	})
}

func TestLeaveService_CarryForward(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	f.initialize(t, "emp-1", 2024)

	prev := f.balances.get("emp-1", "annual", 2024)
	prev.UsedDays = days("4")
	f.balances.balances[balanceKey{"emp-1", "annual", 2024}] = prev

	_, err := f.service.CarryForward(ctx, leave.CarryForwardRequest{EmployeeID: "emp-1", LeaveYear: 2025})
	assert.ErrorIs(t, err, leave.ErrLeaveBalanceNotFound)

	f.initialize(t, "emp-1", 2025)
	updated, err := f.service.CarryForward(ctx, leave.CarryForwardRequest{EmployeeID: "emp-1", LeaveYear: 2025})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, "annual", updated[0].LeaveTypeID)

	annual := f.balances.get("emp-1", "annual", 2025)
	assert.True(t, days("5").Equal(annual.CarryForwardDays), "capped at max: %s", annual.CarryForwardDays)
	assert.True(t, days("17").Equal(annual.AvailableDays()))
	assert.True(t, f.balances.get("emp-1", "sick", 2025).CarryForwardDays.IsZero())

	_, err = f.service.CarryForward(ctx, leave.CarryForwardRequest{EmployeeID: "emp-1", LeaveYear: 2025})
	require.NoError(t, err)
	assert.True(t, days("5").Equal(f.balances.get("emp-1", "annual", 2025).CarryForwardDays))
}

func TestLeaveService_GetBalance(t *testing.T) {
	f := newLeaveFixture(t)
	f.initialize(t, "emp-1", 2025)
	ctx := context.Background()

	balances, err := f.service.GetBalance(ctx, staff, "emp-1", 2025)
	require.NoError(t, err)
	assert.Len(t, balances, 2)

	_, err = f.service.GetBalance(ctx, manager, "emp-1", 2025)
	assert.NoError(t, err)

	_, err = f.service.GetBalance(ctx, coworker, "emp-1", 2025)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestLeaveService_RolloverLeaveYear(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	f.initialize(t, "emp-1", 2024)
	f.initialize(t, "emp-1", 2025)

	result, err := f.service.RolloverLeaveYear(ctx, time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Plans)
	assert.Equal(t, 1, result.Initialized, "emp-2 gets new balances")
	assert.Equal(t, 1, result.Skipped, "emp-1 already has 2025 balances")
	assert.Equal(t, 2, result.CarriedForward)
	assert.Equal(t, 0, result.Failed)
	assert.True(t, days("5").Equal(f.balances.get("emp-1", "annual", 2025).CarryForwardDays))

	// Mid-year ticks leave existing balances alone.
	result, err = f.service.RolloverLeaveYear(ctx, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Plans)
	assert.Equal(t, 0, result.Initialized)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0, result.CarriedForward)
}

func TestLeaveService_RolloverLeaveYear_CatchesUpMissedAnchor(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	f.initialize(t, "emp-1", 2024)

	// Nothing ran on Jan 1; the first tick afterwards opens 2025.
	result, err := f.service.RolloverLeaveYear(ctx, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Initialized)
	assert.Equal(t, 2, result.CarriedForward)
	assert.Equal(t, 0, result.Failed)
	assert.True(t, days("12").Equal(f.balances.get("emp-1", "annual", 2025).AllocatedDays))
	assert.True(t, days("5").Equal(f.balances.get("emp-1", "annual", 2025).CarryForwardDays))

	result, err = f.service.RolloverLeaveYear(ctx, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Initialized)
	assert.Equal(t, 2, result.Skipped)
}

func TestLeaveService_Catalog(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Code: "ML", Name: "Maternity", MaxCarryForwardDays: days("3")})
	require.NoError(t, err)
	assert.True(t, created.IsPaid)
	assert.True(t, created.RequiresApproval)
	assert.True(t, created.IsActive)

	_, err = f.service.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Code: "ML", Name: "Duplicate"})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeCodeExists)

	_, err = f.service.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Code: "X", Name: "Bad", MaxCarryForwardDays: days("-1")})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("max_carry_forward_days"))

	require.NoError(t, f.service.DisableLeaveType(ctx, created.ID))
	active, err := f.service.ListLeaveTypes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	all, err := f.service.ListLeaveTypes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	assert.ErrorIs(t, f.service.DisableLeaveType(ctx, "missing"), leave.ErrLeaveTypeNotFound)
}

func TestLeaveService_CreatePlan(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	month, day := 4, 1

	plan, err := f.service.CreatePlan(ctx, leave.CreateLeavePlanRequest{
		Name:                "Fiscal",
		LeaveYearStartMonth: &month,
		LeaveYearStartDay:   &day,
		Allocations: []leave.AllocationRequest{
			{LeaveTypeID: "annual", DaysAllocated: days("18"), ProrateOnJoining: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, plan.LeaveYearStartMonth)
	require.Len(t, plan.Allocations, 1)

	got, err := f.service.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan, got)

	defaults, err := f.service.CreatePlan(ctx, leave.CreateLeavePlanRequest{Name: "Default"})
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.LeaveYearStartMonth)
	assert.Equal(t, 1, defaults.LeaveYearStartDay)

	_, err = f.service.CreatePlan(ctx, leave.CreateLeavePlanRequest{
		Name: "Dup",
		Allocations: []leave.AllocationRequest{
			{LeaveTypeID: "annual", DaysAllocated: days("1")},
			{LeaveTypeID: "annual", DaysAllocated: days("2")},
		},
	})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	_, err = f.service.CreatePlan(ctx, leave.CreateLeavePlanRequest{
		Name:        "Unknown type",
		Allocations: []leave.AllocationRequest{{LeaveTypeID: "sabbatical", DaysAllocated: days("1")}},
	})
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("allocations.leave_type_id"))

	badDay := 30
	_, err = f.service.CreatePlan(ctx, leave.CreateLeavePlanRequest{Name: "Bad anchor", LeaveYearStartDay: &badDay})
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("leave_year_start_day"))

	require.NoError(t, f.service.AssignPlan(ctx, leave.AssignPlanRequest{EmployeeID: "emp-1", LeavePlanID: plan.ID}))
	assert.Equal(t, plan.ID, *f.employees.employees["emp-1"].LeavePlanID)
	assert.ErrorIs(t, f.service.AssignPlan(ctx, leave.AssignPlanRequest{EmployeeID: "emp-1", LeavePlanID: "missing"}), leave.ErrLeavePlanNotFound)
}
