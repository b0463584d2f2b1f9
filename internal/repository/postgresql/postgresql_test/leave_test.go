package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()

	types := postgresql.NewLeaveTypeRepository(setup.DB)
	plans := postgresql.NewLeavePlanRepository(setup.DB)
	balances := postgresql.NewLeaveBalanceRepository(setup.DB)
	applications := postgresql.NewLeaveApplicationRepository(setup.DB)
	transactor := postgresql.NewTransactor(setup.DB)

	annual, err := types.Create(ctx, leave.LeaveType{
		ID: newUUID(t), Code: "AL", Name: "Annual", IsPaid: true, RequiresApproval: true,
		CanCarryForward: true, MaxCarryForwardDays: decimal.NewFromInt(5), IsActive: true,
	})
	require.NoError(t, err)

	_, err = types.Create(ctx, leave.LeaveType{ID: newUUID(t), Code: "AL", Name: "Again", IsActive: true})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeCodeExists)

	plan, err := plans.Create(ctx, leave.LeavePlan{
		ID: newUUID(t), Name: "Fiscal", LeaveYearStartMonth: 4, LeaveYearStartDay: 1, IsActive: true,
		Allocations: []leave.Allocation{{LeaveTypeID: annual.ID, DaysAllocated: decimal.NewFromInt(12), ProrateOnJoining: true}},
	})
	require.NoError(t, err)

	stored, err := plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, stored.Allocations, 1)
	assert.True(t, decimal.NewFromInt(12).Equal(stored.Allocations[0].DaysAllocated))

	active, err := plans.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	employeeID := setup.createEmployee(t, "E-001", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), &plan.ID)

	balance, err := balances.Create(ctx, leave.LeaveBalance{
		ID: newUUID(t), EmployeeID: employeeID, LeaveTypeID: annual.ID, LeaveYear: 2025,
		AllocatedDays: decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	_, err = balances.Create(ctx, leave.LeaveBalance{
		ID: newUUID(t), EmployeeID: employeeID, LeaveTypeID: annual.ID, LeaveYear: 2025,
	})
	assert.ErrorIs(t, err, leave.ErrBalanceAlreadyExists)

	t.Run("guarded debit", func(t *testing.T) {
		updated, err := balances.AdjustUsedDays(ctx, balance.ID, decimal.RequireFromString("10.5"))
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1.5").Equal(updated.AvailableDays()))

		_, err = balances.AdjustUsedDays(ctx, balance.ID, decimal.NewFromInt(2))
		assert.ErrorIs(t, err, leave.ErrInvariantViolation)

		unchanged, err := balances.GetByEmployeeTypeYear(ctx, employeeID, annual.ID, 2025)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("10.5").Equal(unchanged.UsedDays))

		_, err = balances.AdjustUsedDays(ctx, balance.ID, decimal.RequireFromString("-10.5"))
		require.NoError(t, err)
	})

	t.Run("status transition is guarded", func(t *testing.T) {
		app, err := applications.Create(ctx, leave.LeaveApplication{
			ID: newUUID(t), EmployeeID: employeeID, LeaveTypeID: annual.ID, LeaveYear: 2025,
			StartDate: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC),
			TotalDays: decimal.NewFromInt(2), Status: leave.ApplicationStatusPending,
			AppliedAt: time.Now(), AppliedBy: "user-1",
		})
		require.NoError(t, err)

		err = transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			locked, err := applications.GetForUpdate(ctx, app.ID)
			if err != nil {
				return err
			}
			approver := "user-2"
			now := time.Now()
			locked.Status = leave.ApplicationStatusApproved
			locked.ApprovedBy = &approver
			locked.ApprovedAt = &now
			_, err = applications.UpdateStatus(ctx, locked, leave.ApplicationStatusPending)
			return err
		})
		require.NoError(t, err)

		stale := app
		stale.Status = leave.ApplicationStatusRejected
		_, err = applications.UpdateStatus(ctx, stale, leave.ApplicationStatusPending)
		assert.ErrorIs(t, err, leave.ErrApplicationAlreadyProcessed)

		got, err := applications.GetByID(ctx, app.ID)
		require.NoError(t, err)
		assert.Equal(t, leave.ApplicationStatusApproved, got.Status)
	})

	t.Run("rollback leaves the balance untouched", func(t *testing.T) {
		err := transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			locked, err := balances.GetForUpdate(ctx, employeeID, annual.ID, 2025)
			if err != nil {
				return err
			}
			if _, err := balances.AdjustUsedDays(ctx, locked.ID, decimal.NewFromInt(1)); err != nil {
				return err
			}
			return leave.ErrInsufficientBalance
		})
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

		got, err := balances.GetByEmployeeTypeYear(ctx, employeeID, annual.ID, 2025)
		require.NoError(t, err)
		assert.True(t, got.UsedDays.IsZero())
	})
}
