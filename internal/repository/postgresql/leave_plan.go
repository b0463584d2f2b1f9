package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leavePlanColumns = `id, name, leave_year_start_month, leave_year_start_day, description, is_active, created_at, updated_at`

type leavePlanRepositoryImpl struct {
	db *database.DB
}

func NewLeavePlanRepository(db *database.DB) leave.LeavePlanRepository {
	return &leavePlanRepositoryImpl{db: db}
}

func scanLeavePlan(row pgx.Row) (leave.LeavePlan, error) {
	var p leave.LeavePlan
	err := row.Scan(
		&p.ID, &p.Name, &p.LeaveYearStartMonth, &p.LeaveYearStartDay,
		&p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements leave.LeavePlanRepository. The plan and its allocations
// are written in one transaction.
func (r *leavePlanRepositoryImpl) Create(ctx context.Context, plan leave.LeavePlan) (leave.LeavePlan, error) {
	var created leave.LeavePlan
	err := NewTransactor(r.db).WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			INSERT INTO leave_plans (id, name, leave_year_start_month, leave_year_start_day, description, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + leavePlanColumns

		var err error
		created, err = scanLeavePlan(q.QueryRow(ctx, query,
			plan.ID, plan.Name, plan.LeaveYearStartMonth, plan.LeaveYearStartDay, plan.Description, plan.IsActive,
		))
		if err != nil {
			return fmt.Errorf("failed to insert leave plan: %w", err)
		}

		batch := &pgx.Batch{}
		for _, a := range plan.Allocations {
			batch.Queue(`
				INSERT INTO leave_plan_allocations (leave_plan_id, leave_type_id, days_allocated, prorate_on_joining)
				VALUES ($1, $2, $3, $4)
			`, created.ID, a.LeaveTypeID, a.DaysAllocated, a.ProrateOnJoining)
		}
		if batch.Len() > 0 {
			if err := q.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("failed to insert leave plan allocations: %w", err)
			}
		}

		created.Allocations = append([]leave.Allocation(nil), plan.Allocations...)
		return nil
	})
	if err != nil {
		return leave.LeavePlan{}, err
	}
	return created, nil
}

// GetByID implements leave.LeavePlanRepository.
func (r *leavePlanRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeavePlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leavePlanColumns + ` FROM leave_plans WHERE id = $1`

	plan, err := scanLeavePlan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeavePlan{}, leave.ErrLeavePlanNotFound
		}
		return leave.LeavePlan{}, err
	}

	if plan.Allocations, err = r.allocations(ctx, plan.ID); err != nil {
		return leave.LeavePlan{}, err
	}
	return plan, nil
}

// ListActive implements leave.LeavePlanRepository.
func (r *leavePlanRepositoryImpl) ListActive(ctx context.Context) ([]leave.LeavePlan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leavePlanColumns + `
		FROM leave_plans
		WHERE is_active
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	plans := make([]leave.LeavePlan, 0)
	for rows.Next() {
		plan, err := scanLeavePlan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		plans = append(plans, plan)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		if plans[i].Allocations, err = r.allocations(ctx, plans[i].ID); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (r *leavePlanRepositoryImpl) allocations(ctx context.Context, planID string) ([]leave.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT leave_type_id, days_allocated, prorate_on_joining
		FROM leave_plan_allocations
		WHERE leave_plan_id = $1
		ORDER BY leave_type_id
	`

	rows, err := q.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allocations := make([]leave.Allocation, 0)
	for rows.Next() {
		var a leave.Allocation
		if err := rows.Scan(&a.LeaveTypeID, &a.DaysAllocated, &a.ProrateOnJoining); err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}

	return allocations, rows.Err()
}
