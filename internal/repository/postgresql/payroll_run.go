package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRunRepository struct {
	db *database.DB
}

func NewPayrollRunRepository(db *database.DB) payroll.PayrollRunRepository {
	return &payrollRunRepository{db: db}
}

// Create implements payroll.PayrollRunRepository.
func (r *payrollRunRepository) Create(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (id, month, year, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if err := q.QueryRow(ctx, query, run.ID, run.Month, run.Year, run.Status, run.CreatedBy).Scan(&run.CreatedAt); err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to insert payroll run: %w", err)
	}
	return run, nil
}

// Finish implements payroll.PayrollRunRepository.
func (r *payrollRunRepository) Finish(ctx context.Context, run payroll.PayrollRun) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_runs
		SET status = $1, processed_count = $2, skipped_count = $3,
			failure_reason = $4, completed_at = $5
		WHERE id = $6 AND status = $7
	`

	commandTag, err := q.Exec(ctx, query,
		run.Status, run.ProcessedCount, run.SkippedCount,
		run.FailureReason, run.CompletedAt,
		run.ID, payroll.RunStatusProcessing,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("payroll run %s is not processing: %w", run.ID, payroll.ErrPayrollRunNotFound)
	}
	return nil
}

// GetByID implements payroll.PayrollRunRepository.
func (r *payrollRunRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, month, year, status, created_by, processed_count, skipped_count,
			   failure_reason, created_at, completed_at
		FROM payroll_runs
		WHERE id = $1
	`

	var run payroll.PayrollRun
	err := q.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.Month, &run.Year, &run.Status, &run.CreatedBy, &run.ProcessedCount, &run.SkippedCount,
		&run.FailureReason, &run.CreatedAt, &run.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, err
	}
	return run, nil
}
