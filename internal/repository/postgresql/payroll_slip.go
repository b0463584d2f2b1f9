package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const payrollSlipColumns = `id, run_id, employee_id, month, year,
		basic_earned, hra_earned, conveyance_earned, special_allowance_earned, gross_earned,
		pf, esi, professional_tax, other_deductions, total_deductions,
		net_earned, negative_net, days_worked, days_in_month, status,
		created_at, updated_at`

type payrollSlipRepository struct {
	db *database.DB
}

func NewPayrollSlipRepository(db *database.DB) payroll.PayrollSlipRepository {
	return &payrollSlipRepository{db: db}
}

func scanPayrollSlip(row pgx.Row) (payroll.PayrollSlip, error) {
	var s payroll.PayrollSlip
	err := row.Scan(
		&s.ID, &s.RunID, &s.EmployeeID, &s.Month, &s.Year,
		&s.BasicEarned, &s.HRAEarned, &s.ConveyanceEarned, &s.SpecialAllowanceEarned, &s.GrossEarned,
		&s.PF, &s.ESI, &s.ProfessionalTax, &s.OtherDeductions, &s.TotalDeductions,
		&s.NetEarned, &s.NegativeNet, &s.DaysWorked, &s.DaysInMonth, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Upsert implements payroll.PayrollSlipRepository. A recalculation without a
// run keeps the run_id of the slip it replaces; the row id is stable.
func (r *payrollSlipRepository) Upsert(ctx context.Context, s payroll.PayrollSlip) (payroll.PayrollSlip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_slips (
			id, run_id, employee_id, month, year,
			basic_earned, hra_earned, conveyance_earned, special_allowance_earned, gross_earned,
			pf, esi, professional_tax, other_deductions, total_deductions,
			net_earned, negative_net, days_worked, days_in_month, status
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20
		)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			run_id = COALESCE(EXCLUDED.run_id, payroll_slips.run_id),
			basic_earned = EXCLUDED.basic_earned,
			hra_earned = EXCLUDED.hra_earned,
			conveyance_earned = EXCLUDED.conveyance_earned,
			special_allowance_earned = EXCLUDED.special_allowance_earned,
			gross_earned = EXCLUDED.gross_earned,
			pf = EXCLUDED.pf,
			esi = EXCLUDED.esi,
			professional_tax = EXCLUDED.professional_tax,
			other_deductions = EXCLUDED.other_deductions,
			total_deductions = EXCLUDED.total_deductions,
			net_earned = EXCLUDED.net_earned,
			negative_net = EXCLUDED.negative_net,
			days_worked = EXCLUDED.days_worked,
			days_in_month = EXCLUDED.days_in_month,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING ` + payrollSlipColumns

	saved, err := scanPayrollSlip(q.QueryRow(ctx, query,
		s.ID, s.RunID, s.EmployeeID, s.Month, s.Year,
		s.BasicEarned, s.HRAEarned, s.ConveyanceEarned, s.SpecialAllowanceEarned, s.GrossEarned,
		s.PF, s.ESI, s.ProfessionalTax, s.OtherDeductions, s.TotalDeductions,
		s.NetEarned, s.NegativeNet, s.DaysWorked, s.DaysInMonth, s.Status,
	))
	if err != nil {
		return payroll.PayrollSlip{}, err
	}
	saved.Warnings = s.Warnings
	return saved, nil
}

// GetByEmployeePeriod implements payroll.PayrollSlipRepository.
func (r *payrollSlipRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollSlip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollSlipColumns + `
		FROM payroll_slips
		WHERE employee_id = $1 AND month = $2 AND year = $3
	`

	s, err := scanPayrollSlip(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollSlip{}, payroll.ErrPayrollSlipNotFound
		}
		return payroll.PayrollSlip{}, err
	}
	return s, nil
}

// ListByRunID implements payroll.PayrollSlipRepository.
func (r *payrollSlipRepository) ListByRunID(ctx context.Context, runID string) ([]payroll.PayrollSlip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollSlipColumns + `
		FROM payroll_slips
		WHERE run_id = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slips := make([]payroll.PayrollSlip, 0)
	for rows.Next() {
		s, err := scanPayrollSlip(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, s)
	}

	return slips, rows.Err()
}
