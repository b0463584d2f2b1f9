package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const salaryStructureColumns = `employee_id, basic, hra, conveyance, special_allowance,
		pf, esi, professional_tax, other_deductions, created_at, updated_at`

type salaryStructureRepository struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) payroll.SalaryStructureRepository {
	return &salaryStructureRepository{db: db}
}

func scanSalaryStructure(row pgx.Row) (payroll.SalaryStructure, error) {
	var s payroll.SalaryStructure
	err := row.Scan(
		&s.EmployeeID, &s.Basic, &s.HRA, &s.Conveyance, &s.SpecialAllowance,
		&s.PF, &s.ESI, &s.ProfessionalTax, &s.OtherDeductions, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Upsert implements payroll.SalaryStructureRepository.
func (r *salaryStructureRepository) Upsert(ctx context.Context, s payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_structures (
			employee_id, basic, hra, conveyance, special_allowance,
			pf, esi, professional_tax, other_deductions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id) DO UPDATE SET
			basic = EXCLUDED.basic,
			hra = EXCLUDED.hra,
			conveyance = EXCLUDED.conveyance,
			special_allowance = EXCLUDED.special_allowance,
			pf = EXCLUDED.pf,
			esi = EXCLUDED.esi,
			professional_tax = EXCLUDED.professional_tax,
			other_deductions = EXCLUDED.other_deductions,
			updated_at = NOW()
		RETURNING ` + salaryStructureColumns

	return scanSalaryStructure(q.QueryRow(ctx, query,
		s.EmployeeID, s.Basic, s.HRA, s.Conveyance, s.SpecialAllowance,
		s.PF, s.ESI, s.ProfessionalTax, s.OtherDeductions,
	))
}

// GetByEmployeeID implements payroll.SalaryStructureRepository.
func (r *salaryStructureRepository) GetByEmployeeID(ctx context.Context, employeeID string) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryStructureColumns + ` FROM salary_structures WHERE employee_id = $1`

	s, err := scanSalaryStructure(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
		}
		return payroll.SalaryStructure{}, err
	}
	return s, nil
}

// GetByEmployeeIDs implements payroll.SalaryStructureRepository.
func (r *salaryStructureRepository) GetByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string]payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryStructureColumns + ` FROM salary_structures WHERE employee_id = ANY($1)`

	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	structures := make(map[string]payroll.SalaryStructure, len(employeeIDs))
	for rows.Next() {
		s, err := scanSalaryStructure(rows)
		if err != nil {
			return nil, err
		}
		structures[s.EmployeeID] = s
	}

	return structures, rows.Err()
}
