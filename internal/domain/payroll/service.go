package payroll

import (
	"context"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
)

type PayrollService interface {
	// Salary structures
	UpsertSalaryStructure(ctx context.Context, req UpsertSalaryStructureRequest) (SalaryStructureResponse, error)
	GetSalaryStructure(ctx context.Context, employeeID string) (SalaryStructureResponse, error)
	ImportSalaryStructures(ctx context.Context, records []SalaryStructureRecord) (ImportSalaryStructuresResponse, error)

	// Generation
	GeneratePayroll(ctx context.Context, actor user.Actor, req GeneratePayrollRequest) (GeneratePayrollResponse, error)
	RecalculateSlip(ctx context.Context, actor user.Actor, req RecalculateSlipRequest) (PayrollSlipResponse, error)

	// Reads
	GetRun(ctx context.Context, id string) (PayrollRunResponse, error)
	ListSlips(ctx context.Context, runID string) ([]PayrollSlipResponse, error)
	GetSlip(ctx context.Context, actor user.Actor, employeeID string, month, year int) (PayrollSlipResponse, error)
}
