package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 8

type PayrollServiceImpl struct {
	structureRepo payroll.SalaryStructureRepository
	runRepo       payroll.PayrollRunRepository
	slipRepo      payroll.PayrollSlipRepository
	employeeRepo  employee.EmployeeRepository
	attendance    *AttendanceAggregator
	calculator    *Calculator
	concurrency   int
	now           func() time.Time
}

func NewPayrollService(
	structureRepo payroll.SalaryStructureRepository,
	runRepo payroll.PayrollRunRepository,
	slipRepo payroll.PayrollSlipRepository,
	employeeRepo employee.EmployeeRepository,
	attendance *AttendanceAggregator,
	calculator *Calculator,
	concurrency int,
) payroll.PayrollService {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &PayrollServiceImpl{
		structureRepo: structureRepo,
		runRepo:       runRepo,
		slipRepo:      slipRepo,
		employeeRepo:  employeeRepo,
		attendance:    attendance,
		calculator:    calculator,
		concurrency:   concurrency,
		now:           time.Now,
	}
}

// ========== SALARY STRUCTURES ==========

func (s *PayrollServiceImpl) UpsertSalaryStructure(ctx context.Context, req payroll.UpsertSalaryStructureRequest) (payroll.SalaryStructureResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.SalaryStructureResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	structure := req.ToStructure()
	totals, warnings, err := ValidateStructure(structure)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	saved, err := s.structureRepo.Upsert(ctx, structure)
	if err != nil {
		return payroll.SalaryStructureResponse{}, fmt.Errorf("failed to save salary structure: %w", err)
	}

	if len(warnings) > 0 {
		slog.Warn("Salary structure saved with warnings",
			"employee_id", saved.EmployeeID,
			"net_salary", totals.NetSalary.String(),
			"warnings", warnings,
		)
	}

	return toStructureResponse(saved, totals, warnings), nil
}

func (s *PayrollServiceImpl) GetSalaryStructure(ctx context.Context, employeeID string) (payroll.SalaryStructureResponse, error) {
	structure, err := s.structureRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	totals, warnings, err := ValidateStructure(structure)
	if err != nil {
		// Stored rows predate validation; report totals anyway.
		slog.Warn("Stored salary structure fails validation", "employee_id", employeeID, "error", err)
		totals = ComputeTotals(structure)
	}

	return toStructureResponse(structure, totals, warnings), nil
}

// ImportSalaryStructures upserts each record independently and reports the rows that failed.
func (s *PayrollServiceImpl) ImportSalaryStructures(ctx context.Context, records []payroll.SalaryStructureRecord) (payroll.ImportSalaryStructuresResponse, error) {
	result := payroll.ImportSalaryStructuresResponse{Failed: []payroll.ImportFailure{}}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if record.Problem != "" {
			result.Failed = append(result.Failed, payroll.ImportFailure{
				Row:        record.Row,
				EmployeeID: record.Request.EmployeeID,
				Reason:     record.Problem,
			})
			continue
		}
		if _, err := s.UpsertSalaryStructure(ctx, record.Request); err != nil {
			result.Failed = append(result.Failed, payroll.ImportFailure{
				Row:        record.Row,
				EmployeeID: record.Request.EmployeeID,
				Reason:     err.Error(),
			})
			continue
		}
		result.Imported++
	}

	slog.Info("Salary structures imported", "imported", result.Imported, "failed", len(result.Failed))
	return result, nil
}

// ========== GENERATION ==========

type slipOutcome struct {
	employeeID string
	err        error
}

func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, actor user.Actor, req payroll.GeneratePayrollRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to generate run id: %w", err)
	}

	run, err := s.runRepo.Create(ctx, payroll.PayrollRun{
		ID:        runID.String(),
		Month:     req.Month,
		Year:      req.Year,
		Status:    payroll.RunStatusProcessing,
		CreatedBy: actor.UserID,
		CreatedAt: s.now(),
	})
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	slog.Info("Payroll run started", "run_id", run.ID, "month", run.Month, "year", run.Year, "created_by", run.CreatedBy)

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return s.failRun(ctx, run, fmt.Errorf("failed to get employees: %w", err))
	}

	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	structures, err := s.structureRepo.GetByEmployeeIDs(ctx, employeeIDs)
	if err != nil {
		return s.failRun(ctx, run, fmt.Errorf("failed to get salary structures: %w", err))
	}

	summaries, err := s.attendance.Summaries(ctx, employeeIDs, req.Month, req.Year)
	if err != nil {
		return s.failRun(ctx, run, err)
	}

	// Slips for different employees are independent; each goroutine owns one index.
	outcomes := make([]slipOutcome, len(employeeIDs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, employeeID := range employeeIDs {
		i, employeeID := i, employeeID
		g.Go(func() error {
			_, err := s.generateSlip(gCtx, &run.ID, structures, summaries[employeeID], employeeID, payroll.SlipStatusGenerated)
			outcomes[i] = slipOutcome{employeeID: employeeID, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return s.failRun(context.WithoutCancel(ctx), run, fmt.Errorf("payroll run interrupted: %w", err))
	}

	resp := payroll.GeneratePayrollResponse{
		RunID:   run.ID,
		Skipped: []payroll.SkippedEmployeeResponse{},
	}
	for _, o := range outcomes {
		if o.err == nil {
			resp.ProcessedCount++
			continue
		}
		if !payroll.IsSkippable(o.err) {
			slog.Error("Failed to generate payroll slip", "run_id", run.ID, "employee_id", o.employeeID, "error", o.err)
		} else {
			slog.Warn("Skipped employee in payroll run", "run_id", run.ID, "employee_id", o.employeeID, "reason", o.err.Error())
		}
		resp.Skipped = append(resp.Skipped, payroll.SkippedEmployeeResponse{
			EmployeeID: o.employeeID,
			Reason:     o.err.Error(),
		})
	}

	completedAt := s.now()
	run.Status = payroll.RunStatusCompleted
	run.CompletedAt = &completedAt
	run.ProcessedCount = resp.ProcessedCount
	run.SkippedCount = len(resp.Skipped)
	if err := s.runRepo.Finish(ctx, run); err != nil {
		// Leave the run in a terminal state rather than processing.
		return s.failRun(context.WithoutCancel(ctx), run, fmt.Errorf("failed to complete payroll run: %w", err))
	}

	slog.Info("Payroll run completed",
		"run_id", run.ID,
		"processed", run.ProcessedCount,
		"skipped", run.SkippedCount,
	)

	resp.Status = string(run.Status)
	return resp, nil
}

// failRun marks the run failed and returns cause. Only systemic errors land here.
func (s *PayrollServiceImpl) failRun(ctx context.Context, run payroll.PayrollRun, cause error) (payroll.GeneratePayrollResponse, error) {
	completedAt := s.now()
	reason := cause.Error()
	run.Status = payroll.RunStatusFailed
	run.CompletedAt = &completedAt
	run.FailureReason = &reason

	slog.Error("Payroll run failed", "run_id", run.ID, "error", cause)

	if err := s.runRepo.Finish(ctx, run); err != nil {
		slog.Error("Failed to mark payroll run as failed", "run_id", run.ID, "error", err)
	}

	return payroll.GeneratePayrollResponse{
		RunID:   run.ID,
		Status:  string(run.Status),
		Skipped: []payroll.SkippedEmployeeResponse{},
	}, cause
}

func (s *PayrollServiceImpl) generateSlip(
	ctx context.Context,
	runID *string,
	structures map[string]payroll.SalaryStructure,
	summary payroll.AttendanceSummary,
	employeeID string,
	status payroll.SlipStatus,
) (payroll.PayrollSlip, error) {
	structure, ok := structures[employeeID]
	if !ok {
		return payroll.PayrollSlip{}, &payroll.MissingStructureError{EmployeeID: employeeID}
	}

	slip, err := s.calculator.CalculateSlip(structure, summary)
	if err != nil {
		return payroll.PayrollSlip{}, err
	}

	slipID, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollSlip{}, fmt.Errorf("failed to generate slip id: %w", err)
	}
	slip.ID = slipID.String()
	slip.RunID = runID
	slip.Status = status

	saved, err := s.slipRepo.Upsert(ctx, slip)
	if err != nil {
		return payroll.PayrollSlip{}, fmt.Errorf("failed to save payroll slip: %w", err)
	}
	// Warnings are not persisted.
	saved.Warnings = slip.Warnings
	return saved, nil
}

func (s *PayrollServiceImpl) RecalculateSlip(ctx context.Context, actor user.Actor, req payroll.RecalculateSlipRequest) (payroll.PayrollSlipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollSlipResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.PayrollSlipResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	structure, err := s.structureRepo.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, payroll.ErrSalaryStructureNotFound) {
			return payroll.PayrollSlipResponse{}, &payroll.MissingStructureError{EmployeeID: req.EmployeeID}
		}
		return payroll.PayrollSlipResponse{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	summary, err := s.attendance.Summary(ctx, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return payroll.PayrollSlipResponse{}, err
	}

	structures := map[string]payroll.SalaryStructure{req.EmployeeID: structure}
	slip, err := s.generateSlip(ctx, nil, structures, summary, req.EmployeeID, payroll.SlipStatusRecalculated)
	if err != nil {
		return payroll.PayrollSlipResponse{}, err
	}

	slog.Info("Payroll slip recalculated",
		"employee_id", slip.EmployeeID,
		"month", slip.Month,
		"year", slip.Year,
		"by", actor.UserID,
	)

	return toSlipResponse(slip), nil
}

// ========== READS ==========

func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string) (payroll.PayrollRunResponse, error) {
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	return toRunResponse(run), nil
}

func (s *PayrollServiceImpl) ListSlips(ctx context.Context, runID string) ([]payroll.PayrollSlipResponse, error) {
	if _, err := s.runRepo.GetByID(ctx, runID); err != nil {
		return nil, err
	}

	slips, err := s.slipRepo.ListByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll slips: %w", err)
	}

	responses := make([]payroll.PayrollSlipResponse, 0, len(slips))
	for _, slip := range slips {
		responses = append(responses, toSlipResponse(slip))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) GetSlip(ctx context.Context, actor user.Actor, employeeID string, month, year int) (payroll.PayrollSlipResponse, error) {
	if !actor.Owns(employeeID) && !user.HasPermission(actor.Role, user.PermissionPayrollViewSlips) {
		return payroll.PayrollSlipResponse{}, user.ErrInsufficientPermissions
	}

	slip, err := s.slipRepo.GetByEmployeePeriod(ctx, employeeID, month, year)
	if err != nil {
		return payroll.PayrollSlipResponse{}, err
	}
	return toSlipResponse(slip), nil
}

// ========== MAPPERS ==========

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func toStructureResponse(s payroll.SalaryStructure, totals payroll.SalaryTotals, warnings []string) payroll.SalaryStructureResponse {
	return payroll.SalaryStructureResponse{
		EmployeeID:       s.EmployeeID,
		Basic:            s.Basic,
		HRA:              s.HRA,
		Conveyance:       s.Conveyance,
		SpecialAllowance: s.SpecialAllowance,
		PF:               s.PF,
		ESI:              s.ESI,
		ProfessionalTax:  s.ProfessionalTax,
		OtherDeductions:  s.OtherDeductions,
		GrossSalary:      totals.GrossSalary,
		TotalDeductions:  totals.TotalDeductions,
		NetSalary:        totals.NetSalary,
		Warnings:         warnings,
		UpdatedAt:        formatTime(s.UpdatedAt),
	}
}

func toRunResponse(run payroll.PayrollRun) payroll.PayrollRunResponse {
	resp := payroll.PayrollRunResponse{
		ID:             run.ID,
		Month:          run.Month,
		Year:           run.Year,
		Status:         string(run.Status),
		CreatedBy:      run.CreatedBy,
		ProcessedCount: run.ProcessedCount,
		SkippedCount:   run.SkippedCount,
		FailureReason:  run.FailureReason,
		CreatedAt:      formatTime(run.CreatedAt),
	}
	if run.CompletedAt != nil {
		completedAt := formatTime(*run.CompletedAt)
		resp.CompletedAt = &completedAt
	}
	return resp
}

func toSlipResponse(slip payroll.PayrollSlip) payroll.PayrollSlipResponse {
	return payroll.PayrollSlipResponse{
		ID:                     slip.ID,
		RunID:                  slip.RunID,
		EmployeeID:             slip.EmployeeID,
		Month:                  slip.Month,
		Year:                   slip.Year,
		BasicEarned:            slip.BasicEarned,
		HRAEarned:              slip.HRAEarned,
		ConveyanceEarned:       slip.ConveyanceEarned,
		SpecialAllowanceEarned: slip.SpecialAllowanceEarned,
		GrossEarned:            slip.GrossEarned,
		PF:                     slip.PF,
		ESI:                    slip.ESI,
		ProfessionalTax:        slip.ProfessionalTax,
		OtherDeductions:        slip.OtherDeductions,
		TotalDeductions:        slip.TotalDeductions,
		NetEarned:              slip.NetEarned,
		NegativeNet:            slip.NegativeNet,
		DaysWorked:             slip.DaysWorked,
		DaysInMonth:            slip.DaysInMonth,
		Status:                 string(slip.Status),
		Warnings:               slip.Warnings,
	}
}
