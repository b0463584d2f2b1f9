package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	columnEmployeeID       = "employee_id"
	columnBasic            = "basic"
	columnHRA              = "hra"
	columnConveyance       = "conveyance"
	columnSpecialAllowance = "special_allowance"
	columnPF               = "pf"
	columnESI              = "esi"
	columnProfessionalTax  = "professional_tax"
	columnOtherDeductions  = "other_deductions"
)

var amountColumns = []string{
	columnBasic,
	columnHRA,
	columnConveyance,
	columnSpecialAllowance,
	columnPF,
	columnESI,
	columnProfessionalTax,
	columnOtherDeductions,
}

// ParseSalaryStructures reads salary structures from the first sheet of an
// xlsx workbook. The first row is the header; blank amount cells are zero.
// Rows with unparseable amounts are returned with Problem set.
func ParseSalaryStructures(r io.Reader) ([]payroll.SalaryStructureRecord, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, payroll.ErrEmptyImportFile
	}
	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, payroll.ErrEmptyImportFile
	}

	index := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		index[normalizeHeader(header)] = i
	}
	if _, ok := index[columnEmployeeID]; !ok {
		return nil, fmt.Errorf("%w: %s", payroll.ErrImportColumnMissing, columnEmployeeID)
	}

	records := make([]payroll.SalaryStructureRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		// Spreadsheet rows are 1-based and the header occupies row 1.
		record := payroll.SalaryStructureRecord{Row: i + 2}
		record.Request.EmployeeID = cellValue(row, index, columnEmployeeID)

		var problems []string
		for _, column := range amountColumns {
			amount, err := parseAmount(cellValue(row, index, column))
			if err != nil {
				problems = append(problems, fmt.Sprintf("column %s: %q is not a number", column, cellValue(row, index, column)))
				continue
			}
			setAmount(&record.Request, column, amount)
		}
		record.Problem = strings.Join(problems, "; ")

		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, payroll.ErrEmptyImportFile
	}
	return records, nil
}

func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func cellValue(row []string, index map[string]int, column string) string {
	idx, ok := index[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseAmount(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
}

func setAmount(req *payroll.UpsertSalaryStructureRequest, column string, amount decimal.Decimal) {
	switch column {
	case columnBasic:
		req.Basic = amount
	case columnHRA:
		req.HRA = amount
	case columnConveyance:
		req.Conveyance = amount
	case columnSpecialAllowance:
		req.SpecialAllowance = amount
	case columnPF:
		req.PF = amount
	case columnESI:
		req.ESI = amount
	case columnProfessionalTax:
		req.ProfessionalTax = amount
	case columnOtherDeductions:
		req.OtherDeductions = amount
	}
}
