package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/database"
)

// Only this status counts as a worked day.
const attendanceStatusPresent = "present"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) payroll.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// CountPresentDays implements payroll.AttendanceRepository.
func (a *attendanceRepository) CountPresentDays(ctx context.Context, employeeIDs []string, month, year int) (map[string]int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT employee_id, COUNT(DISTINCT date)
		FROM attendances
		WHERE employee_id = ANY($1)
		  AND EXTRACT(MONTH FROM date) = $2
		  AND EXTRACT(YEAR FROM date) = $3
		  AND status = $4
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, employeeIDs, month, year, attendanceStatusPresent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int, len(employeeIDs))
	for rows.Next() {
		var (
			employeeID string
			present    int
		)
		if err := rows.Scan(&employeeID, &present); err != nil {
			return nil, err
		}
		counts[employeeID] = present
	}

	return counts, rows.Err()
}
