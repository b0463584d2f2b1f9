package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/notification"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var insufficient *leave.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		BadRequest(w, "Insufficient leave balance", map[string]string{
			"employee_id":   insufficient.EmployeeID,
			"leave_type_id": insufficient.LeaveTypeID,
			"leave_year":    strconv.Itoa(insufficient.LeaveYear),
			"available":     insufficient.Available.String(),
			"requested":     insufficient.Requested.String(),
			"shortfall":     insufficient.Shortfall.String(),
		})
		return
	}

	var invalidPeriod *payroll.InvalidPeriodError
	if errors.As(err, &invalidPeriod) {
		ValidationError(w, map[string]string{"working_days": invalidPeriod.Error()})
		return
	}

	switch {
	// Auth
	case errors.Is(err, user.ErrInvalidToken), errors.Is(err, user.ErrActorNotResolved):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrEmployeeIDRequired):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, "Employee is not active")
	case errors.Is(err, employee.ErrLeavePlanNotAssigned):
		Conflict(w, "Employee has no leave plan assigned")

	// Payroll domain errors
	case payroll.IsNotFound(err):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrMissingStructure):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrEmptyImportFile), errors.Is(err, payroll.ErrImportColumnMissing):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case leave.IsNotFound(err):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrNotApplicationOwner):
		Forbidden(w, "Only the applicant or an admin can cancel this application")
	case errors.Is(err, leave.ErrLeaveTypeCodeExists),
		errors.Is(err, leave.ErrBalanceAlreadyExists),
		errors.Is(err, leave.ErrApplicationAlreadyProcessed):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrLeaveTypeInactive), errors.Is(err, leave.ErrLeavePlanInactive):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrInvariantViolation):
		InternalServerError(w, "Leave balance could not be updated consistently")

	// Reports
	case errors.Is(err, report.ErrNoDataFound):
		NotFound(w, err.Error())

	// Notifications
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, err.Error())

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
