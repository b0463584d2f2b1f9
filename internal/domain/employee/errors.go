package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeInactive     = errors.New("employee is not active")
	ErrLeavePlanNotAssigned = errors.New("employee has no leave plan assigned")
)
