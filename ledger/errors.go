package ledger

import "errors"

var (
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrNoEvents          = errors.New("no clock events in period")
	ErrNoBillableHours   = errors.New("no billable hours in period")
	ErrPersistence       = errors.New("failed to persist payroll record")
	ErrResetFailed       = errors.New("payroll saved but consumed events were not reset")
)
