package ledger

import (
	"fmt"

	"payroll/models"
)

// DefaultHourlyRate applies to hourly employees without a rate of their own.
// It is a payroll policy, overridable with WithFallbackRate.
const DefaultHourlyRate = 15.0

// ClassifyNextAttendanceKind decides what a new scan means given the
// employee's last event of the day: nothing yet, or a departure, starts a
// new arrival; anything else closes it with a departure.
func ClassifyNextAttendanceKind(last *models.ClockEvent) models.EventKind {
	if last == nil || last.Kind == models.KindDeparture {
		return models.KindArrival
	}
	return models.KindDeparture
}

// ComputeSalary multiplies hours by the employee's rate, or by fallbackRate
// when the employee has none.
func ComputeSalary(emp *models.Employee, hoursWorked, fallbackRate float64) (float64, error) {
	rate := HourlyRate(emp, fallbackRate)
	amount := hoursWorked * rate
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %.2f h at %.2f/h", ErrNonPositiveAmount, hoursWorked, rate)
	}
	return amount, nil
}

// HourlyRate returns the employee's own rate when set, otherwise fallback.
func HourlyRate(emp *models.Employee, fallback float64) float64 {
	if emp.HourlyRate != nil {
		return *emp.HourlyRate
	}
	return fallback
}

// ComputeFee returns the employee's flat fee.
func ComputeFee(emp *models.Employee) (float64, error) {
	if emp.FixedFee == nil || *emp.FixedFee <= 0 {
		return 0, fmt.Errorf("%w: fixed fee for %s", ErrNonPositiveAmount, emp.ID)
	}
	return *emp.FixedFee, nil
}
