package ledger

import (
	"fmt"
	"strings"
	"time"

	"payroll/models"
)

// ParsePeriod parses a "yyyy-MM" label into the first day of that month.
func ParsePeriod(period string) (time.Time, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return time.Time{}, fmt.Errorf("%w: empty label", ErrInvalidPeriod)
	}
	t, err := time.Parse(models.PeriodLayout, period)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return t, nil
}

// DeterminePeriodBounds returns the first and last calendar dates covered by
// period. When period is the month now falls in, the end is cut at now's
// date so an in-progress month only bills what has happened so far.
// Dates are formatted as models.DateLayout and taken in now's location.
func DeterminePeriodBounds(period string, now time.Time) (start, end string, err error) {
	first, err := ParsePeriod(period)
	if err != nil {
		return "", "", err
	}
	last := first.AddDate(0, 1, -1)

	start = first.Format(models.DateLayout)
	end = last.Format(models.DateLayout)
	if now.Format(models.PeriodLayout) == first.Format(models.PeriodLayout) {
		end = now.Format(models.DateLayout)
	}
	return start, end, nil
}

// CurrentPeriod returns the billing label for the month now falls in.
func CurrentPeriod(now time.Time) string {
	return now.Format(models.PeriodLayout)
}
