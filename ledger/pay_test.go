package ledger

import (
	"errors"
	"testing"

	"payroll/models"
)

func ptr(f float64) *float64 { return &f }

func TestClassifyNextAttendanceKind(t *testing.T) {
	tests := []struct {
		name string
		last *models.ClockEvent
		want models.EventKind
	}{
		{"no event today", nil, models.KindArrival},
		{"after departure", &models.ClockEvent{Kind: models.KindDeparture}, models.KindArrival},
		{"after arrival", &models.ClockEvent{Kind: models.KindArrival}, models.KindDeparture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyNextAttendanceKind(tt.last); got != tt.want {
				t.Errorf("ClassifyNextAttendanceKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComputeSalary(t *testing.T) {
	got, err := ComputeSalary(&models.Employee{HourlyRate: ptr(15.0)}, 9.0, DefaultHourlyRate)
	if err != nil {
		t.Fatalf("ComputeSalary: %v", err)
	}
	if got != 135.0 {
		t.Errorf("ComputeSalary = %v, want 135", got)
	}

	got, err = ComputeSalary(&models.Employee{}, 9.0, DefaultHourlyRate)
	if err != nil {
		t.Fatalf("ComputeSalary with fallback: %v", err)
	}
	if got != 135.0 {
		t.Errorf("ComputeSalary with fallback = %v, want 135", got)
	}

	got, err = ComputeSalary(&models.Employee{HourlyRate: ptr(20)}, 2.5, DefaultHourlyRate)
	if err != nil || got != 50 {
		t.Errorf("ComputeSalary = %v, %v; want 50, nil", got, err)
	}
}

func TestComputeSalary_RejectsNonPositive(t *testing.T) {
	cases := []struct {
		name  string
		emp   models.Employee
		hours float64
	}{
		{"zero hours", models.Employee{HourlyRate: ptr(15)}, 0},
		{"zero rate", models.Employee{HourlyRate: ptr(0)}, 8},
		{"negative rate", models.Employee{HourlyRate: ptr(-3)}, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ComputeSalary(&tc.emp, tc.hours, DefaultHourlyRate); !errors.Is(err, ErrNonPositiveAmount) {
				t.Errorf("error = %v, want ErrNonPositiveAmount", err)
			}
		})
	}
}

func TestComputeFee(t *testing.T) {
	got, err := ComputeFee(&models.Employee{Type: models.TypeStudent, FixedFee: ptr(250000)})
	if err != nil {
		t.Fatalf("ComputeFee: %v", err)
	}
	if got != 250000 {
		t.Errorf("ComputeFee = %v, want 250000", got)
	}

	for _, fee := range []*float64{nil, ptr(0), ptr(-10)} {
		if _, err := ComputeFee(&models.Employee{FixedFee: fee}); !errors.Is(err, ErrNonPositiveAmount) {
			t.Errorf("ComputeFee(%v) error = %v, want ErrNonPositiveAmount", fee, err)
		}
	}
}
