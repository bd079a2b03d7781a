package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"payroll/models"

	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "payroll.db"), logger.Silent)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db)
}

func addEvent(t *testing.T, s *Store, employeeID string, kind models.EventKind, when string) models.ClockEvent {
	t.Helper()
	at, err := time.Parse("2006-01-02 15:04", when)
	if err != nil {
		t.Fatal(err)
	}
	e := models.NewClockEvent(employeeID, "", kind, at, time.UTC)
	if err := s.AddEvent(context.Background(), &e); err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	return e
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open("oracle", "x", logger.Silent); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"off":    logger.Silent,
		"error":  logger.Error,
		"info":   logger.Info,
		"":       logger.Warn,
		"warn":   logger.Warn,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStore_Events(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := addEvent(t, s, "emp", models.KindArrival, "2025-10-01 08:00")
	addEvent(t, s, "emp", models.KindDeparture, "2025-10-01 17:00")
	addEvent(t, s, "other", models.KindArrival, "2025-10-15 09:00")
	addEvent(t, s, "emp", models.KindArrival, "2025-11-01 08:00")

	if first.ID == "" {
		t.Fatal("AddEvent should assign an id")
	}

	events, err := s.EventsForPeriod(ctx, "2025-10-01", "2025-10-31")
	if err != nil {
		t.Fatalf("EventsForPeriod: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events in October, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i-1].Timestamp < events[i].Timestamp {
			t.Errorf("events not ordered newest first: %d before %d", events[i-1].Timestamp, events[i].Timestamp)
		}
	}

	own, err := s.EmployeeEvents(ctx, "emp", "2025-10-01", "2025-10-31")
	if err != nil {
		t.Fatalf("EmployeeEvents: %v", err)
	}
	if len(own) != 2 || own[0].ID != first.ID {
		t.Errorf("unexpected employee events %+v", own)
	}
}

func TestStore_LastEventOn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	last, err := s.LastEventOn(ctx, "emp", "2025-10-01")
	if err != nil {
		t.Fatalf("LastEventOn: %v", err)
	}
	if last != nil {
		t.Fatalf("expected no event, got %+v", last)
	}

	addEvent(t, s, "emp", models.KindArrival, "2025-10-01 08:00")
	addEvent(t, s, "emp", models.KindDeparture, "2025-10-01 12:00")
	addEvent(t, s, "emp", models.KindArrival, "2025-10-02 08:00")

	last, err = s.LastEventOn(ctx, "emp", "2025-10-01")
	if err != nil {
		t.Fatalf("LastEventOn: %v", err)
	}
	if last == nil || last.Kind != models.KindDeparture {
		t.Errorf("expected the departure, got %+v", last)
	}
}

func TestStore_DeleteEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	addEvent(t, s, "emp", models.KindArrival, "2025-10-01 08:00")
	addEvent(t, s, "emp", models.KindDeparture, "2025-10-31 17:00")
	addEvent(t, s, "other", models.KindArrival, "2025-10-10 08:00")
	addEvent(t, s, "emp", models.KindArrival, "2025-11-01 08:00")

	n, err := s.DeleteEvents(ctx, "emp", "2025-10-01", "2025-10-31")
	if err != nil {
		t.Fatalf("DeleteEvents: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}

	own, _ := s.EmployeeEvents(ctx, "emp", "2025-10-01", "2025-10-31")
	if len(own) != 0 {
		t.Errorf("expected no events left for emp in October, got %d", len(own))
	}
	all, _ := s.EventsForPeriod(ctx, "2025-01-01", "2025-12-31")
	if len(all) != 2 {
		t.Errorf("expected 2 events to survive, got %d", len(all))
	}
}

func TestStore_PayrollRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hours := 9.0
	salary := models.PayrollRecord{EmployeeID: "emp", Kind: models.KindSalary, Amount: 135, HoursWorked: &hours, Period: "2025-10", ComputedAt: 2000}
	fee := models.PayrollRecord{EmployeeID: "stu", Kind: models.KindFee, Amount: 300, Period: "2025-10", ComputedAt: 1000}
	for _, r := range []*models.PayrollRecord{&salary, &fee} {
		if err := s.AddPayrollRecord(ctx, r); err != nil {
			t.Fatalf("AddPayrollRecord: %v", err)
		}
	}

	got, err := s.PayrollRecordByID(ctx, salary.ID)
	if err != nil || got == nil {
		t.Fatalf("PayrollRecordByID = %v, %v", got, err)
	}
	if got.HoursWorked == nil || *got.HoursWorked != 9 || got.Synced {
		t.Errorf("unexpected stored record %+v", got)
	}
	if missing, err := s.PayrollRecordByID(ctx, "nope"); err != nil || missing != nil {
		t.Errorf("PayrollRecordByID(nope) = %v, %v; want nil, nil", missing, err)
	}

	pending, err := s.UnsyncedPayrollRecords(ctx)
	if err != nil || len(pending) != 2 {
		t.Fatalf("UnsyncedPayrollRecords = %d, %v; want 2", len(pending), err)
	}

	for i := 0; i < 2; i++ {
		if err := s.MarkSynced(ctx, salary.ID); err != nil {
			t.Fatalf("MarkSynced #%d: %v", i+1, err)
		}
	}
	if err := s.MarkSynced(ctx, "unknown"); err != nil {
		t.Errorf("MarkSynced on a missing record should be a no-op, got %v", err)
	}
	pending, _ = s.UnsyncedPayrollRecords(ctx)
	if len(pending) != 1 || pending[0].ID != fee.ID {
		t.Errorf("expected only the fee pending, got %+v", pending)
	}

	list, err := s.PayrollRecords(ctx, models.PayrollFilter{Period: "2025-10"})
	if err != nil || len(list) != 2 {
		t.Fatalf("PayrollRecords = %d, %v", len(list), err)
	}
	if list[0].ID != salary.ID {
		t.Errorf("records should be newest first")
	}
	list, _ = s.PayrollRecords(ctx, models.PayrollFilter{Kind: models.KindFee})
	if len(list) != 1 || list[0].EmployeeID != "stu" {
		t.Errorf("kind filter returned %+v", list)
	}
	list, _ = s.PayrollRecords(ctx, models.PayrollFilter{EmployeeID: "emp", Period: "2025-09"})
	if len(list) != 0 {
		t.Errorf("expected no records for 2025-09, got %d", len(list))
	}
}

func TestStore_SavePayrollRecordUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := models.PayrollRecord{ID: "fixed-id", EmployeeID: "emp", Kind: models.KindSalary, Amount: 10, Period: "2025-10"}
	if err := s.SavePayrollRecord(ctx, &r); err != nil {
		t.Fatalf("insert: %v", err)
	}
	r.Amount = 12
	r.Synced = true
	if err := s.SavePayrollRecord(ctx, &r); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.PayrollRecordByID(ctx, "fixed-id")
	if got == nil || got.Amount != 12 || !got.Synced {
		t.Errorf("expected updated record, got %+v", got)
	}
	all, _ := s.PayrollRecords(ctx, models.PayrollFilter{})
	if len(all) != 1 {
		t.Errorf("expected a single record, got %d", len(all))
	}
}

func TestStore_Employees(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rate := 18.5
	alice := models.Employee{FirstName: "Alice", LastName: "Martin", Type: models.TypeEmployee, HourlyRate: &rate}
	bob := models.Employee{FirstName: "Bob", LastName: "Adams", Type: models.TypeStudent}
	for _, e := range []*models.Employee{&alice, &bob} {
		if err := s.CreateEmployee(ctx, e); err != nil {
			t.Fatalf("CreateEmployee: %v", err)
		}
	}
	if alice.ID == "" {
		t.Fatal("CreateEmployee should assign an id")
	}

	got, err := s.GetByID(ctx, alice.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID = %v, %v", got, err)
	}
	if got.HourlyRate == nil || *got.HourlyRate != 18.5 || !got.Active {
		t.Errorf("hourly rate not stored: %+v", got)
	}
	if missing, err := s.GetByID(ctx, "ghost"); err != nil || missing != nil {
		t.Errorf("GetByID(ghost) = %v, %v; want nil, nil", missing, err)
	}

	stored, _ := s.GetByID(ctx, bob.ID)
	stored.Active = false
	if err := s.UpdateEmployee(ctx, stored); err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	active, err := s.ListEmployees(ctx, true)
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(active) != 1 || active[0].ID != alice.ID {
		t.Errorf("expected only Alice active, got %+v", active)
	}
	all, _ := s.ListEmployees(ctx, false)
	if len(all) != 2 || all[0].LastName != "Adams" {
		t.Errorf("expected both ordered by last name, got %+v", all)
	}

	deleted, err := s.DeleteEmployee(ctx, bob.ID)
	if err != nil || !deleted {
		t.Errorf("DeleteEmployee = %v, %v", deleted, err)
	}
	deleted, err = s.DeleteEmployee(ctx, bob.ID)
	if err != nil || deleted {
		t.Errorf("second DeleteEmployee = %v, %v; want false, nil", deleted, err)
	}
}
