package ledger

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"payroll/models"
)

// RecordStore is the local-first persistence the ledger reads events from
// and writes payroll records to. Dates are models.DateLayout strings and
// ranges are inclusive.
type RecordStore interface {
	EventsForPeriod(ctx context.Context, start, end string) ([]models.ClockEvent, error)
	// LastEventOn returns nil when the employee has no event on date.
	LastEventOn(ctx context.Context, employeeID, date string) (*models.ClockEvent, error)
	AddEvent(ctx context.Context, event *models.ClockEvent) error
	DeleteEvents(ctx context.Context, employeeID, start, end string) (int64, error)

	AddPayrollRecord(ctx context.Context, record *models.PayrollRecord) error
	// PayrollRecordByID returns nil when no record has id.
	PayrollRecordByID(ctx context.Context, id string) (*models.PayrollRecord, error)
	SavePayrollRecord(ctx context.Context, record *models.PayrollRecord) error
	UnsyncedPayrollRecords(ctx context.Context) ([]models.PayrollRecord, error)
	MarkSynced(ctx context.Context, id string) error
}

type EmployeeDirectory interface {
	// GetByID returns nil when no employee has id.
	GetByID(ctx context.Context, id string) (*models.Employee, error)
}

// PayrollSyncClient pushes records to the remote backend.
type PayrollSyncClient interface {
	Push(ctx context.Context, record models.PayrollRecord) error
	FetchHistory(ctx context.Context) ([]models.PayrollRecord, error)
}

type Notifier interface {
	NotifyPayroll(ctx context.Context, emp *models.Employee, record models.PayrollRecord) error
}

type Option func(*Ledger)

// WithLocation sets the zone calendar dates and periods are computed in.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithFallbackRate(rate float64) Option {
	return func(l *Ledger) {
		if rate > 0 {
			l.fallbackRate = rate
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

func WithSyncTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.syncTimeout = d
		}
	}
}

// Ledger reconciles attendance into payroll. Runs and resets for the same
// employee are serialized; different employees proceed independently.
type Ledger struct {
	store     RecordStore
	directory EmployeeDirectory
	client    PayrollSyncClient
	notifier  Notifier

	loc          *time.Location
	now          func() time.Time
	fallbackRate float64
	syncTimeout  time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	background sync.WaitGroup
}

// New builds a ledger. client may be nil, in which case records stay
// unsynced until SyncPending is run with a client configured.
func New(store RecordStore, directory EmployeeDirectory, client PayrollSyncClient, opts ...Option) *Ledger {
	l := &Ledger{
		store:        store,
		directory:    directory,
		client:       client,
		loc:          time.Local,
		now:          time.Now,
		fallbackRate: DefaultHourlyRate,
		syncTimeout:  15 * time.Second,
		locks:        make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) employeeLock(employeeID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[employeeID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[employeeID] = m
	}
	return m
}

func (l *Ledger) today() time.Time {
	return l.now().In(l.loc)
}

// PayrollResult describes a completed payroll run.
type PayrollResult struct {
	Record      models.PayrollRecord `json:"record"`
	Start       string               `json:"start,omitempty"`
	End         string               `json:"end,omitempty"`
	Rate        float64              `json:"rate,omitempty"`
	Sessions    int                  `json:"sessions"`
	Anomalies   int                  `json:"anomalies"`
	EventsReset int64                `json:"events_reset"`
}

// RunPayroll computes and records the employee's pay for period.
//
// Hourly employees are paid for the reconciled hours in the period's bounds,
// after which the consumed events are deleted. The record is always
// persisted before the reset. If the reset fails the result is still
// returned together with ErrResetFailed. Fee employees get a flat fee record
// and their events are left alone.
func (l *Ledger) RunPayroll(ctx context.Context, employeeID, period string) (*PayrollResult, error) {
	if _, err := ParsePeriod(period); err != nil {
		return nil, err
	}
	emp, err := l.employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	lock := l.employeeLock(emp.ID)
	lock.Lock()
	defer lock.Unlock()

	if !emp.IsHourly() {
		return l.recordFee(ctx, emp, period)
	}

	start, end, err := DeterminePeriodBounds(period, l.today())
	if err != nil {
		return nil, err
	}
	events, err := l.store.EventsForPeriod(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("load events %s..%s: %w", start, end, err)
	}
	own := 0
	for _, e := range events {
		if e.EmployeeID == emp.ID {
			own++
		}
	}
	if own == 0 {
		return nil, fmt.Errorf("%w: %s %s..%s", ErrNoEvents, emp.ID, start, end)
	}

	rec := Reconcile(events, emp.ID)
	logAnomalies(emp.ID, rec.Anomalies)

	amount, err := ComputeSalary(emp, rec.TotalHours, l.fallbackRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoBillableHours, err)
	}
	hours := rec.TotalHours
	record := models.PayrollRecord{
		EmployeeID:   emp.ID,
		EmployeeName: emp.DisplayName(),
		Kind:         models.KindSalary,
		Amount:       amount,
		HoursWorked:  &hours,
		Period:       period,
		ComputedAt:   l.now().UnixMilli(),
	}
	if err := l.store.AddPayrollRecord(ctx, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	log.Printf("Salary recorded for %s (%s): %.2f h, %.2f", emp.ID, period, hours, amount)

	result := &PayrollResult{
		Record:    record,
		Start:     start,
		End:       end,
		Rate:      HourlyRate(emp, l.fallbackRate),
		Sessions:  len(rec.Sessions),
		Anomalies: len(rec.Anomalies),
	}

	l.afterRecord(emp, record)

	// Never reset before the record is stored.
	n, err := l.store.DeleteEvents(ctx, emp.ID, start, end)
	if err != nil {
		log.Printf("Reset of events for %s %s..%s failed: %v", emp.ID, start, end, err)
		return result, fmt.Errorf("%w: %v", ErrResetFailed, err)
	}
	result.EventsReset = n
	return result, nil
}

func (l *Ledger) recordFee(ctx context.Context, emp *models.Employee, period string) (*PayrollResult, error) {
	amount, err := ComputeFee(emp)
	if err != nil {
		return nil, err
	}
	record := models.PayrollRecord{
		EmployeeID:   emp.ID,
		EmployeeName: emp.DisplayName(),
		Kind:         models.KindFee,
		Amount:       amount,
		Period:       period,
		ComputedAt:   l.now().UnixMilli(),
	}
	if err := l.store.AddPayrollRecord(ctx, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	log.Printf("Fee recorded for %s (%s): %.2f", emp.ID, period, amount)
	l.afterRecord(emp, record)
	return &PayrollResult{Record: record}, nil
}

// HoursWorked previews the billable hours for period without recording
// anything.
func (l *Ledger) HoursWorked(ctx context.Context, employeeID, period string) (Reconciliation, error) {
	start, end, err := DeterminePeriodBounds(period, l.today())
	if err != nil {
		return Reconciliation{}, err
	}
	events, err := l.store.EventsForPeriod(ctx, start, end)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("load events %s..%s: %w", start, end, err)
	}
	return Reconcile(events, employeeID), nil
}

// ResetConsumedEvents deletes the employee's events dated start..end
// inclusive. It must only follow a durably persisted payroll record.
func (l *Ledger) ResetConsumedEvents(ctx context.Context, employeeID, start, end string) (int64, error) {
	lock := l.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	n, err := l.store.DeleteEvents(ctx, employeeID, start, end)
	if err != nil {
		return 0, err
	}
	log.Printf("Reset %d events for %s %s..%s", n, employeeID, start, end)
	return n, nil
}

// RecordScan records a badge scan. Each calendar day starts with an arrival
// and alternates from there.
func (l *Ledger) RecordScan(ctx context.Context, employeeID string) (*models.ClockEvent, error) {
	emp, err := l.employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	lock := l.employeeLock(emp.ID)
	lock.Lock()
	defer lock.Unlock()

	now := l.now()
	date := now.In(l.loc).Format(models.DateLayout)
	last, err := l.store.LastEventOn(ctx, emp.ID, date)
	if err != nil {
		return nil, fmt.Errorf("load last event: %w", err)
	}

	event := models.NewClockEvent(emp.ID, emp.DisplayName(), ClassifyNextAttendanceKind(last), now, l.loc)
	if err := l.store.AddEvent(ctx, &event); err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}
	return &event, nil
}

func (l *Ledger) employee(ctx context.Context, employeeID string) (*models.Employee, error) {
	if employeeID == "" {
		return nil, fmt.Errorf("%w: empty id", ErrEmployeeNotFound)
	}
	emp, err := l.directory.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("lookup employee %s: %w", employeeID, err)
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
	}
	return emp, nil
}

func logAnomalies(employeeID string, anomalies []Anomaly) {
	for _, a := range anomalies {
		switch a.Kind {
		case AnomalyNegativeDuration, AnomalyOverlongSession:
			log.Printf("Attendance anomaly for %s: %s at %s (%.2f h)", employeeID, a.Kind, a.Event.CalendarDate, a.Hours)
		default:
			log.Printf("Attendance anomaly for %s: %s at %s", employeeID, a.Kind, a.Event.CalendarDate)
		}
	}
}
