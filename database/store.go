package database

import (
	"context"
	"errors"

	"payroll/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm-backed record store and employee directory.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// EventsForPeriod returns every employee's events dated start..end, newest
// first.
func (s *Store) EventsForPeriod(ctx context.Context, start, end string) ([]models.ClockEvent, error) {
	var events []models.ClockEvent
	err := s.db.WithContext(ctx).
		Where("calendar_date BETWEEN ? AND ?", start, end).
		Order("timestamp desc").
		Find(&events).Error
	return events, err
}

func (s *Store) EmployeeEvents(ctx context.Context, employeeID, start, end string) ([]models.ClockEvent, error) {
	var events []models.ClockEvent
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND calendar_date BETWEEN ? AND ?", employeeID, start, end).
		Order("timestamp asc").
		Find(&events).Error
	return events, err
}

func (s *Store) LastEventOn(ctx context.Context, employeeID, date string) (*models.ClockEvent, error) {
	var event models.ClockEvent
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND calendar_date = ?", employeeID, date).
		Order("timestamp desc").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Store) AddEvent(ctx context.Context, event *models.ClockEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

// DeleteEvents permanently removes the employee's events dated start..end.
func (s *Store) DeleteEvents(ctx context.Context, employeeID, start, end string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("employee_id = ? AND calendar_date BETWEEN ? AND ?", employeeID, start, end).
		Delete(&models.ClockEvent{})
	return result.RowsAffected, result.Error
}

func (s *Store) AddPayrollRecord(ctx context.Context, record *models.PayrollRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *Store) PayrollRecordByID(ctx context.Context, id string) (*models.PayrollRecord, error) {
	var record models.PayrollRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// SavePayrollRecord inserts the record or overwrites the one with its id.
func (s *Store) SavePayrollRecord(ctx context.Context, record *models.PayrollRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
}

func (s *Store) UnsyncedPayrollRecords(ctx context.Context) ([]models.PayrollRecord, error) {
	var records []models.PayrollRecord
	err := s.db.WithContext(ctx).
		Where("synced = ?", false).
		Order("computed_at desc").
		Find(&records).Error
	return records, err
}

// MarkSynced flags the record as acknowledged. Marking twice is harmless.
func (s *Store) MarkSynced(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.PayrollRecord{}).
		Where("id = ?", id).
		Update("synced", true).Error
}

func (s *Store) PayrollRecords(ctx context.Context, filter models.PayrollFilter) ([]models.PayrollRecord, error) {
	query := s.db.WithContext(ctx)
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Period != "" {
		query = query.Where("period = ?", filter.Period)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	var records []models.PayrollRecord
	err := query.Order("computed_at desc").Find(&records).Error
	return records, err
}
