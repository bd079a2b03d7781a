package database

import (
	"context"
	"errors"

	"payroll/models"

	"gorm.io/gorm"
)

// GetByID returns nil, nil when the employee does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	var emp models.Employee
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&emp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := s.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var employees []models.Employee
	err := query.Order("last_name asc, first_name asc").Find(&employees).Error
	return employees, err
}

func (s *Store) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	return s.db.WithContext(ctx).Create(emp).Error
}

func (s *Store) UpdateEmployee(ctx context.Context, emp *models.Employee) error {
	return s.db.WithContext(ctx).Save(emp).Error
}

// DeleteEmployee removes the employee. Their events and payroll history are
// kept.
func (s *Store) DeleteEmployee(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Employee{})
	return result.RowsAffected > 0, result.Error
}
