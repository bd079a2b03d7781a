package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeType string

const (
	// TypeEmployee is paid by the hour from attendance events.
	TypeEmployee EmployeeType = "employee"
	// TypeStudent is charged a flat fee per period.
	TypeStudent EmployeeType = "student"
)

type Employee struct {
	ID         string       `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	FirstName  string       `gorm:"not null;size:100" json:"first_name"`
	LastName   string       `gorm:"size:100" json:"last_name"`
	Email      string       `gorm:"size:200" json:"email"`
	Phone      string       `gorm:"size:50" json:"phone"`
	Profession string       `gorm:"size:100" json:"profession"`
	Type       EmployeeType `gorm:"not null;size:20;default:employee" json:"type"`
	HourlyRate *float64     `json:"hourly_rate"`
	FixedFee   *float64     `json:"fixed_fee"`
	Active     bool         `gorm:"default:true" json:"is_active"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (e *Employee) DisplayName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.ID
	}
	return name
}

// IsHourly reports whether the employee is paid from attendance hours
// rather than charged a fixed fee.
func (e *Employee) IsHourly() bool {
	return e.Type != TypeStudent
}
