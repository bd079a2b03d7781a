package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayrollKind string

const (
	KindSalary PayrollKind = "salary"
	KindFee    PayrollKind = "fee"
)

// PeriodLayout is the billing period label format.
const PeriodLayout = "2006-01"

// PayrollRecord is written once per computation. Only Synced changes after
// creation.
type PayrollRecord struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt    time.Time   `json:"-"`
	EmployeeID   string      `gorm:"not null;size:64;index" json:"employee_id"`
	EmployeeName string      `gorm:"size:200" json:"employee_name"`
	Kind         PayrollKind `gorm:"not null;size:20" json:"type"`
	Amount       float64     `gorm:"not null" json:"amount"`
	HoursWorked  *float64    `json:"hours_worked"`
	Period       string      `gorm:"not null;size:7;index" json:"period"`
	ComputedAt   int64       `gorm:"not null" json:"date"`
	Synced       bool        `gorm:"not null;default:false;index" json:"-"`
}

func (p *PayrollRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsValid reports whether the record may be persisted or accepted from the
// remote history.
func (p *PayrollRecord) IsValid() bool {
	return p.EmployeeID != "" && p.Amount > 0
}

type PayrollFilter struct {
	EmployeeID string
	Period     string
	Kind       PayrollKind
}
