package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventKind string

const (
	KindArrival   EventKind = "arrival"
	KindDeparture EventKind = "departure"
	KindUnknown   EventKind = ""
)

// DateLayout is the calendar date format events are keyed by.
const DateLayout = "2006-01-02"

// ParseEventKind accepts the canonical kinds and the legacy scanner values
// ("arrivee", "sortie"), ignoring case.
func ParseEventKind(s string) EventKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "arrival", "arrivee":
		return KindArrival
	case "departure", "sortie":
		return KindDeparture
	}
	return KindUnknown
}

// ClockEvent is a single arrival or departure scan for an employee.
type ClockEvent struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt    time.Time `json:"-"`
	EmployeeID   string    `gorm:"not null;size:64;index:idx_clock_events_employee_date" json:"employee_id"`
	EmployeeName string    `gorm:"size:200" json:"employee_name"`
	Kind         EventKind `gorm:"not null;size:20" json:"type"`
	Timestamp    int64     `gorm:"not null;index" json:"timestamp"`
	CalendarDate string    `gorm:"not null;size:10;index:idx_clock_events_employee_date" json:"date"`
}

// NewClockEvent stamps an event at the given instant. The calendar date is
// derived from the instant in loc and is authoritative from then on.
func NewClockEvent(employeeID, employeeName string, kind EventKind, at time.Time, loc *time.Location) ClockEvent {
	if loc == nil {
		loc = time.Local
	}
	return ClockEvent{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Kind:         kind,
		Timestamp:    at.UnixMilli(),
		CalendarDate: at.In(loc).Format(DateLayout),
	}
}

func (e *ClockEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (e *ClockEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

func (e *ClockEvent) IsArrival() bool {
	return e.Kind == KindArrival
}

func (e *ClockEvent) IsDeparture() bool {
	return e.Kind == KindDeparture
}
