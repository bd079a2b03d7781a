package ledger

import (
	"cmp"
	"slices"

	"payroll/models"
)

// MaxSessionHours is the longest arrival-to-departure span counted as work.
const MaxSessionHours = 24.0

const millisPerHour = 3600000.0

type WorkSession struct {
	Arrival       models.ClockEvent
	Departure     models.ClockEvent
	DurationHours float64
}

type AnomalyKind string

const (
	// AnomalyReplacedArrival marks an arrival discarded because a later
	// arrival came before any departure.
	AnomalyReplacedArrival  AnomalyKind = "replaced_arrival"
	AnomalyOrphanDeparture  AnomalyKind = "orphan_departure"
	AnomalyNegativeDuration AnomalyKind = "negative_duration"
	AnomalyOverlongSession  AnomalyKind = "overlong_session"
	AnomalyTrailingArrival  AnomalyKind = "trailing_arrival"
	AnomalyUnknownKind      AnomalyKind = "unknown_kind"
)

type Anomaly struct {
	Kind  AnomalyKind
	Event models.ClockEvent
	// Hours is set for the duration anomalies.
	Hours float64
}

// Reconciliation is the outcome of pairing one employee's events.
type Reconciliation struct {
	Sessions   []WorkSession
	Anomalies  []Anomaly
	TotalHours float64
}

// Reconcile pairs the employee's arrivals and departures in timestamp order.
//
// A single open-arrival slot is kept. A second arrival before a departure
// overwrites the first (last arrival wins). A departure with no open arrival
// is ignored, as is any event of unknown kind. Sessions shorter than zero or
// longer than MaxSessionHours are left out of the total. An arrival still
// open at the end contributes nothing. The input slice is not modified.
func Reconcile(events []models.ClockEvent, employeeID string) Reconciliation {
	var own []models.ClockEvent
	for _, e := range events {
		if e.EmployeeID == employeeID {
			own = append(own, e)
		}
	}
	slices.SortStableFunc(own, func(a, b models.ClockEvent) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})

	var rec Reconciliation
	var open *models.ClockEvent

	for i := range own {
		e := own[i]
		switch e.Kind {
		case models.KindArrival:
			if open != nil {
				rec.Anomalies = append(rec.Anomalies, Anomaly{Kind: AnomalyReplacedArrival, Event: *open})
			}
			open = &own[i]
		case models.KindDeparture:
			if open == nil {
				rec.Anomalies = append(rec.Anomalies, Anomaly{Kind: AnomalyOrphanDeparture, Event: e})
				continue
			}
			hours := float64(e.Timestamp-open.Timestamp) / millisPerHour
			switch {
			case hours < 0:
				rec.Anomalies = append(rec.Anomalies, Anomaly{Kind: AnomalyNegativeDuration, Event: e, Hours: hours})
			case hours > MaxSessionHours:
				rec.Anomalies = append(rec.Anomalies, Anomaly{Kind: AnomalyOverlongSession, Event: e, Hours: hours})
			default:
				rec.Sessions = append(rec.Sessions, WorkSession{Arrival: *open, Departure: e, DurationHours: hours})
				rec.TotalHours += hours
			}
			open = nil
		default:
			rec.Anomalies = append(rec.Anomalies, Anomaly{Kind: AnomalyUnknownKind, Event: e})
		}
	}
	if open != nil {
		rec.Anomalies = append(rec.Anomalies, Anomaly{Kind: AnomalyTrailingArrival, Event: *open})
	}
	return rec
}

// ComputeHoursWorked returns the billable hours for employeeID in events.
func ComputeHoursWorked(events []models.ClockEvent, employeeID string) float64 {
	return Reconcile(events, employeeID).TotalHours
}
