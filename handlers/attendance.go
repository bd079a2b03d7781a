package handlers

import (
	"net/http"
	"time"

	"payroll/config"
	"payroll/database"
	"payroll/ledger"
	"payroll/models"
)

type AttendanceHandler struct {
	config *config.Config
	ledger *ledger.Ledger
	store  *database.Store
}

func NewAttendanceHandler(cfg *config.Config, l *ledger.Ledger, store *database.Store) *AttendanceHandler {
	return &AttendanceHandler{
		config: cfg,
		ledger: l,
		store:  store,
	}
}

type scanRequest struct {
	EmployeeID string `json:"employee_id"`
}

// Scan records the next arrival or departure for a scanned badge.
func (h *AttendanceHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(w, r, &req); err != nil || req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	event, err := h.ledger.RecordScan(r.Context(), req.EmployeeID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"event":   event,
	})
}

// List returns events between start and end (inclusive, yyyy-MM-dd),
// defaulting to today. With employee_id only that employee's events are
// returned, oldest first.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	today := time.Now().In(h.config.Location).Format(models.DateLayout)
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" {
		start = today
	}
	if end == "" {
		end = start
	}
	if !validDate(start) || !validDate(end) || end < start {
		writeError(w, http.StatusBadRequest, "Invalid date range")
		return
	}

	var (
		events []models.ClockEvent
		err    error
	)
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		events, err = h.store.EmployeeEvents(r.Context(), employeeID, start, end)
	} else {
		events, err = h.store.EventsForPeriod(r.Context(), start, end)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"start":   start,
		"end":     end,
		"events":  events,
	})
}

func validDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
