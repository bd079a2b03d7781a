package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"payroll/config"
	"payroll/database"
	"payroll/export"
	"payroll/ledger"
	"payroll/models"
)

type PayrollHandler struct {
	config *config.Config
	ledger *ledger.Ledger
	store  *database.Store
}

func NewPayrollHandler(cfg *config.Config, l *ledger.Ledger, store *database.Store) *PayrollHandler {
	return &PayrollHandler{
		config: cfg,
		ledger: l,
		store:  store,
	}
}

// Hours previews billable hours for an employee and period.
func (h *PayrollHandler) Hours(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	period := r.URL.Query().Get("period")
	if employeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required")
		return
	}
	if period == "" {
		period = ledger.CurrentPeriod(time.Now().In(h.config.Location))
	}

	rec, err := h.ledger.HoursWorked(r.Context(), employeeID, period)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	anomalies := make([]map[string]interface{}, 0, len(rec.Anomalies))
	for _, a := range rec.Anomalies {
		anomalies = append(anomalies, map[string]interface{}{
			"kind":     a.Kind,
			"event_id": a.Event.ID,
			"date":     a.Event.CalendarDate,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"employee_id":  employeeID,
		"period":       period,
		"hours_worked": rec.TotalHours,
		"sessions":     len(rec.Sessions),
		"anomalies":    anomalies,
	})
}

type runRequest struct {
	EmployeeID string `json:"employee_id"`
	Period     string `json:"period"`
}

func (h *PayrollHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.ledger.RunPayroll(r.Context(), req.EmployeeID, req.Period)
	if err != nil && !errors.Is(err, ledger.ErrResetFailed) {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := map[string]interface{}{
		"success": true,
		"result":  result,
	}
	if err != nil {
		resp["warning"] = err.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *PayrollHandler) Sync(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.SyncPending(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

func (h *PayrollHandler) Pull(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.PullHistory(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  report,
	})
}

func (h *PayrollHandler) Export(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period != "" {
		if _, err := ledger.ParsePeriod(period); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid period")
			return
		}
	}

	records, err := h.store.PayrollRecords(r.Context(), models.PayrollFilter{Period: period})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payroll records")
		return
	}

	name := "payroll_all"
	if period != "" {
		name = "payroll_" + period
	}

	switch r.URL.Query().Get("format") {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))
		err = export.WriteCSV(w, records)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", name))
		err = export.WriteXLSX(w, records)
	default:
		writeError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}
	if err != nil {
		log.Printf("Failed to write %s export: %v", name, err)
	}
}
