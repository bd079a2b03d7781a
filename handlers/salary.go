package handlers

import (
	"net/http"

	"payroll/config"
	"payroll/database"
	"payroll/ledger"
	"payroll/models"
)

// SalaryHandler serves the backend side of payroll sync: devices push
// records here and pull the shared history back.
type SalaryHandler struct {
	config *config.Config
	store  *database.Store
}

func NewSalaryHandler(cfg *config.Config, store *database.Store) *SalaryHandler {
	return &SalaryHandler{
		config: cfg,
		store:  store,
	}
}

// Ingest stores a record pushed by a device. Records are keyed by id, so a
// repeated push overwrites instead of duplicating.
func (h *SalaryHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var record models.PayrollRecord
	if err := decodeJSON(w, r, &record); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !record.IsValid() {
		writeError(w, http.StatusUnprocessableEntity, "employee_id and a positive amount are required")
		return
	}
	if record.Kind != models.KindSalary && record.Kind != models.KindFee {
		writeError(w, http.StatusUnprocessableEntity, "type must be salary or fee")
		return
	}
	if _, err := ledger.ParsePeriod(record.Period); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid period")
		return
	}

	record.Synced = true
	if err := h.store.SavePayrollRecord(r.Context(), &record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save payroll record")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"status":  "success",
		"message": "Payroll record saved",
		"id":      record.ID,
	})
}

func (h *SalaryHandler) History(w http.ResponseWriter, r *http.Request) {
	filter := models.PayrollFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Period:     r.URL.Query().Get("period"),
		Kind:       models.PayrollKind(r.URL.Query().Get("type")),
	}
	records, err := h.store.PayrollRecords(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payroll history")
		return
	}
	if records == nil {
		records = []models.PayrollRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "",
		"salaries": records,
	})
}

func (h *SalaryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.PayrollRecords(r.Context(), models.PayrollFilter{
		Period: r.URL.Query().Get("period"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payroll records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": ledger.Summarize(records),
	})
}
