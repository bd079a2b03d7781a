package handlers

import (
	"net/http"
	"strings"

	"payroll/config"
	"payroll/database"
	"payroll/models"

	"github.com/go-chi/chi/v5"
)

type EmployeeHandler struct {
	config *config.Config
	store  *database.Store
}

func NewEmployeeHandler(cfg *config.Config, store *database.Store) *EmployeeHandler {
	return &EmployeeHandler{
		config: cfg,
		store:  store,
	}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	employees, err := h.store.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employees")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"employees": employees,
	})
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	emp, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employee")
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found")
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var emp models.Employee
	if err := decodeJSON(w, r, &emp); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validateEmployee(&emp); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.store.CreateEmployee(r.Context(), &emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee")
		return
	}
	writeJSON(w, http.StatusCreated, emp)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load employee")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Employee not found")
		return
	}

	var emp models.Employee
	if err := decodeJSON(w, r, &emp); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	emp.ID = existing.ID
	emp.CreatedAt = existing.CreatedAt
	if msg := validateEmployee(&emp); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.store.UpdateEmployee(r.Context(), &emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update employee")
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeleteEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Employee not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateEmployee(emp *models.Employee) string {
	emp.FirstName = strings.TrimSpace(emp.FirstName)
	emp.LastName = strings.TrimSpace(emp.LastName)
	if emp.FirstName == "" {
		return "first_name is required"
	}
	switch emp.Type {
	case "":
		emp.Type = models.TypeEmployee
	case models.TypeEmployee, models.TypeStudent:
	default:
		return "type must be employee or student"
	}
	if emp.HourlyRate != nil && *emp.HourlyRate < 0 {
		return "hourly_rate must not be negative"
	}
	if emp.FixedFee != nil && *emp.FixedFee < 0 {
		return "fixed_fee must not be negative"
	}
	return ""
}
