package handlers

import (
	"net/http"

	"payroll/config"
	"payroll/database"
	"payroll/ledger"
	"payroll/middleware"
	"payroll/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg *config.Config, l *ledger.Ledger, store *database.Store) http.Handler {
	employeeHandler := NewEmployeeHandler(cfg, store)
	attendanceHandler := NewAttendanceHandler(cfg, l, store)
	payrollHandler := NewPayrollHandler(cfg, l, store)
	salaryHandler := NewSalaryHandler(cfg, store)

	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	})

	// Protected routes
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		// Scanners and admins
		r.Post("/pointages", attendanceHandler.Scan)

		// Admin only routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/pointages", attendanceHandler.List)

			r.Get("/employees", employeeHandler.List)
			r.Post("/employees", employeeHandler.Create)
			r.Get("/employees/{id}", employeeHandler.Get)
			r.Put("/employees/{id}", employeeHandler.Update)
			r.Delete("/employees/{id}", employeeHandler.Delete)

			r.Get("/payroll/hours", payrollHandler.Hours)
			r.Post("/payroll/run", payrollHandler.Run)
			r.Post("/payroll/sync", payrollHandler.Sync)
			r.Post("/payroll/pull", payrollHandler.Pull)
			r.Get("/payroll/export", payrollHandler.Export)

			r.Post("/salary", salaryHandler.Ingest)
			r.Get("/salary/history", salaryHandler.History)
			r.Get("/salary/summary", salaryHandler.Summary)
		})
	})

	return router
}
