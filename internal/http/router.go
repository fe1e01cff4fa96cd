package http

import (
	"net/http"

	"timesheet-backend/internal/handlers"
	"timesheet-backend/internal/middleware"
	"timesheet-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	employeeHandler *handlers.EmployeeHandler,
	projectHandler *handlers.ProjectHandler,
	timesheetHandler *handlers.TimesheetHandler,
	salarySlipHandler *handlers.SalarySlipHandler,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger, middleware.MetricsMiddleware)

	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireRole(models.RoleAdmin)(h)
	}

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Self-service
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/me", authHandler.UpdateMe).Methods("PUT")
	api.HandleFunc("/me/mentees", authHandler.Mentees).Methods("GET")
	api.HandleFunc("/me/packages", projectHandler.MyPackages).Methods("GET")

	// Employees (admin)
	api.Handle("/employees", admin(employeeHandler.ListEmployees)).Methods("GET")
	api.Handle("/employees", admin(employeeHandler.CreateEmployee)).Methods("POST")
	api.Handle("/employees/{id:[0-9]+}", admin(employeeHandler.GetEmployee)).Methods("GET")
	api.Handle("/employees/{id:[0-9]+}", admin(employeeHandler.UpdateEmployee)).Methods("PUT")
	api.Handle("/employees/{id:[0-9]+}/active", admin(employeeHandler.SetActive)).Methods("PUT")

	// Timesheets - access to another employee is checked per request
	api.HandleFunc("/employees/{id:[0-9]+}/timesheets", timesheetHandler.Fetch).Methods("GET")
	api.HandleFunc("/employees/{id:[0-9]+}/timesheets", timesheetHandler.Submit).Methods("POST")
	api.HandleFunc("/employees/{id:[0-9]+}/timesheets/summary", timesheetHandler.Summary).Methods("GET")
	api.HandleFunc("/employees/{id:[0-9]+}/timesheets/export", timesheetHandler.Export).Methods("GET")
	api.Handle("/timesheets/pending", admin(timesheetHandler.Pending)).Methods("GET")
	api.Handle("/timesheets/review", admin(timesheetHandler.Review)).Methods("POST")

	// Packages & tasks (admin)
	api.Handle("/packages", admin(projectHandler.ListPackages)).Methods("GET")
	api.Handle("/packages", admin(projectHandler.CreatePackage)).Methods("POST")
	api.Handle("/packages/{id:[0-9]+}/tasks", admin(projectHandler.CreateTask)).Methods("POST")
	api.Handle("/packages/{id:[0-9]+}/assignments", admin(projectHandler.Assign)).Methods("POST")
	api.Handle("/packages/{id:[0-9]+}/assignments/{employeeId:[0-9]+}", admin(projectHandler.Unassign)).Methods("DELETE")

	// Salary slips
	api.Handle("/salary-slips/preview", admin(salarySlipHandler.Preview)).Methods("POST")
	api.Handle("/salary-slips", admin(salarySlipHandler.Issue)).Methods("POST")
	api.HandleFunc("/salary-slips/{id:[0-9]+}/pdf", salarySlipHandler.PDF).Methods("GET")
	api.HandleFunc("/employees/{id:[0-9]+}/salary-slips", salarySlipHandler.List).Methods("GET")

	// Notifications
	api.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	api.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods("PUT")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notificationHandler.MarkRead).Methods("PUT")
	r.Handle("/ws/notifications", authMiddleware.Authenticate(http.HandlerFunc(notificationHandler.WebSocket))).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
