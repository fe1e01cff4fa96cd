package testutil

import (
	"context"
	"testing"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/config"
	"timesheet-backend/internal/handlers"
	"timesheet-backend/internal/health"
	apphttp "timesheet-backend/internal/http"
	"timesheet-backend/internal/middleware"
	"timesheet-backend/internal/notify"
	"timesheet-backend/internal/services"

	"github.com/gorilla/mux"
)

type pinger struct{}

func (pinger) Ping(ctx context.Context) error { return nil }

// API is the full router over a Fixture's in-memory stores
type API struct {
	Router    *mux.Router
	JWT       *auth.JWTManager
	Employees *services.EmployeeService
	Slips     *Slips
}

func NewAPI(f *Fixture) *API {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1

	jwt := auth.NewJWTManager(cfg)
	emps := services.NewEmployeeService(f.Employees, jwt)
	projects := services.NewProjectService(f.Projects, f.Employees, &Invalidations{}, f.Notify)
	slips := &Slips{}
	slipService := services.NewSalarySlipService(slips, f.Employees, f.Service, &Archive{}, f.Notify, "Acme", 1)

	router := apphttp.NewRouter(
		handlers.NewAuthHandler(emps),
		handlers.NewEmployeeHandler(emps),
		handlers.NewProjectHandler(projects),
		handlers.NewTimesheetHandler(f.Service, services.NewReportService(f.Service)),
		handlers.NewSalarySlipHandler(slipService),
		handlers.NewNotificationHandler(f.Notify, notify.NewHub()),
		handlers.NewHealthHandler(health.NewHealthChecker(pinger{}, nil)),
		middleware.NewAuthMiddleware(jwt, f.Employees),
	)
	return &API{Router: router, JWT: jwt, Employees: emps, Slips: slips}
}

// Token signs a token for a fixture employee
func (a *API) Token(t testing.TB, f *Fixture, employeeID int) string {
	t.Helper()
	emp, err := f.Employees.Get(context.Background(), employeeID)
	if err != nil {
		t.Fatal(err)
	}
	token, err := a.JWT.GenerateToken(emp)
	if err != nil {
		t.Fatal(err)
	}
	return token
}
