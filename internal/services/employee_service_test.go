package services_test

import (
	"context"
	"errors"
	"testing"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/config"
	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/internal/testutil"
)

func newEmployeeService() (*services.EmployeeService, *testutil.Employees) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test"
	cfg.JWT.ExpirationHours = 1
	store := testutil.NewEmployees(
		&models.Employee{ID: 1, OrganizationID: 1, Name: "Asha", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true},
	)
	return services.NewEmployeeService(store, auth.NewJWTManager(cfg)), store
}

func TestCreateAndLogin(t *testing.T) {
	svc, _ := newEmployeeService()
	ctx := context.Background()

	emp, err := svc.Create(ctx, 1, &models.CreateEmployeeRequest{
		Name: "Ravi", Email: " ravi@example.com ", Password: "changeme1", MentorID: testutil.Intp(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if emp.Role != models.RoleEmployee || emp.Email != "ravi@example.com" || emp.PasswordHash == "changeme1" {
		t.Errorf("employee = %+v", emp)
	}

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "RAVI@example.com", Password: "changeme1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" || resp.Employee.ID != emp.ID {
		t.Errorf("resp = %+v", resp)
	}

	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "ravi@example.com", Password: "wrong"}); !errors.Is(err, services.ErrInvalidLogin) {
		t.Errorf("wrong password = %v", err)
	}

	if err := svc.SetActive(ctx, admin, emp.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "ravi@example.com", Password: "changeme1"}); !errors.Is(err, services.ErrAccountInactive) {
		t.Errorf("paused login = %v", err)
	}
}

func TestCreateRejections(t *testing.T) {
	svc, _ := newEmployeeService()
	ctx := context.Background()
	tests := []struct {
		name string
		req  models.CreateEmployeeRequest
		want error
	}{
		{"weak password", models.CreateEmployeeRequest{Name: "A", Email: "a@example.com", Password: "short"}, services.ErrInvalidInput},
		{"duplicate", models.CreateEmployeeRequest{Name: "A", Email: "admin@example.com", Password: "changeme1"}, services.ErrDuplicateEmail},
		{"bad role", models.CreateEmployeeRequest{Name: "A", Email: "b@example.com", Password: "changeme1", Role: "root"}, services.ErrInvalidInput},
		{"unknown mentor", models.CreateEmployeeRequest{Name: "A", Email: "c@example.com", Password: "changeme1", MentorID: testutil.Intp(99)}, services.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, 1, &tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Create = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetActiveSelf(t *testing.T) {
	svc, _ := newEmployeeService()
	if err := svc.SetActive(context.Background(), admin, 1, false); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("SetActive self = %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	svc, store := newEmployeeService()
	ctx := context.Background()

	existing, err := svc.EnsureAdmin(ctx, 1, "Asha", "admin@example.com", "changeme1")
	if err != nil || existing.ID != 1 {
		t.Fatalf("existing admin = %+v, %v", existing, err)
	}
	created, err := svc.EnsureAdmin(ctx, 1, "Root", "root@example.com", "changeme1")
	if err != nil {
		t.Fatal(err)
	}
	if created.Role != models.RoleAdmin || len(store.ByID) != 2 {
		t.Errorf("created = %+v", created)
	}
}

func TestGetOtherOrganisation(t *testing.T) {
	svc, _ := newEmployeeService()
	if _, err := svc.Get(context.Background(), 2, 1); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}
