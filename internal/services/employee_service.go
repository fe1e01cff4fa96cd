package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/models"
)

type EmployeeService struct {
	Repo       EmployeeStore
	JWTManager *auth.JWTManager
}

func NewEmployeeService(repo EmployeeStore, jwtManager *auth.JWTManager) *EmployeeService {
	return &EmployeeService{
		Repo:       repo,
		JWTManager: jwtManager,
	}
}

// Login authenticates an employee and returns a JWT token
func (s *EmployeeService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	emp, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidLogin
	}
	if !auth.VerifyPassword(emp.PasswordHash, req.Password) {
		return nil, ErrInvalidLogin
	}
	if !emp.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := s.JWTManager.GenerateToken(emp)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Employee: emp}, nil
}

// Create adds an employee to the actor's organisation
func (s *EmployeeService) Create(ctx context.Context, orgID int, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	role, err := normalizeRole(req.Role)
	if err != nil {
		return nil, err
	}
	if existing, _ := s.Repo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, ErrDuplicateEmail
	}
	if err := s.checkMentor(ctx, orgID, req.MentorID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	emp := &models.Employee{
		OrganizationID: orgID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Designation:    req.Designation,
		PasswordHash:   hash,
		Role:           role,
		MentorID:       req.MentorID,
	}
	if err := s.Repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	log.Printf("[Employees] Created %s (%s) in organization %d", emp.Email, emp.Role, orgID)
	return emp, nil
}

// Get returns an employee of the organisation
func (s *EmployeeService) Get(ctx context.Context, orgID, id int) (*models.Employee, error) {
	emp, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	return emp, nil
}

func (s *EmployeeService) List(ctx context.Context, orgID int) ([]*models.Employee, error) {
	return s.Repo.List(ctx, orgID)
}

// Mentees returns the employees mentored by mentorID
func (s *EmployeeService) Mentees(ctx context.Context, mentorID int) ([]*models.Employee, error) {
	return s.Repo.ListMentees(ctx, mentorID)
}

// Update updates an employee; an empty password keeps the current one
func (s *EmployeeService) Update(ctx context.Context, orgID, id int, req *models.UpdateEmployeeRequest) (*models.Employee, error) {
	emp, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" || strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	role, err := normalizeRole(req.Role)
	if err != nil {
		return nil, err
	}
	if req.MentorID != nil && *req.MentorID == id {
		return nil, fmt.Errorf("%w: an employee cannot mentor themselves", ErrInvalidInput)
	}
	if err := s.checkMentor(ctx, orgID, req.MentorID); err != nil {
		return nil, err
	}

	emp.Name = req.Name
	emp.Email = strings.TrimSpace(req.Email)
	emp.Phone = req.Phone
	emp.Designation = req.Designation
	emp.Role = role
	emp.MentorID = req.MentorID
	emp.PasswordHash = ""
	if req.Password != "" {
		if err := auth.ValidatePassword(req.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if emp.PasswordHash, err = auth.HashPassword(req.Password); err != nil {
			return nil, err
		}
	}
	if err := s.Repo.Update(ctx, emp); err != nil {
		return nil, err
	}
	emp.PasswordHash = ""
	return emp, nil
}

// SetActive pauses or resumes an account. Admins cannot pause themselves.
func (s *EmployeeService) SetActive(ctx context.Context, actor *auth.Claims, id int, active bool) error {
	if !active && actor.EmployeeID == id {
		return fmt.Errorf("%w: you cannot pause your own account", ErrInvalidInput)
	}
	return s.Repo.SetActive(ctx, actor.OrganizationID, id, active)
}

// UpdateProfile changes the caller's own name and phone
func (s *EmployeeService) UpdateProfile(ctx context.Context, id int, req *models.UpdateProfileRequest) (*models.Employee, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.Repo.UpdateProfile(ctx, id, strings.TrimSpace(req.Name), req.Phone); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, id)
}

// EnsureAdmin creates the bootstrap administrator if the email is not taken
func (s *EmployeeService) EnsureAdmin(ctx context.Context, orgID int, name, email, password string) (*models.Employee, error) {
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.Create(ctx, orgID, &models.CreateEmployeeRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
}

func (s *EmployeeService) checkMentor(ctx context.Context, orgID int, mentorID *int) error {
	if mentorID == nil {
		return nil
	}
	if _, err := s.Get(ctx, orgID, *mentorID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: mentor %d not found", ErrInvalidInput, *mentorID)
		}
		return err
	}
	return nil
}

func normalizeRole(role string) (string, error) {
	switch role {
	case "":
		return models.RoleEmployee, nil
	case models.RoleAdmin, models.RoleEmployee:
		return role, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
}
