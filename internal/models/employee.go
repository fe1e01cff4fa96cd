package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type Employee struct {
	ID             int       `json:"id"`
	OrganizationID int       `json:"organization_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Designation    string    `json:"designation"`
	PasswordHash   string    `json:"-"` // Never expose in JSON
	Role           string    `json:"role"` // admin or employee
	MentorID       *int      `json:"mentor_id,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token    string    `json:"token"`
	Employee *Employee `json:"employee"`
}

// CreateEmployeeRequest represents the request body for creating an employee
type CreateEmployeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	MentorID    *int   `json:"mentor_id,omitempty"`
}

// UpdateEmployeeRequest represents the request body for updating an employee
type UpdateEmployeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
	Password    string `json:"password,omitempty"` // Optional
	Role        string `json:"role"`
	MentorID    *int   `json:"mentor_id,omitempty"`
}

// UpdateProfileRequest is what an employee may change about themselves
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
