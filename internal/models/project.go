package models

import "time"

// Package groups the tasks an employee logs time against
type Package struct {
	ID             int       `json:"id"`
	OrganizationID int       `json:"organization_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Tasks          []*Task   `json:"tasks,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Task struct {
	ID        int       `json:"id"`
	PackageID int       `json:"package_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePackageRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CreateTaskRequest struct {
	Title string `json:"title"`
}

type AssignPackageRequest struct {
	EmployeeID int `json:"employee_id"`
}
