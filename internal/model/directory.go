package model

import "time"

// Employee is the directory entry attendance rows resolve against.
// Code is the fingerprint-device identifier appearing in exports;
// BayzatEmployeeID is the identifier the Bayzat API knows the person by.
type Employee struct {
	ID               int64     `json:"id" db:"id"`
	CompanyID        int64     `json:"company_id" db:"company_id"`
	Code             string    `json:"code" db:"code"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	BayzatEmployeeID string    `json:"bayzat_employee_id" db:"bayzat_employee_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// DepartmentMapping maps a department label as it appears in exports to
// the company that owns it.
type DepartmentMapping struct {
	ID        int64     `json:"id" db:"id"`
	CompanyID int64     `json:"company_id" db:"company_id"`
	Label     string    `json:"label" db:"label"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
