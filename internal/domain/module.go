package domain

import "time"

// Module is a functional area of the application. Access is granted per user
// through ModuleUser assignments; the module name doubles as a permission
// identifier.
type Module struct {
	ID             int32      `json:"id"`
	BusinessUnitID int32      `json:"business_unit_id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

// ModuleUser links a user email to a module.
type ModuleUser struct {
	ID        int32      `json:"id"`
	UserEmail string     `json:"user_email"`
	ModuleID  int32      `json:"module_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
