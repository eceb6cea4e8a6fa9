package users

import "time"

// Roles assignable to an account.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User is a cashier or admin account. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUserForm carries the employee add-form fields.
type CreateUserForm struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin cashier"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserForm carries the employee edit-form fields.
type UpdateUserForm struct {
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin cashier"`
	IsActive bool   `json:"is_active"`
}
