package model

import (
	"time"
)

// Role distinguishes students from administrators.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User represents an account. Students carry a generated numeric StudentID;
// admins carry an operator-assigned login ID in the same column.
type User struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	StudentID      *string   `json:"student_id,omitempty"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	IsPrimaryAdmin bool      `json:"is_primary_admin"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for student self-registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest accepts either an email address or a student/admin login ID
// in the login field.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AddAdminRequest is the payload for creating a new admin account.
type AddAdminRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	AdminID  string `json:"admin_id" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// ChangeCredentialsRequest rotates an admin's login ID and password.
type ChangeCredentialsRequest struct {
	OldAdminID      string `json:"old_admin_id" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
	NewAdminID      string `json:"new_admin_id" binding:"required,min=4,max=20"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}
