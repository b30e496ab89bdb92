package domain

import (
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleTrainer Role = "trainer"
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User represents an account in the system (Trainer, Student or Admin).
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"` // Unique across all roles
	PasswordHash  string    `json:"-"`     // Never expose this via JSON
	Role          Role      `json:"role"`
	Avatar        string    `json:"avatar"`
	Phone         *string   `json:"phone,omitempty"`
	Cref          *string   `json:"cref,omitempty"` // Trainer license id, trainers only
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`

	// Tokens for the verification / password-reset flows. Kept out of JSON.
	VerificationToken *string    `json:"-"`
	ResetToken        *string    `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`

	// --- Student-specific ---
	// The trainer this student is linked to. Nil for trainers/admins or
	// unassigned students.
	TrainerID *string `json:"trainerId,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
