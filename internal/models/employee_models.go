package models

import "time"

// Employee represents a member of staff. Employees double as login accounts:
// username/password_hash are the credentials checked at /login.
type Employee struct {
	ID             string     `json:"e_id" db:"e_id"`
	Name           string     `json:"e_name" db:"e_name" binding:"required"`
	Gender         *string    `json:"e_gender,omitempty" db:"e_gender"`
	CitizenID      string     `json:"e_citizen_id_card" db:"e_citizen_id_card"`
	Tel            *string    `json:"e_tel,omitempty" db:"e_tel"`
	Email          *string    `json:"e_email,omitempty" db:"e_email"`
	CitizenAddress *string    `json:"e_citizen_address,omitempty" db:"e_citizen_address"`
	Address        *string    `json:"e_address,omitempty" db:"e_address"`
	Position       string     `json:"position" db:"position"`
	Role           string     `json:"e_role" db:"e_role"`
	Username       string     `json:"username" db:"username"`
	PasswordHash   string     `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	IsActive       bool       `json:"is_active" db:"is_active"`
	SuspendedAt    *time.Time `json:"suspension_date,omitempty" db:"suspension_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
