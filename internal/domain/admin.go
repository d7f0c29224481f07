package domain

import "time"

// Admin account holder (admins table). One admin owns N portadores.
type Admin struct {
	Record
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Email                string     `json:"email"`
	EmailVerifiedAt      *time.Time `json:"email_verified_at,omitempty"`
	PasswordHash         string     `json:"password_hash,omitempty"`
	Status               string     `json:"status"` // active | suspended | deleted
	LastLoginAt          *time.Time `json:"last_login_at,omitempty"`
	Country              string     `json:"country"`
	Phone                *string    `json:"phone,omitempty"`
	Language             string     `json:"language"`
	LastPasswordChangeAt *time.Time `json:"last_password_change_at,omitempty"`
}

const (
	AdminStatusActive    = "active"
	AdminStatusSuspended = "suspended"
	AdminStatusDeleted   = "deleted"
)

// Public copy without the password hash, for API responses.
func (a Admin) Public() Admin {
	a.PasswordHash = ""
	return a
}
