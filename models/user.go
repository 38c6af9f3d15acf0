package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleOfficial UserRole = "OFFICIAL"
	RoleScorer   UserRole = "SCORER"
	RoleUser     UserRole = "USER"
)

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	PhoneNumber  *string   `json:"phone_number,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	State        *string   `json:"state,omitempty"`
	City         *string   `json:"city,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
