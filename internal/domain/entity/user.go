package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleClerk = "clerk"
)

// User cuenta de acceso al sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
