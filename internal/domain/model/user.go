package model

import "time"

// Role defines what a user may see in the system.
type Role string

const (
	RoleCustomer          Role = "customer"
	RoleAdmin             Role = "admin"
	RoleRestaurantManager Role = "restaurant_manager"
)

// IsStaff reports whether role can observe orders of other users.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleRestaurantManager
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r.IsStaff()
}

// User represents a registered account.
type User struct {
	ID           string
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
