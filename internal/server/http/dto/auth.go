package dto

import "time"

// AuthRequest describes login/password payload.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login. The token is also set as a cookie.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// AssignRoleRequest is the payload of PUT /api/admin/users/:id/role.
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
