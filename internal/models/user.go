package models

// Role determines which authorization scope a user resolves to.
type Role string

const (
	// RoleAdmin grants an unrestricted scope over every collection.
	RoleAdmin Role = "admin"

	// RoleMember restricts the scope to projects the user is assigned to.
	RoleMember Role = "member"
)

// User is a login account. Usernames are the key other records reference;
// uniqueness is not enforced on create (see repo.Users for the rationale).
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
