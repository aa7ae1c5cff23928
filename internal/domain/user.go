package domain

import "time"

// Role enumerates the help-desk roles carried by accounts.
type Role string

const (
	RoleRequester Role = "requester"
	RoleModerator Role = "moderator"
	RoleAssignee  Role = "assignee"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleRequester, RoleModerator, RoleAssignee, RoleAdmin:
		return true
	}
	return false
}

// User is an authenticated account: requesters submit tickets, moderators
// review and assign them, assignees work them, admins see everything.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	DepartmentID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
