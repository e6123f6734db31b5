// Package models defines the client-side records exchanged with the charity
// platform and persisted by the session store.
package models

// Role is the platform role carried on the identity record. The back-office
// knows admin/moderator/user, the storefront donor/recipient/superadmin.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleModerator  Role = "moderator"
	RoleUser       Role = "user"
	RoleDonor      Role = "donor"
	RoleRecipient  Role = "recipient"
	RoleSuperAdmin Role = "superadmin"
)

// User is the identity record owned by a session.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Clone returns a copy that shares no memory with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Credentials is the email/password pair submitted at login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a new platform account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// ProfileUpdate carries the mutable subset of the identity record.
type ProfileUpdate struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}
