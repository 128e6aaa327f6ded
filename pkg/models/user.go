package models

import "time"

// Role is a canonical lowercase user role. Two vocabularies are in use: the
// generic account model (admin, manager, user) and the user-management
// screen (admin, accountant). Both are accepted when reading.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleUser       Role = "user"
	RoleAccountant Role = "accountant"
)

// AccountRoles is the generic account vocabulary.
var AccountRoles = []Role{RoleAdmin, RoleManager, RoleUser}

// ManagementRoles is the vocabulary offered when creating or editing users.
var ManagementRoles = []Role{RoleAdmin, RoleAccountant}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RawUser is a user as the API returns it.
type RawUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserInput is the body of a user create request.
type UserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// UserPatch is the body of a user update request.
type UserPatch struct {
	Email  *string `json:"email,omitempty"`
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}
