package domain

import "time"

// User models an account managed by the directory. PasswordHash is never
// serialized to JSON; repositories exclude it from reads except for the
// login lookup.
//
// RoleName is a denormalized cache of the referenced Role's name. It is kept
// eventually consistent by the rename cascade and is not a source of truth.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"role"`
	RoleName     string    `json:"roleName"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleRef is the expanded {id, name} pair returned on user reads.
type RoleRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Role returns the role reference as stored on the user document.
func (u *User) Role() RoleRef {
	return RoleRef{ID: u.RoleID, Name: u.RoleName}
}
