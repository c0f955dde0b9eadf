package domain

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// User is owned by the identity subsystem; the core only reads ID,
// IsActive and Role.
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	IsActive      bool
	Role          Role
	CreatedAt     time.Time
	IssuanceCount int
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type UserInput struct {
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
	Email     string `validate:"required,email,max=256"`
	Role      Role   `validate:"required,oneof=Admin User"`
	IsActive  bool
}
