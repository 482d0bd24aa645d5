package domain

import (
	"errors"
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string // stored lower-cased, unique
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is the closed set of profile roles. Values are canonicalized to
// lower case at write time so authorization never compares raw strings.
type Role string

const (
	RoleEngineer Role = "engineer"
	RoleDeptHead Role = "dept_head"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleEngineer:
		return RoleEngineer, nil
	case RoleDeptHead:
		return RoleDeptHead, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

// Profile maps a user to exactly one role. There is no role-change
// operation; the role is fixed at registration.
type Profile struct {
	UserID    string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the resolved caller passed explicitly into every service
// operation. It is built by the session middleware after verifying the
// token and resolving the profile; services never read ambient state.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
