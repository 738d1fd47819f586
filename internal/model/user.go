package model

import (
	"fmt"
	"strings"
)

type UserRole string

const (
	// Member is the claiming club member ("dbv"); it has no decision rights.
	Member    UserRole = "dbv"
	Counselor UserRole = "counselor"
	Lead      UserRole = "lead"
	Director  UserRole = "director"
	Admin     UserRole = "admin"
)

// ParseRole maps a credential claim onto the closed set of roles. Unknown or
// misspelled roles are an error instead of a silently unprivileged user.
func ParseRole(s string) (UserRole, error) {
	switch r := UserRole(strings.ToLower(strings.TrimSpace(s))); r {
	case Member, Counselor, Lead, Director, Admin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r UserRole) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// swagger:model User
type User struct {
	BaseModel
	Name  string   `gorm:"size:100;not null" json:"name"`
	Email string   `gorm:"size:100;unique;not null" json:"email"`
	Role  UserRole `gorm:"size:20;default:'dbv'" json:"role"`
	Club  string   `gorm:"size:100" json:"club"`
}

func (User) TableName() string {
	return "users"
}
