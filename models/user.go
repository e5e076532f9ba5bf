package models

import (
	"gorm.io/gorm"
)

// Role names used as eligibility pools for consultation assignment.
const (
	RoleAdmin    = "admin"
	RoleLawyer   = "lawyer"
	RoleOperator = "operator"
)

// User represents an account in the system. Lawyers, operators and
// administrators are all users; the Roles relation decides what a user
// is eligible for.
type User struct {
	gorm.Model
	Login    string `json:"login" gorm:"unique;not null"`
	Password string `json:"-"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Status   string `json:"status" gorm:"default:'active'"`
	Locale   string `json:"locale"` // preferred notification locale, e.g. "ru"
	PhotoURL string `json:"photoUrl"`
	Roles    []Role `json:"roles" gorm:"many2many:user_roles;"`
}

// HasRole reports whether the user carries the given role name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
