package models

// Role is a named group of users. The "lawyer" and "operator" roles double
// as the eligibility pools for consultation assignment.
type Role struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`
}
