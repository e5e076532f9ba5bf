// Package identity reconciles an authenticated session with a domain user
// and answers role-eligibility lookups.
package identity

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// ErrActorUnknown means the authenticated session has no matching domain
// user. This is deliberately a hard failure: assignment audit fields and
// notification actor attribution must never be stamped with a guessed
// identity.
var ErrActorUnknown = errors.New("acting admin has no domain identity")

// ActingAdmin resolves the authenticated user id to the domain user used
// for assigned_by stamps and notification actor attribution.
func ActingAdmin(db *gorm.DB, userID uint) (models.User, error) {
	var user models.User
	err := db.Preload("Roles").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("%w: user id %d", ErrActorUnknown, userID)
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// EligibleUsers returns the users carrying the given role name, for
// rendering assignment pickers.
func EligibleUsers(db *gorm.DB, roleName string) ([]models.User, error) {
	var users []models.User
	err := db.Model(&models.User{}).
		Joins("JOIN user_roles ur ON ur.user_id = users.id").
		Joins("JOIN roles r ON r.id = ur.role_id").
		Where("r.name = ?", roleName).
		Order("users.full_name").
		Find(&users).Error
	return users, err
}
