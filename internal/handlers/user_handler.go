package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/config"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/identity"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/locale"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// UserResponse defines the structure for user data sent in API responses.
// This helps prevent accidental leakage of sensitive data like password
// hashes.
type UserResponse struct {
	ID       uint   `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Locale   string `json:"locale"`
}

// ListEligibleUsersHandler returns the users eligible for a role, for
// rendering assignment pickers. Only the lawyer and operator pools are
// exposed.
func ListEligibleUsersHandler(c *gin.Context) {
	role := c.Query("role")
	if role != models.RoleLawyer && role != models.RoleOperator {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be 'lawyer' or 'operator'"})
		return
	}

	users, err := identity.EligibleUsers(config.DB, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch users"})
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, UserResponse{
			ID:       u.ID,
			Login:    u.Login,
			FullName: u.FullName,
			Email:    u.Email,
			Locale:   u.Locale,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": response})
}

// UpdateLocaleHandler stores the current user's preferred notification
// locale.
func UpdateLocaleHandler(c *gin.Context) {
	var input struct {
		Locale string `json:"locale" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	canonical := locale.Canonical(input.Locale)
	if canonical == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unsupported locale"})
		return
	}

	userID := c.GetUint("user_id")
	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("locale", canonical).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update locale"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locale": canonical})
}
