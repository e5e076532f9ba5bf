package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/config"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/consultations"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/identity"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/notify"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

const timeFormat = time.RFC3339

// CreateConsultationInput defines the structure for filing a consultation.
type CreateConsultationInput struct {
	Topic    string `json:"topic" binding:"required"`
	Priority string `json:"priority"`
}

// AssignInput defines the structure for replacing an assignee set.
type AssignInput struct {
	AssigneeIDs []uint `json:"assigneeIds"`
	Notify      *bool  `json:"notify"` // defaults to true
}

// UpdateStatusInput defines the structure for an explicit status change.
type UpdateStatusInput struct {
	Status models.ConsultationStatus `json:"status" binding:"required"`
}

// UpdatePriorityInput defines the structure for a priority change.
type UpdatePriorityInput struct {
	Priority string `json:"priority" binding:"required"`
}

// AssigneeResponse is one assignee row with its audit metadata.
type AssigneeResponse struct {
	UserID       uint   `json:"userId"`
	FullName     string `json:"fullName"`
	AssignedByID uint   `json:"assignedById"`
	AssignedAt   string `json:"assignedAt"`
	IsPrimary    bool   `json:"isPrimary,omitempty"`
}

// CreateConsultationHandler files a new consultation for the current user.
func CreateConsultationHandler(c *gin.Context) {
	var input CreateConsultationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Priority == "" {
		input.Priority = models.PriorityNormal
	}

	userID := c.GetUint("user_id")
	consultation := models.Consultation{
		Topic:       input.Topic,
		Priority:    input.Priority,
		Status:      models.ConsultationPending,
		RequesterID: userID,
	}
	if err := config.DB.Create(&consultation).Error; err != nil {
		slog.Error("Failed to create consultation", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create consultation"})
		return
	}
	c.JSON(http.StatusCreated, consultation)
}

// ListConsultationsHandler returns a paginated list of consultations with
// an optional status filter.
func ListConsultationsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Consultation{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	query.Count(&totalRows)

	var items []models.Consultation
	if err := query.Preload("Requester").Order("id desc").Scopes(Paginate(c)).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch consultations"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, items, totalRows))
}

// GetConsultationHandler returns one consultation with its current
// assignee sets.
func GetConsultationHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation ID"})
		return
	}

	var consultation models.Consultation
	if err := config.DB.Preload("Requester").First(&consultation, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
		return
	}

	lawyers, operators, err := consultations.NewManager(config.DB).Assignees(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch assignees"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consultation": consultation,
		"lawyers":      assigneeResponses(lawyerAssigneeRows(lawyers)),
		"operators":    assigneeResponses(operatorAssigneeRows(operators)),
	})
}

// AssignLawyersHandler replaces the lawyer set of a consultation.
func AssignLawyersHandler(c *gin.Context) {
	assignHandler(c, consultations.RoleLawyer)
}

// AssignOperatorsHandler replaces the operator set of a consultation.
func AssignOperatorsHandler(c *gin.Context) {
	assignHandler(c, consultations.RoleOperator)
}

func assignHandler(c *gin.Context, role consultations.Role) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation ID"})
		return
	}

	var input AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doNotify := input.Notify == nil || *input.Notify

	actor, err := identity.ActingAdmin(config.DB, c.GetUint("user_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	result, err := consultations.NewManager(config.DB).Assign(uint(id), role, input.AssigneeIDs, actor, doNotify)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Assignees updated",
		"added":              len(result.Added),
		"removed":            len(result.Removed),
		"status":             result.Status,
		"notificationErrors": notificationErrors(result.Notifications),
	})
}

// UpdateConsultationStatusHandler applies an explicit archive/cancel
// transition.
func UpdateConsultationStatusHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation ID"})
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, err := identity.ActingAdmin(config.DB, c.GetUint("user_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	consultation, outcomes, err := consultations.NewManager(config.DB).SetStatus(uint(id), input.Status, actor, true)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"consultation":       consultation,
		"notificationErrors": notificationErrors(outcomes),
	})
}

// UpdateConsultationPriorityHandler changes the priority of an open
// consultation.
func UpdateConsultationPriorityHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultation ID"})
		return
	}

	var input UpdatePriorityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, err := identity.ActingAdmin(config.DB, c.GetUint("user_id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	consultation, outcomes, err := consultations.NewManager(config.DB).SetPriority(uint(id), input.Priority, actor, true)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"consultation":       consultation,
		"notificationErrors": notificationErrors(outcomes),
	})
}

// respondDomainError maps domain errors onto HTTP status codes.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Consultation not found"})
	case errors.Is(err, identity.ErrActorUnknown):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, consultations.ErrEmptySelection),
		errors.Is(err, consultations.ErrIneligibleAssignee):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, consultations.ErrConsultationClosed),
		errors.Is(err, consultations.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("Consultation operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func notificationErrors(outcomes []notify.Outcome) []gin.H {
	failed := notify.Failed(outcomes)
	out := make([]gin.H, 0, len(failed))
	for _, f := range failed {
		out = append(out, gin.H{"recipientId": f.RecipientID, "error": f.Err.Error()})
	}
	return out
}

type assigneeRow struct {
	userID       uint
	assignedByID uint
	assignedAt   string
	isPrimary    bool
}

func lawyerAssigneeRows(rows []models.LawyerAssignment) []assigneeRow {
	out := make([]assigneeRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, assigneeRow{r.UserID, r.AssignedByID, r.AssignedAt.Format(timeFormat), r.IsPrimary})
	}
	return out
}

func operatorAssigneeRows(rows []models.OperatorAssignment) []assigneeRow {
	out := make([]assigneeRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, assigneeRow{r.UserID, r.AssignedByID, r.AssignedAt.Format(timeFormat), false})
	}
	return out
}

func assigneeResponses(rows []assigneeRow) []AssigneeResponse {
	out := make([]AssigneeResponse, 0, len(rows))
	for _, r := range rows {
		resp := AssigneeResponse{
			UserID:       r.userID,
			AssignedByID: r.assignedByID,
			AssignedAt:   r.assignedAt,
			IsPrimary:    r.isPrimary,
		}
		var u models.User
		if err := config.DB.Select("id", "full_name").First(&u, r.userID).Error; err == nil {
			resp.FullName = u.FullName
		}
		out = append(out, resp)
	}
	return out
}
