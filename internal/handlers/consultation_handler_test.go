package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/config"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/internal/testutil"
	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// testRouter wires the consultation handlers behind a stub auth layer that
// injects the given user into the request context.
func testRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	r.POST("/api/consultations", CreateConsultationHandler)
	r.GET("/api/consultations/:id", GetConsultationHandler)
	r.POST("/api/consultations/:id/lawyers", AssignLawyersHandler)
	r.POST("/api/consultations/:id/operators", AssignOperatorsHandler)
	r.POST("/api/consultations/:id/status", UpdateConsultationStatusHandler)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAssignLawyersEndpoint(t *testing.T) {
	db := testutil.OpenDB(t)
	config.DB = db
	admin := testutil.CreateUser(t, db, "admin", "en", models.RoleAdmin)
	requester := testutil.CreateUser(t, db, "requester", "ru")
	lawyer := testutil.CreateUser(t, db, "lawyer", "ru", models.RoleLawyer)
	c := testutil.CreateConsultation(t, db, requester.ID, models.ConsultationPending)

	r := testRouter(admin.ID)
	w := postJSON(t, r, fmt.Sprintf("/api/consultations/%d/lawyers", c.ID), gin.H{
		"assigneeIds": []uint{lawyer.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Added   int                       `json:"added"`
		Removed int                       `json:"removed"`
		Status  models.ConsultationStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Added)
	assert.Zero(t, resp.Removed)
	assert.Equal(t, models.ConsultationInProgress, resp.Status)
}

func TestAssignEmptySelectionEndpoint(t *testing.T) {
	db := testutil.OpenDB(t)
	config.DB = db
	admin := testutil.CreateUser(t, db, "admin", "en", models.RoleAdmin)
	requester := testutil.CreateUser(t, db, "requester", "ru")
	c := testutil.CreateConsultation(t, db, requester.ID, models.ConsultationPending)

	r := testRouter(admin.ID)
	w := postJSON(t, r, fmt.Sprintf("/api/consultations/%d/operators", c.ID), gin.H{
		"assigneeIds": []uint{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "at least one assignee")
}

func TestAssignClosedConsultationEndpoint(t *testing.T) {
	db := testutil.OpenDB(t)
	config.DB = db
	admin := testutil.CreateUser(t, db, "admin", "en", models.RoleAdmin)
	requester := testutil.CreateUser(t, db, "requester", "ru")
	operator := testutil.CreateUser(t, db, "operator", "en", models.RoleOperator)
	c := testutil.CreateConsultation(t, db, requester.ID, models.ConsultationCancelled)

	r := testRouter(admin.ID)
	w := postJSON(t, r, fmt.Sprintf("/api/consultations/%d/operators", c.ID), gin.H{
		"assigneeIds": []uint{operator.ID},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignUnknownConsultationEndpoint(t *testing.T) {
	db := testutil.OpenDB(t)
	config.DB = db
	admin := testutil.CreateUser(t, db, "admin", "en", models.RoleAdmin)
	lawyer := testutil.CreateUser(t, db, "lawyer", "ru", models.RoleLawyer)

	r := testRouter(admin.ID)
	w := postJSON(t, r, "/api/consultations/999999/lawyers", gin.H{
		"assigneeIds": []uint{lawyer.ID},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignUnknownActorFailsLoudly(t *testing.T) {
	db := testutil.OpenDB(t)
	config.DB = db
	requester := testutil.CreateUser(t, db, "requester", "ru")
	lawyer := testutil.CreateUser(t, db, "lawyer", "ru", models.RoleLawyer)
	c := testutil.CreateConsultation(t, db, requester.ID, models.ConsultationPending)

	// Session references a user id with no domain identity behind it.
	r := testRouter(31337)
	w := postJSON(t, r, fmt.Sprintf("/api/consultations/%d/lawyers", c.ID), gin.H{
		"assigneeIds": []uint{lawyer.ID},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var rows int64
	db.Model(&models.LawyerAssignment{}).Count(&rows)
	assert.Zero(t, rows, "no writes with an unresolved actor")
}

func TestGetConsultationIncludesAssignees(t *testing.T) {
	db := testutil.OpenDB(t)
	config.DB = db
	admin := testutil.CreateUser(t, db, "admin", "en", models.RoleAdmin)
	requester := testutil.CreateUser(t, db, "requester", "ru")
	lawyer := testutil.CreateUser(t, db, "lawyer", "ru", models.RoleLawyer)
	c := testutil.CreateConsultation(t, db, requester.ID, models.ConsultationPending)

	r := testRouter(admin.ID)
	w := postJSON(t, r, fmt.Sprintf("/api/consultations/%d/lawyers", c.ID), gin.H{
		"assigneeIds": []uint{lawyer.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/consultations/%d", c.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Lawyers []AssigneeResponse `json:"lawyers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lawyers, 1)
	assert.Equal(t, lawyer.ID, resp.Lawyers[0].UserID)
	assert.Equal(t, admin.ID, resp.Lawyers[0].AssignedByID)
	assert.True(t, resp.Lawyers[0].IsPrimary)
}

func TestUpdateStatusEndpointRejectsIllegalEdge(t *testing.T) {
	db := testutil.OpenDB(t)
	config.DB = db
	admin := testutil.CreateUser(t, db, "admin", "en", models.RoleAdmin)
	requester := testutil.CreateUser(t, db, "requester", "ru")
	c := testutil.CreateConsultation(t, db, requester.ID, models.ConsultationPending)

	r := testRouter(admin.ID)
	// pending -> archived is not an edge of the lifecycle graph.
	w := postJSON(t, r, fmt.Sprintf("/api/consultations/%d/status", c.ID), gin.H{
		"status": models.ConsultationArchived,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, r, fmt.Sprintf("/api/consultations/%d/status", c.ID), gin.H{
		"status": models.ConsultationCancelled,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
