// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Orazalyoa/kelsm-from-termius-sub001/models"
)

// OpenDB returns a migrated in-memory SQLite database scoped to the test.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache memory DB so the whole pool sees one database,
	// isolated per test by name.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.SetupJoinTable(&models.Consultation{}, "Lawyers", &models.LawyerAssignment{}); err != nil {
		t.Fatalf("setup join table: %v", err)
	}
	if err := db.SetupJoinTable(&models.Consultation{}, "Operators", &models.OperatorAssignment{}); err != nil {
		t.Fatalf("setup join table: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Consultation{},
		&models.LawyerAssignment{},
		&models.OperatorAssignment{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given role names, creating the roles
// on first use.
func CreateUser(t *testing.T, db *gorm.DB, login, loc string, roleNames ...string) models.User {
	t.Helper()

	var roles []models.Role
	for _, name := range roleNames {
		var role models.Role
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			t.Fatalf("create role %s: %v", name, err)
		}
		roles = append(roles, role)
	}

	user := models.User{
		Login:    login,
		FullName: login,
		Locale:   loc,
		Roles:    roles,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", login, err)
	}
	return user
}

// CreateConsultation inserts a consultation in the given status.
func CreateConsultation(t *testing.T, db *gorm.DB, requesterID uint, status models.ConsultationStatus) models.Consultation {
	t.Helper()

	c := models.Consultation{
		Topic:       "Contract dispute",
		Priority:    models.PriorityNormal,
		Status:      status,
		RequesterID: requesterID,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create consultation: %v", err)
	}
	return c
}
