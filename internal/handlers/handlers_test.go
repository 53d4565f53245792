package handlers

import (
	"testing"

	"github.com/rocfit/classtrack-api/internal/database"
	"github.com/rocfit/classtrack-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// fixture is a minimal seeded schedule: one organization, one session, one
// Saturday activity, three students with the first two enrolled and the
// third waitlisted.
type fixture struct {
	org      models.Organization
	session  models.Session
	activity models.Activity
	students []models.Student
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{}
	f.org = models.Organization{Name: "Rochester Rec", ContactEmail: "rec@example.org"}
	if err := db.Create(&f.org).Error; err != nil {
		t.Fatalf("failed to seed organization: %v", err)
	}

	f.session = models.Session{
		OrganizationID: f.org.ID,
		Name:           "Summer 2024",
		StartDate:      "2024-06-01",
		EndDate:        "2024-08-17",
	}
	if err := db.Create(&f.session).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	f.activity = models.Activity{
		SessionID: f.session.ID,
		Type:      "Zumba",
		DayOfWeek: "Saturday",
		Time:      "10:00",
		Location:  "Main Gym",
	}
	if err := db.Create(&f.activity).Error; err != nil {
		t.Fatalf("failed to seed activity: %v", err)
	}

	f.students = []models.Student{
		{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org", Active: true},
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.org", Active: true},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@example.org", Active: true},
	}
	for i := range f.students {
		if err := db.Create(&f.students[i]).Error; err != nil {
			t.Fatalf("failed to seed student: %v", err)
		}
	}

	enrollments := []models.Enrollment{
		{ActivityID: f.activity.ID, StudentID: f.students[0].ID, Status: models.EnrollmentActive},
		{ActivityID: f.activity.ID, StudentID: f.students[1].ID, Status: models.EnrollmentActive},
		{ActivityID: f.activity.ID, StudentID: f.students[2].ID, Status: models.EnrollmentWaiting},
	}
	for _, e := range enrollments {
		if err := db.Create(&e).Error; err != nil {
			t.Fatalf("failed to seed enrollment: %v", err)
		}
	}
	return f
}
