package models

import (
	"gorm.io/gorm"
)

// Enrollment statuses. A student holds at most one enrollment row per
// activity, so enrolled and waitlisted are mutually exclusive.
const (
	EnrollmentActive  = "active"
	EnrollmentWaiting = "waiting"
)

// Enrollment connects a student to an activity with a status.
type Enrollment struct {
	gorm.Model
	ActivityID uint     `json:"activity_id" gorm:"uniqueIndex:idx_activity_student"`
	StudentID  uint     `json:"student_id" gorm:"uniqueIndex:idx_activity_student"`
	Activity   Activity `json:"-"`
	Student    Student  `json:"student"`
	Status     string   `json:"status"`
}
