package models

import (
	"gorm.io/gorm"
)

// Attendance statuses. A student with no record for a meeting is implicitly
// scheduled; records are created on the first explicit status change.
const (
	StatusScheduled         = "scheduled"
	StatusPresent           = "present"
	StatusUnexpectedAbsence = "unexpected_absence"
	StatusExpectedAbsence   = "expected_absence"
)

// ValidStatus reports whether s is one of the four attendance statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusPresent, StatusUnexpectedAbsence, StatusExpectedAbsence:
		return true
	}
	return false
}

// Meeting is one concrete calendar-date occurrence of an activity. The
// composite unique index makes get-or-create idempotent: there is at most
// one meeting per (activity, date). Date is ISO "YYYY-MM-DD".
type Meeting struct {
	gorm.Model
	ActivityID uint               `json:"activity_id" gorm:"uniqueIndex:idx_activity_date"`
	Date       string             `json:"date" gorm:"uniqueIndex:idx_activity_date"`
	Activity   Activity           `json:"-"`
	Records    []AttendanceRecord `json:"attendance_records" gorm:"foreignKey:MeetingID"`
}

// AttendanceRecord tracks one student's status for one meeting.
type AttendanceRecord struct {
	gorm.Model
	MeetingID uint    `json:"meeting_id" gorm:"uniqueIndex:idx_meeting_student"`
	StudentID uint    `json:"student_id" gorm:"uniqueIndex:idx_meeting_student"`
	Student   Student `json:"-"`
	Status    string  `json:"status"`
	Note      string  `json:"note"`
}
