package models

import (
	"gorm.io/gorm"
)

// Session is a date-bounded period (e.g. "Fall 2025") containing activities.
// StartDate/EndDate are ISO "YYYY-MM-DD" strings; edits may only expand the
// span (see schedule.ValidateSessionSpan).
type Session struct {
	gorm.Model
	OrganizationID uint         `json:"organization_id"`
	Organization   Organization `json:"organization"`
	Name           string       `json:"name"`
	StartDate      string       `json:"start_date"`
	EndDate        string       `json:"end_date"`
	Closed         bool         `json:"closed"`
}
