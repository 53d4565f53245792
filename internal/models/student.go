package models

import (
	"strings"

	"gorm.io/gorm"
)

// Student is a person attending activities.
type Student struct {
	gorm.Model
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Active                bool   `json:"active" gorm:"default:true"`
	RochesterResident     bool   `json:"rochester_resident"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	Notes                 string `json:"notes"`
}

// DisplayName is the single resolved name every API payload carries, so
// consumers never re-derive a fallback chain from individual name fields.
func (s Student) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name != "" {
		return name
	}
	if s.Email != "" {
		return s.Email
	}
	return "Unknown"
}
