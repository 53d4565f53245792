package models

import (
	"gorm.io/gorm"
)

// Organization is a city rec department or other entity hosting classes.
type Organization struct {
	gorm.Model
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}
