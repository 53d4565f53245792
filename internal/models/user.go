package models

import (
	"gorm.io/gorm"
)

// User is a staff member who signs in through Discord to manage classes
// and take attendance. Students are not users.
type User struct {
	gorm.Model
	DiscordID string `gorm:"uniqueIndex"`
	Username  string
	Email     string
	Avatar    string
	Admin     bool
}
