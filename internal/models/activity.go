package models

import (
	"gorm.io/gorm"
)

// Activity is a recurring weekly class slot: type + day-of-week + time +
// location within a session. Time is stored as 24-hour "HH:MM".
type Activity struct {
	gorm.Model
	SessionID   uint    `json:"session_id"`
	Session     Session `json:"session"`
	Type        string  `json:"type"`
	DayOfWeek   string  `json:"day_of_week"`
	Time        string  `json:"time"`
	Location    string  `json:"location"`
	MaxCapacity int     `json:"max_capacity"`
	Closed      bool    `json:"closed"`
}
