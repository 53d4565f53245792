package models

import (
	"gorm.io/gorm"
)

// Cancellation marks one activity's occurrence on one date as not held.
// Deleting the row un-cancels the date without touching the activity.
type Cancellation struct {
	gorm.Model
	ActivityID uint     `json:"activity_id" gorm:"uniqueIndex:idx_cancel_activity_date"`
	Date       string   `json:"date" gorm:"uniqueIndex:idx_cancel_activity_date"`
	Reason     string   `json:"reason"`
	Activity   Activity `json:"-"`
}
