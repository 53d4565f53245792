package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rocfit/classtrack-api/internal/models"
	"github.com/rocfit/classtrack-api/internal/schedule"
	"gorm.io/gorm"
)

type StatsHandler struct {
	db *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

// ActivityDayStats summarizes one activity's attendance on one date.
// WalkIns counts records held by students outside the enrolled and waitlist
// snapshots; Scheduled counts enrolled students not yet marked either way.
type ActivityDayStats struct {
	ActivityID       uint   `json:"activity_id"`
	ActivityType     string `json:"activity_type"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	SessionName      string `json:"session_name"`
	OrganizationName string `json:"organization_name"`
	Cancelled        bool   `json:"cancelled"`
	MeetingID        uint   `json:"meeting_id"`
	Present          int    `json:"present"`
	Absent           int    `json:"absent"`
	Scheduled        int    `json:"scheduled"`
	WalkIns          int    `json:"walk_ins"`
}

type DayStatsRequest struct {
	Date           string `query:"date" doc:"Calendar date, YYYY-MM-DD"`
	OrganizationID uint   `query:"organization_id" doc:"Restrict to one organization; 0 means all"`
}

type DayStatsResponse struct {
	Body struct {
		Date  string             `json:"date"`
		Stats []ActivityDayStats `json:"stats"`
	}
}

// HandleDayStats reports, for every open activity meeting on the date's
// weekday, its attendance counts and whether the occurrence is cancelled.
// Activities whose meeting was never resolved show zero counts; their roster
// exists but nobody has opened the board yet.
func (h *StatsHandler) HandleDayStats(ctx context.Context, input *DayStatsRequest) (*DayStatsResponse, error) {
	day, err := schedule.ParseDate(input.Date)
	if err != nil {
		return nil, huma.Error400BadRequest("date must be YYYY-MM-DD")
	}
	weekday := schedule.WeekdayName(day)

	q := h.db.Preload("Session.Organization").
		Joins("JOIN sessions ON sessions.id = activities.session_id").
		Where("activities.day_of_week = ? AND activities.closed = ? AND sessions.closed = ?", weekday, false, false)
	if input.OrganizationID != 0 {
		q = q.Where("sessions.organization_id = ?", input.OrganizationID)
	}
	var activities []models.Activity
	if err := q.Find(&activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list activities: " + err.Error())
	}

	res := &DayStatsResponse{}
	res.Body.Date = input.Date
	res.Body.Stats = make([]ActivityDayStats, 0, len(activities))
	for _, a := range activities {
		stats, err := h.activityStats(a, input.Date)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to compute stats: " + err.Error())
		}
		res.Body.Stats = append(res.Body.Stats, *stats)
	}
	return res, nil
}

func (h *StatsHandler) activityStats(a models.Activity, date string) (*ActivityDayStats, error) {
	stats := &ActivityDayStats{
		ActivityID:       a.ID,
		ActivityType:     a.Type,
		Time:             a.Time,
		Location:         a.Location,
		SessionName:      a.Session.Name,
		OrganizationName: a.Session.Organization.Name,
	}

	var cancelled int64
	if err := h.db.Model(&models.Cancellation{}).
		Where("activity_id = ? AND date = ?", a.ID, date).
		Count(&cancelled).Error; err != nil {
		return nil, err
	}
	stats.Cancelled = cancelled > 0

	var meeting models.Meeting
	err := h.db.Where("activity_id = ? AND date = ?", a.ID, date).First(&meeting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	stats.MeetingID = meeting.ID

	rostered := make(map[uint]struct{})
	var enrollments []models.Enrollment
	if err := h.db.Where("activity_id = ?", a.ID).Find(&enrollments).Error; err != nil {
		return nil, err
	}
	for _, e := range enrollments {
		rostered[e.StudentID] = struct{}{}
	}

	var records []models.AttendanceRecord
	if err := h.db.Where("meeting_id = ?", meeting.ID).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, r := range records {
		switch r.Status {
		case models.StatusPresent:
			stats.Present++
		case models.StatusUnexpectedAbsence, models.StatusExpectedAbsence:
			stats.Absent++
		case models.StatusScheduled:
			stats.Scheduled++
		}
		if _, ok := rostered[r.StudentID]; !ok {
			stats.WalkIns++
		}
	}
	return stats, nil
}
