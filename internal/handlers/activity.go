package handlers

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rocfit/classtrack-api/internal/models"
	"github.com/rocfit/classtrack-api/internal/schedule"
	"gorm.io/gorm"
)

type ActivityHandler struct {
	db *gorm.DB
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{db: db}
}

// ActivityPayload is an activity with its display context and enrollment
// counts.
type ActivityPayload struct {
	ID               uint   `json:"id"`
	Type             string `json:"type"`
	DayOfWeek        string `json:"day_of_week"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	SessionID        uint   `json:"session_id"`
	SessionName      string `json:"session_name"`
	OrganizationID   uint   `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	EnrolledCount    int    `json:"enrolled_count"`
	WaitlistCount    int    `json:"waitlist_count"`
}

func activityPayload(a models.Activity, enrolledCount, waitlistCount int) ActivityPayload {
	return ActivityPayload{
		ID:               a.ID,
		Type:             a.Type,
		DayOfWeek:        a.DayOfWeek,
		Time:             a.Time,
		Location:         a.Location,
		SessionID:        a.SessionID,
		SessionName:      a.Session.Name,
		OrganizationID:   a.Session.OrganizationID,
		OrganizationName: a.Session.Organization.Name,
		EnrolledCount:    enrolledCount,
		WaitlistCount:    waitlistCount,
	}
}

type ListActivitiesRequest struct{}

type ListActivitiesResponse struct {
	Body struct {
		Activities []ActivityPayload `json:"activities"`
	}
}

// HandleList returns all open activities in open sessions, ordered by
// (day of week, meeting time).
func (h *ActivityHandler) HandleList(ctx context.Context, input *ListActivitiesRequest) (*ListActivitiesResponse, error) {
	var activities []models.Activity
	if err := h.db.Preload("Session.Organization").
		Joins("JOIN sessions ON sessions.id = activities.session_id").
		Where("activities.closed = ? AND sessions.closed = ?", false, false).
		Find(&activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list activities: " + err.Error())
	}

	counts, err := h.enrollmentCounts()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to count enrollments: " + err.Error())
	}

	res := &ListActivitiesResponse{}
	res.Body.Activities = make([]ActivityPayload, 0, len(activities))
	for _, a := range activities {
		c := counts[a.ID]
		res.Body.Activities = append(res.Body.Activities, activityPayload(a, c.enrolled, c.waitlist))
	}
	sort.SliceStable(res.Body.Activities, func(i, j int) bool {
		a, b := res.Body.Activities[i], res.Body.Activities[j]
		return schedule.Compare(a.DayOfWeek, a.Time, b.DayOfWeek, b.Time) < 0
	})
	return res, nil
}

type GetActivityRequest struct {
	ActivityID uint `path:"id"`
}

type GetActivityResponse struct {
	Body struct {
		Activity ActivityPayload  `json:"activity"`
		Students []StudentPayload `json:"students"`
		Waitlist []StudentPayload `json:"waitlist"`
	}
}

// HandleGet loads one activity with its enrolled and waitlist snapshots.
func (h *ActivityHandler) HandleGet(ctx context.Context, input *GetActivityRequest) (*GetActivityResponse, error) {
	var activity models.Activity
	if err := h.db.Preload("Session.Organization").First(&activity, input.ActivityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Activity not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	enrolled, waitlist, err := enrollmentSnapshots(h.db, activity.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load enrollment: " + err.Error())
	}

	res := &GetActivityResponse{}
	res.Body.Activity = activityPayload(activity, len(enrolled), len(waitlist))
	res.Body.Students = enrolled
	res.Body.Waitlist = waitlist
	return res, nil
}

type SaveEnrollmentRequest struct {
	ActivityID uint `path:"id"`
	Body       struct {
		Enrolled []uint `json:"enrolled" doc:"Student ids to enroll"`
		Waitlist []uint `json:"waitlist" doc:"Student ids to waitlist"`
	}
}

type SaveEnrollmentResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// HandleSaveEnrollment replaces the activity's enrollment wholesale: the
// posted lists are the new truth, anything else is dropped. A student id in
// both lists is rejected since the buckets are mutually exclusive.
func (h *ActivityHandler) HandleSaveEnrollment(ctx context.Context, input *SaveEnrollmentRequest) (*SaveEnrollmentResponse, error) {
	seen := make(map[uint]struct{}, len(input.Body.Enrolled))
	for _, id := range input.Body.Enrolled {
		seen[id] = struct{}{}
	}
	for _, id := range input.Body.Waitlist {
		if _, dup := seen[id]; dup {
			return nil, huma.Error400BadRequest(fmt.Sprintf("Student %d cannot be both enrolled and waitlisted", id))
		}
	}

	var activity models.Activity
	if err := h.db.First(&activity, input.ActivityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Activity not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("activity_id = ?", activity.ID).
			Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		for _, id := range input.Body.Enrolled {
			e := models.Enrollment{ActivityID: activity.ID, StudentID: id, Status: models.EnrollmentActive}
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
		}
		for _, id := range input.Body.Waitlist {
			e := models.Enrollment{ActivityID: activity.ID, StudentID: id, Status: models.EnrollmentWaiting}
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to save enrollment: " + err.Error())
	}

	res := &SaveEnrollmentResponse{}
	res.Body.Message = "Enrollment saved"
	return res, nil
}

type activityCounts struct {
	enrolled int
	waitlist int
}

func (h *ActivityHandler) enrollmentCounts() (map[uint]activityCounts, error) {
	var rows []struct {
		ActivityID uint
		Status     string
		N          int
	}
	if err := h.db.Model(&models.Enrollment{}).
		Select("activity_id, status, count(*) as n").
		Group("activity_id, status").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]activityCounts, len(rows))
	for _, r := range rows {
		c := counts[r.ActivityID]
		switch r.Status {
		case models.EnrollmentActive:
			c.enrolled = r.N
		case models.EnrollmentWaiting:
			c.waitlist = r.N
		}
		counts[r.ActivityID] = c
	}
	return counts, nil
}
