package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rocfit/classtrack-api/internal/models"
	"github.com/rocfit/classtrack-api/internal/schedule"
	"gorm.io/gorm"
)

type MeetingHandler struct {
	db *gorm.DB
}

func NewMeetingHandler(db *gorm.DB) *MeetingHandler {
	return &MeetingHandler{db: db}
}

// AttendanceRecordPayload is one student's status as carried on the wire.
// Name fields are denormalized onto the record so the UI can render walk-ins
// without a second lookup.
type AttendanceRecordPayload struct {
	StudentID        uint   `json:"student_id"`
	StudentName      string `json:"student_name"`
	StudentFirstName string `json:"student_first_name"`
	StudentLastName  string `json:"student_last_name"`
	Status           string `json:"status"`
	Note             string `json:"note"`
}

// MeetingPayload is the resolved meeting with its display context and
// participant snapshots.
type MeetingPayload struct {
	ID               uint                      `json:"id"`
	ActivityID       uint                      `json:"activity_id"`
	Date             string                    `json:"date"`
	ActivityType     string                    `json:"activity_type"`
	ActivityTime     string                    `json:"activity_time"`
	ActivityLocation string                    `json:"activity_location"`
	SessionName      string                    `json:"session_name"`
	OrganizationName string                    `json:"organization_name"`
	Records          []AttendanceRecordPayload `json:"attendance_records"`
	Enrolled         []StudentPayload          `json:"enrolled_students"`
	Waitlist         []StudentPayload          `json:"waitlist_students"`
}

type ResolveMeetingRequest struct {
	Body struct {
		ActivityID uint   `json:"activity_id" doc:"Activity to resolve a meeting for"`
		Date       string `json:"date" doc:"Calendar date, YYYY-MM-DD"`
	}
}

type ResolveMeetingResponse struct {
	Body MeetingPayload
}

// HandleResolve gets or creates the canonical meeting for (activity, date).
// Creation pre-populates a scheduled record for every enrolled student, so a
// fresh meeting already shows the expected roster. The unique index on the
// pair makes repeated calls land on the same row.
func (h *MeetingHandler) HandleResolve(ctx context.Context, input *ResolveMeetingRequest) (*ResolveMeetingResponse, error) {
	if _, err := schedule.ParseDate(input.Body.Date); err != nil {
		return nil, huma.Error400BadRequest("Date must be YYYY-MM-DD")
	}

	var activity models.Activity
	if err := h.db.Preload("Session.Organization").First(&activity, input.Body.ActivityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Activity not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	var meeting models.Meeting
	err := h.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where(models.Meeting{ActivityID: activity.ID, Date: input.Body.Date}).
			FirstOrCreate(&meeting)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		// New meeting: seed a scheduled record per enrolled student.
		var enrollments []models.Enrollment
		if err := tx.Where("activity_id = ? AND status = ?", activity.ID, models.EnrollmentActive).
			Find(&enrollments).Error; err != nil {
			return err
		}
		for _, e := range enrollments {
			record := models.AttendanceRecord{
				MeetingID: meeting.ID,
				StudentID: e.StudentID,
				Status:    models.StatusScheduled,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to resolve meeting: " + err.Error())
	}

	payload, err := h.meetingPayload(activity, meeting.ID, input.Body.Date)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load meeting: " + err.Error())
	}
	return &ResolveMeetingResponse{Body: *payload}, nil
}

// RecordInputPayload is the save-attendance wire shape.
type RecordInputPayload struct {
	StudentID uint   `json:"student_id"`
	Status    string `json:"status"`
	Note      string `json:"note"`
}

type SaveAttendanceRequest struct {
	MeetingID uint `path:"id"`
	Body      struct {
		Records []RecordInputPayload `json:"records"`
	}
}

type SaveAttendanceResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// HandleSaveAttendance replaces the meeting's attendance with the posted
// snapshot: records are upserted per (meeting, student) and records missing
// from the snapshot are deleted. Replacement, not delta, so re-sends are
// harmless and a removed walk-in leaves no row behind.
func (h *MeetingHandler) HandleSaveAttendance(ctx context.Context, input *SaveAttendanceRequest) (*SaveAttendanceResponse, error) {
	for _, r := range input.Body.Records {
		if !models.ValidStatus(r.Status) {
			return nil, huma.Error400BadRequest(fmt.Sprintf("Invalid attendance status %q", r.Status))
		}
	}

	var meeting models.Meeting
	if err := h.db.First(&meeting, input.MeetingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Meeting not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		keep := make([]uint, 0, len(input.Body.Records))
		for _, r := range input.Body.Records {
			var record models.AttendanceRecord
			if err := tx.Where(models.AttendanceRecord{MeetingID: meeting.ID, StudentID: r.StudentID}).
				FirstOrInit(&record).Error; err != nil {
				return err
			}
			record.Status = r.Status
			record.Note = r.Note
			if err := tx.Save(&record).Error; err != nil {
				return err
			}
			keep = append(keep, r.StudentID)
		}

		q := tx.Where("meeting_id = ?", meeting.ID)
		if len(keep) > 0 {
			q = q.Where("student_id NOT IN ?", keep)
		}
		return q.Delete(&models.AttendanceRecord{}).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to save attendance: " + err.Error())
	}

	res := &SaveAttendanceResponse{}
	res.Body.Message = "Attendance saved"
	return res, nil
}

func (h *MeetingHandler) meetingPayload(activity models.Activity, meetingID uint, date string) (*MeetingPayload, error) {
	var records []models.AttendanceRecord
	if err := h.db.Preload("Student").Where("meeting_id = ?", meetingID).
		Order("student_id").Find(&records).Error; err != nil {
		return nil, err
	}
	enrolled, waitlist, err := enrollmentSnapshots(h.db, activity.ID)
	if err != nil {
		return nil, err
	}

	payload := &MeetingPayload{
		ID:               meetingID,
		ActivityID:       activity.ID,
		Date:             date,
		ActivityType:     activity.Type,
		ActivityTime:     activity.Time,
		ActivityLocation: activity.Location,
		SessionName:      activity.Session.Name,
		OrganizationName: activity.Session.Organization.Name,
		Records:          make([]AttendanceRecordPayload, 0, len(records)),
		Enrolled:         enrolled,
		Waitlist:         waitlist,
	}
	for _, r := range records {
		payload.Records = append(payload.Records, AttendanceRecordPayload{
			StudentID:        r.StudentID,
			StudentName:      r.Student.DisplayName(),
			StudentFirstName: r.Student.FirstName,
			StudentLastName:  r.Student.LastName,
			Status:           r.Status,
			Note:             r.Note,
		})
	}
	return payload, nil
}
