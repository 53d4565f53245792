package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rocfit/classtrack-api/internal/models"
	"github.com/rocfit/classtrack-api/internal/notifier"
	"github.com/rocfit/classtrack-api/internal/schedule"
	"gorm.io/gorm"
)

type CancellationHandler struct {
	db       *gorm.DB
	notifier notifier.Notifier
}

// NewCancellationHandler builds the handler; n may be nil when no Discord
// bot is configured.
func NewCancellationHandler(db *gorm.DB, n notifier.Notifier) *CancellationHandler {
	return &CancellationHandler{db: db, notifier: n}
}

// CancellationPayload is a cancellation with its activity context
// denormalized for display.
type CancellationPayload struct {
	ID               uint   `json:"id"`
	ActivityID       uint   `json:"activity_id"`
	Date             string `json:"date"`
	Reason           string `json:"reason"`
	ActivityType     string `json:"activity_type"`
	ActivityDay      string `json:"activity_day"`
	ActivityTime     string `json:"activity_time"`
	ActivityLocation string `json:"activity_location"`
	SessionName      string `json:"session_name"`
	OrganizationName string `json:"organization_name"`
}

func cancellationPayload(c models.Cancellation) CancellationPayload {
	return CancellationPayload{
		ID:               c.ID,
		ActivityID:       c.ActivityID,
		Date:             c.Date,
		Reason:           c.Reason,
		ActivityType:     c.Activity.Type,
		ActivityDay:      c.Activity.DayOfWeek,
		ActivityTime:     c.Activity.Time,
		ActivityLocation: c.Activity.Location,
		SessionName:      c.Activity.Session.Name,
		OrganizationName: c.Activity.Session.Organization.Name,
	}
}

type ListCancellationsRequest struct {
	StartDate      string `query:"start_date" doc:"Inclusive window start, YYYY-MM-DD"`
	EndDate        string `query:"end_date" doc:"Inclusive window end, YYYY-MM-DD"`
	OrganizationID uint   `query:"organization_id" doc:"Restrict to one organization; 0 means all"`
}

type ListCancellationsResponse struct {
	Body struct {
		Cancellations []CancellationPayload `json:"cancellations"`
	}
}

// HandleList returns cancellations inside the inclusive date window, ordered
// by date. Dates are ISO strings, so the range filter is a plain string
// comparison.
func (h *CancellationHandler) HandleList(ctx context.Context, input *ListCancellationsRequest) (*ListCancellationsResponse, error) {
	if _, err := schedule.ParseDate(input.StartDate); err != nil {
		return nil, huma.Error400BadRequest("start_date must be YYYY-MM-DD")
	}
	if _, err := schedule.ParseDate(input.EndDate); err != nil {
		return nil, huma.Error400BadRequest("end_date must be YYYY-MM-DD")
	}

	q := h.db.Preload("Activity.Session.Organization").
		Where("cancellations.date BETWEEN ? AND ?", input.StartDate, input.EndDate).
		Order("cancellations.date")
	if input.OrganizationID != 0 {
		q = q.Joins("JOIN activities ON activities.id = cancellations.activity_id").
			Joins("JOIN sessions ON sessions.id = activities.session_id").
			Where("sessions.organization_id = ?", input.OrganizationID)
	}

	var cancellations []models.Cancellation
	if err := q.Find(&cancellations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list cancellations: " + err.Error())
	}

	res := &ListCancellationsResponse{}
	res.Body.Cancellations = make([]CancellationPayload, 0, len(cancellations))
	for _, c := range cancellations {
		res.Body.Cancellations = append(res.Body.Cancellations, cancellationPayload(c))
	}
	return res, nil
}

type CreateCancellationRequest struct {
	Body struct {
		Activity uint   `json:"activity" doc:"Activity to cancel"`
		Date     string `json:"date" doc:"Occurrence date, YYYY-MM-DD"`
		Reason   string `json:"reason" doc:"Optional reason shown to staff"`
	}
}

type CreateCancellationResponse struct {
	Body CancellationPayload
}

// HandleCreate cancels one activity occurrence. Each (activity, date) pair
// can be cancelled at most once; a repeat is a conflict, not an update. The
// staff channel is notified best-effort.
func (h *CancellationHandler) HandleCreate(ctx context.Context, input *CreateCancellationRequest) (*CreateCancellationResponse, error) {
	if _, err := schedule.ParseDate(input.Body.Date); err != nil {
		return nil, huma.Error400BadRequest("Date must be YYYY-MM-DD")
	}

	var activity models.Activity
	if err := h.db.Preload("Session.Organization").First(&activity, input.Body.Activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Activity not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	var existing models.Cancellation
	err := h.db.Where(models.Cancellation{ActivityID: activity.ID, Date: input.Body.Date}).
		First(&existing).Error
	if err == nil {
		return nil, huma.Error409Conflict("Activity is already cancelled on this date")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error500InternalServerError("Database error")
	}

	cancellation := models.Cancellation{
		ActivityID: activity.ID,
		Date:       input.Body.Date,
		Reason:     input.Body.Reason,
	}
	if err := h.db.Create(&cancellation).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create cancellation: " + err.Error())
	}
	cancellation.Activity = activity

	if h.notifier != nil {
		if err := h.notifier.NotifyCancellation(activity, cancellation); err != nil {
			log.Printf("Failed to announce cancellation: %v", err)
		}
	}

	return &CreateCancellationResponse{Body: cancellationPayload(cancellation)}, nil
}

type DeleteCancellationRequest struct {
	CancellationID uint `path:"id"`
}

type DeleteCancellationResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// HandleDelete un-cancels by deleting the row; the occurrence is simply held
// again. The staff channel hears about reinstatements too.
func (h *CancellationHandler) HandleDelete(ctx context.Context, input *DeleteCancellationRequest) (*DeleteCancellationResponse, error) {
	var cancellation models.Cancellation
	if err := h.db.Preload("Activity.Session.Organization").First(&cancellation, input.CancellationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Cancellation not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	if err := h.db.Unscoped().Delete(&cancellation).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete cancellation: " + err.Error())
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyUncancellation(cancellation.Activity, cancellation.Date); err != nil {
			log.Printf("Failed to announce reinstatement: %v", err)
		}
	}

	res := &DeleteCancellationResponse{}
	res.Body.Message = "Cancellation removed"
	return res, nil
}
