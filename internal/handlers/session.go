package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rocfit/classtrack-api/internal/models"
	"github.com/rocfit/classtrack-api/internal/schedule"
	"gorm.io/gorm"
)

type SessionHandler struct {
	db *gorm.DB
}

func NewSessionHandler(db *gorm.DB) *SessionHandler {
	return &SessionHandler{db: db}
}

type SessionPayload struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	OrganizationID   uint   `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Closed           bool   `json:"closed"`
}

func sessionPayload(s models.Session) SessionPayload {
	return SessionPayload{
		ID:               s.ID,
		Name:             s.Name,
		OrganizationID:   s.OrganizationID,
		OrganizationName: s.Organization.Name,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		Closed:           s.Closed,
	}
}

type ListSessionsRequest struct{}

type ListSessionsResponse struct {
	Body struct {
		Sessions []SessionPayload `json:"sessions"`
	}
}

// HandleList returns all sessions, newest span first.
func (h *SessionHandler) HandleList(ctx context.Context, input *ListSessionsRequest) (*ListSessionsResponse, error) {
	var sessions []models.Session
	if err := h.db.Preload("Organization").
		Order("start_date DESC").
		Find(&sessions).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list sessions: " + err.Error())
	}

	res := &ListSessionsResponse{}
	res.Body.Sessions = make([]SessionPayload, 0, len(sessions))
	for _, s := range sessions {
		res.Body.Sessions = append(res.Body.Sessions, sessionPayload(s))
	}
	return res, nil
}

type UpdateSessionRequest struct {
	SessionID uint `path:"id"`
	Body      struct {
		Name      string `json:"name"`
		Closed    bool   `json:"closed"`
		StartDate string `json:"start_date" doc:"New span start, YYYY-MM-DD"`
		EndDate   string `json:"end_date" doc:"New span end, YYYY-MM-DD"`
	}
}

type UpdateSessionResponse struct {
	Body SessionPayload
}

// HandleUpdate edits a session. Span edits may only expand the period:
// meetings and sign-in sheets already exist inside the current span, so a
// start moved later or an end moved earlier is rejected outright, not
// clamped.
func (h *SessionHandler) HandleUpdate(ctx context.Context, input *UpdateSessionRequest) (*UpdateSessionResponse, error) {
	var session models.Session
	if err := h.db.Preload("Organization").First(&session, input.SessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Session not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	if _, err := schedule.ValidateSessionSpan(session.StartDate, session.EndDate, input.Body.StartDate, input.Body.EndDate); err != nil {
		return nil, huma.Error400BadRequest("Invalid session span: " + err.Error())
	}

	session.Name = input.Body.Name
	session.Closed = input.Body.Closed
	session.StartDate = input.Body.StartDate
	session.EndDate = input.Body.EndDate
	if err := h.db.Save(&session).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update session: " + err.Error())
	}

	return &UpdateSessionResponse{Body: sessionPayload(session)}, nil
}
