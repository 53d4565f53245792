package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rocfit/classtrack-api/internal/auth"
	"github.com/rocfit/classtrack-api/internal/models"
	"github.com/rocfit/classtrack-api/internal/ratelimit"
	"gorm.io/gorm"
)

// searchResultLimit caps directory search responses; the UI shows a short
// pick-list, not a report.
const searchResultLimit = 20

const minSearchLen = 2

type StudentHandler struct {
	db       *gorm.DB
	limiter  *ratelimit.Limiter
	validate *validator.Validate
}

func NewStudentHandler(db *gorm.DB, limiter *ratelimit.Limiter) *StudentHandler {
	return &StudentHandler{
		db:       db,
		limiter:  limiter,
		validate: validator.New(),
	}
}

// StudentPayload is the student shape every API response carries.
type StudentPayload struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func studentPayload(s models.Student) StudentPayload {
	return StudentPayload{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		DisplayName: s.DisplayName(),
		Email:       s.Email,
	}
}

// enrollmentSnapshots loads an activity's enrolled and waitlisted students
// sorted by (last name, first name).
func enrollmentSnapshots(db *gorm.DB, activityID uint) (enrolled, waitlist []StudentPayload, err error) {
	var enrollments []models.Enrollment
	if err := db.Preload("Student").
		Joins("JOIN students ON students.id = enrollments.student_id").
		Where("enrollments.activity_id = ?", activityID).
		Order("students.last_name, students.first_name").
		Find(&enrollments).Error; err != nil {
		return nil, nil, err
	}

	enrolled = []StudentPayload{}
	waitlist = []StudentPayload{}
	for _, e := range enrollments {
		switch e.Status {
		case models.EnrollmentActive:
			enrolled = append(enrolled, studentPayload(e.Student))
		case models.EnrollmentWaiting:
			waitlist = append(waitlist, studentPayload(e.Student))
		}
	}
	return enrolled, waitlist, nil
}

type SearchStudentsRequest struct {
	Query string `query:"q" doc:"Name or email fragment, minimum 2 characters"`
}

type StudentListResponse struct {
	Body struct {
		Students []StudentPayload `json:"students"`
	}
}

// HandleSearch matches active students whose first name, last name or email
// contains the query. The endpoint fires on every key-up in the UI, so each
// staff user gets a per-minute request ceiling.
func (h *StudentHandler) HandleSearch(ctx context.Context, input *SearchStudentsRequest) (*StudentListResponse, error) {
	query := strings.TrimSpace(input.Query)
	if len(query) < minSearchLen {
		return nil, huma.Error400BadRequest(fmt.Sprintf("Query must be at least %d characters", minSearchLen))
	}

	key := "search:anonymous"
	if userID, ok := auth.UserID(ctx); ok {
		key = fmt.Sprintf("search:user:%d", userID)
	}
	if !h.limiter.Allow(ctx, key) {
		return nil, huma.Error429TooManyRequests("Search rate limit exceeded, slow down")
	}

	pattern := "%" + query + "%"
	var students []models.Student
	if err := h.db.Where("active = ?", true).
		Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", pattern, pattern, pattern).
		Order("last_name, first_name").
		Limit(searchResultLimit).
		Find(&students).Error; err != nil {
		return nil, huma.Error500InternalServerError("Search failed: " + err.Error())
	}

	res := &StudentListResponse{}
	res.Body.Students = make([]StudentPayload, 0, len(students))
	for _, s := range students {
		res.Body.Students = append(res.Body.Students, studentPayload(s))
	}
	return res, nil
}

type QuickCreateStudentRequest struct {
	Body struct {
		FirstName string `json:"first_name" validate:"required" doc:"First name, required"`
		LastName  string `json:"last_name" doc:"Last name, may be empty"`
		Email     string `json:"email" validate:"omitempty,email" doc:"Optional email"`
	}
}

type QuickCreateStudentResponse struct {
	Body StudentPayload
}

// HandleQuickCreate makes a minimal directory entry for a walk-in standing at
// the door. Everything beyond the name can be filled in later.
func (h *StudentHandler) HandleQuickCreate(ctx context.Context, input *QuickCreateStudentRequest) (*QuickCreateStudentResponse, error) {
	if err := h.validate.Struct(input.Body); err != nil {
		return nil, huma.Error400BadRequest("A first name is required")
	}

	student := models.Student{
		FirstName: strings.TrimSpace(input.Body.FirstName),
		LastName:  strings.TrimSpace(input.Body.LastName),
		Email:     strings.TrimSpace(input.Body.Email),
		Active:    true,
	}
	if err := h.db.Create(&student).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create student: " + err.Error())
	}

	return &QuickCreateStudentResponse{Body: studentPayload(student)}, nil
}

type ListStudentsRequest struct{}

// HandleList returns the whole active directory sorted by name.
func (h *StudentHandler) HandleList(ctx context.Context, input *ListStudentsRequest) (*StudentListResponse, error) {
	var students []models.Student
	if err := h.db.Where("active = ?", true).
		Order("last_name, first_name").
		Find(&students).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list students: " + err.Error())
	}

	res := &StudentListResponse{}
	res.Body.Students = make([]StudentPayload, 0, len(students))
	for _, s := range students {
		res.Body.Students = append(res.Body.Students, studentPayload(s))
	}
	return res, nil
}
