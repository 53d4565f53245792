package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rocfit/classtrack-api/internal/models"
	"github.com/rocfit/classtrack-api/internal/sheets"
	"gorm.io/gorm"
)

type SignInSheetHandler struct {
	db  *gorm.DB
	dir string
}

// NewSignInSheetHandler builds the handler; generated workbooks land in dir.
func NewSignInSheetHandler(db *gorm.DB, dir string) *SignInSheetHandler {
	return &SignInSheetHandler{db: db, dir: dir}
}

type GenerateSignInSheetRequest struct {
	ActivityID uint `path:"id"`
	Body       struct {
		NumWeeks int `json:"num_weeks" doc:"Weekly date columns; 0 derives the count from the session span"`
	}
}

type GenerateSignInSheetResponse struct {
	Body struct {
		Filename string `json:"filename"`
		Path     string `json:"path"`
		NumWeeks int    `json:"num_weeks"`
	}
}

// HandleGenerate builds a printable sign-in workbook for an activity: a date
// column per week of the session, a row per enrolled student and a walk-in
// section. The file is written server-side with a random suffix so
// regenerating never clobbers a sheet someone already printed.
func (h *SignInSheetHandler) HandleGenerate(ctx context.Context, input *GenerateSignInSheetRequest) (*GenerateSignInSheetResponse, error) {
	var activity models.Activity
	if err := h.db.Preload("Session.Organization").First(&activity, input.ActivityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Activity not found")
		}
		return nil, huma.Error500InternalServerError("Database error")
	}

	numWeeks := input.Body.NumWeeks
	if numWeeks == 0 {
		numWeeks = sheets.NumWeeks(activity.Session.StartDate, activity.Session.EndDate)
	}
	if numWeeks < sheets.MinWeeks || numWeeks > sheets.MaxWeeks {
		return nil, huma.Error400BadRequest(fmt.Sprintf("num_weeks must be between %d and %d", sheets.MinWeeks, sheets.MaxWeeks))
	}

	enrolled, waitlist, err := enrollmentSnapshots(h.db, activity.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load enrollment: " + err.Error())
	}

	info := sheets.SheetInfo{
		SessionName: activity.Session.Name,
		DayOfWeek:   activity.DayOfWeek,
		Type:        activity.Type,
	}
	f, err := sheets.Generate(info, activity.Session.StartDate, numWeeks, names(enrolled), names(waitlist))
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to build sheet: " + err.Error())
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheets.WorksheetTitle(time.Now())); err != nil {
		return nil, huma.Error500InternalServerError("Failed to name worksheet: " + err.Error())
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return nil, huma.Error500InternalServerError("Failed to prepare output directory: " + err.Error())
	}
	filename := fmt.Sprintf("%s-%s.xlsx", sanitizeFilename(info.Title()), uuid.NewString()[:8])
	path := filepath.Join(h.dir, filename)
	if err := f.SaveAs(path); err != nil {
		return nil, huma.Error500InternalServerError("Failed to write sheet: " + err.Error())
	}

	res := &GenerateSignInSheetResponse{}
	res.Body.Filename = filename
	res.Body.Path = path
	res.Body.NumWeeks = numWeeks
	return res, nil
}

func names(students []StudentPayload) []string {
	out := make([]string, len(students))
	for i, s := range students {
		out[i] = s.DisplayName
	}
	return out
}

// sanitizeFilename keeps letters, digits, dashes and spaces; everything else
// becomes a dash so the title survives as a filesystem name.
func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == ' ':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
