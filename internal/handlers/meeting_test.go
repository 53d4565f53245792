package handlers

import (
	"context"
	"testing"

	"github.com/rocfit/classtrack-api/internal/models"
)

func TestHandleResolve(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	handler := NewMeetingHandler(db)

	req := &ResolveMeetingRequest{}
	req.Body.ActivityID = f.activity.ID
	req.Body.Date = "2024-06-15"

	resp, err := handler.HandleResolve(context.Background(), req)
	if err != nil {
		t.Fatalf("first HandleResolve returned error: %v", err)
	}

	if resp.Body.Date != "2024-06-15" || resp.Body.ActivityID != f.activity.ID {
		t.Errorf("meeting = %+v", resp.Body)
	}
	if resp.Body.SessionName != "Summer 2024" || resp.Body.OrganizationName != "Rochester Rec" {
		t.Errorf("display context = %q / %q", resp.Body.SessionName, resp.Body.OrganizationName)
	}

	// A new meeting is pre-populated with one scheduled record per enrolled
	// student; the waitlisted student gets none.
	if len(resp.Body.Records) != 2 {
		t.Fatalf("got %d seeded records, want 2", len(resp.Body.Records))
	}
	for _, r := range resp.Body.Records {
		if r.Status != models.StatusScheduled {
			t.Errorf("seeded record status = %q, want scheduled", r.Status)
		}
		if r.StudentID == f.students[2].ID {
			t.Error("waitlisted student received a seeded record")
		}
		if r.StudentName == "" {
			t.Error("record is missing the denormalized student name")
		}
	}
	if len(resp.Body.Enrolled) != 2 || len(resp.Body.Waitlist) != 1 {
		t.Errorf("snapshots = %d enrolled, %d waitlisted", len(resp.Body.Enrolled), len(resp.Body.Waitlist))
	}

	// Resolving again must land on the same meeting, not create a second.
	again, err := handler.HandleResolve(context.Background(), req)
	if err != nil {
		t.Fatalf("second HandleResolve returned error: %v", err)
	}
	if again.Body.ID != resp.Body.ID {
		t.Errorf("second resolve returned meeting %d, first returned %d", again.Body.ID, resp.Body.ID)
	}

	var count int64
	db.Model(&models.Meeting{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 meeting in DB, got %d", count)
	}
	db.Model(&models.AttendanceRecord{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 records in DB, got %d", count)
	}
}

func TestHandleResolveValidation(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	handler := NewMeetingHandler(db)

	req := &ResolveMeetingRequest{}
	req.Body.ActivityID = f.activity.ID
	req.Body.Date = "06/15/2024"
	if _, err := handler.HandleResolve(context.Background(), req); err == nil {
		t.Error("expected error for malformed date")
	}

	req.Body.ActivityID = 9999
	req.Body.Date = "2024-06-15"
	if _, err := handler.HandleResolve(context.Background(), req); err == nil {
		t.Error("expected error for unknown activity")
	}
}

func TestHandleSaveAttendance(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	handler := NewMeetingHandler(db)

	resolve := &ResolveMeetingRequest{}
	resolve.Body.ActivityID = f.activity.ID
	resolve.Body.Date = "2024-06-15"
	meeting, err := handler.HandleResolve(context.Background(), resolve)
	if err != nil {
		t.Fatal(err)
	}

	save := &SaveAttendanceRequest{MeetingID: meeting.Body.ID}
	save.Body.Records = []RecordInputPayload{
		{StudentID: f.students[0].ID, Status: models.StatusPresent},
		{StudentID: f.students[1].ID, Status: models.StatusExpectedAbsence, Note: "vacation"},
		{StudentID: f.students[2].ID, Status: models.StatusPresent}, // walk-in from the waitlist
	}
	if _, err := handler.HandleSaveAttendance(context.Background(), save); err != nil {
		t.Fatalf("HandleSaveAttendance returned error: %v", err)
	}

	var records []models.AttendanceRecord
	db.Where("meeting_id = ?", meeting.Body.ID).Order("student_id").Find(&records)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[1].Status != models.StatusExpectedAbsence || records[1].Note != "vacation" {
		t.Errorf("record = %+v", records[1])
	}

	t.Run("snapshot replaces, missing records are deleted", func(t *testing.T) {
		save.Body.Records = save.Body.Records[:1]
		if _, err := handler.HandleSaveAttendance(context.Background(), save); err != nil {
			t.Fatalf("HandleSaveAttendance returned error: %v", err)
		}
		var count int64
		db.Model(&models.AttendanceRecord{}).Where("meeting_id = ?", meeting.Body.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 record after shrinking snapshot, got %d", count)
		}
	})

	t.Run("invalid status rejected before any write", func(t *testing.T) {
		save.Body.Records = []RecordInputPayload{{StudentID: f.students[0].ID, Status: "vanished"}}
		if _, err := handler.HandleSaveAttendance(context.Background(), save); err == nil {
			t.Error("expected error for invalid status")
		}
	})

	t.Run("unknown meeting", func(t *testing.T) {
		bad := &SaveAttendanceRequest{MeetingID: 9999}
		if _, err := handler.HandleSaveAttendance(context.Background(), bad); err == nil {
			t.Error("expected error for unknown meeting")
		}
	})
}
