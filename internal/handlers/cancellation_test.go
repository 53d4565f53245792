package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/rocfit/classtrack-api/internal/models"
)

type fakeNotifier struct {
	cancelled   []string
	reinstated  []string
	notifierErr error
}

func (f *fakeNotifier) NotifyCancellation(activity models.Activity, c models.Cancellation) error {
	f.cancelled = append(f.cancelled, c.Date)
	return f.notifierErr
}

func (f *fakeNotifier) NotifyUncancellation(activity models.Activity, date string) error {
	f.reinstated = append(f.reinstated, date)
	return f.notifierErr
}

func TestHandleCreateCancellation(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	n := &fakeNotifier{}
	handler := NewCancellationHandler(db, n)

	req := &CreateCancellationRequest{}
	req.Body.Activity = f.activity.ID
	req.Body.Date = "2024-06-15"
	req.Body.Reason = "Pool closed"

	resp, err := handler.HandleCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	if resp.Body.Date != "2024-06-15" || resp.Body.Reason != "Pool closed" {
		t.Errorf("cancellation = %+v", resp.Body)
	}
	if resp.Body.ActivityType != "Zumba" || resp.Body.OrganizationName != "Rochester Rec" {
		t.Errorf("denormalized context = %q / %q", resp.Body.ActivityType, resp.Body.OrganizationName)
	}
	if len(n.cancelled) != 1 {
		t.Errorf("notifier called %d times, want 1", len(n.cancelled))
	}

	t.Run("same occurrence twice is a conflict", func(t *testing.T) {
		if _, err := handler.HandleCreate(context.Background(), req); err == nil {
			t.Error("expected conflict for duplicate cancellation")
		}
		var count int64
		db.Model(&models.Cancellation{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 cancellation in DB, got %d", count)
		}
	})

	t.Run("notifier failure does not block the cancellation", func(t *testing.T) {
		n.notifierErr = errors.New("discord down")
		req2 := &CreateCancellationRequest{}
		req2.Body.Activity = f.activity.ID
		req2.Body.Date = "2024-06-22"
		if _, err := handler.HandleCreate(context.Background(), req2); err != nil {
			t.Fatalf("HandleCreate returned error despite notifier failure: %v", err)
		}
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		bad := &CreateCancellationRequest{}
		bad.Body.Activity = f.activity.ID
		bad.Body.Date = "June 15"
		if _, err := handler.HandleCreate(context.Background(), bad); err == nil {
			t.Error("expected error for malformed date")
		}
	})
}

func TestHandleListCancellations(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	handler := NewCancellationHandler(db, nil)

	dates := []string{"2024-05-15", "2024-05-16", "2024-07-15", "2024-07-16"}
	for _, d := range dates {
		c := models.Cancellation{ActivityID: f.activity.ID, Date: d}
		if err := db.Create(&c).Error; err != nil {
			t.Fatal(err)
		}
	}

	// The window is inclusive on both ends.
	resp, err := handler.HandleList(context.Background(), &ListCancellationsRequest{
		StartDate: "2024-05-16",
		EndDate:   "2024-07-15",
	})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	got := resp.Body.Cancellations
	if len(got) != 2 {
		t.Fatalf("got %d cancellations, want the 2 inside the window", len(got))
	}
	if got[0].Date != "2024-05-16" || got[1].Date != "2024-07-15" {
		t.Errorf("dates = [%s, %s]", got[0].Date, got[1].Date)
	}

	t.Run("organization filter", func(t *testing.T) {
		resp, err := handler.HandleList(context.Background(), &ListCancellationsRequest{
			StartDate:      "2024-05-16",
			EndDate:        "2024-07-15",
			OrganizationID: f.org.ID + 100,
		})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		if len(resp.Body.Cancellations) != 0 {
			t.Errorf("foreign organization matched %d cancellations", len(resp.Body.Cancellations))
		}
	})

	t.Run("window dates validated", func(t *testing.T) {
		_, err := handler.HandleList(context.Background(), &ListCancellationsRequest{StartDate: "bad", EndDate: "2024-07-15"})
		if err == nil {
			t.Error("expected error for malformed start date")
		}
	})
}

func TestHandleDeleteCancellation(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	n := &fakeNotifier{}
	handler := NewCancellationHandler(db, n)

	c := models.Cancellation{ActivityID: f.activity.ID, Date: "2024-06-15"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := handler.HandleDelete(context.Background(), &DeleteCancellationRequest{CancellationID: c.ID}); err != nil {
		t.Fatalf("HandleDelete returned error: %v", err)
	}
	var count int64
	db.Model(&models.Cancellation{}).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 cancellations after delete, got %d", count)
	}
	if len(n.reinstated) != 1 || n.reinstated[0] != "2024-06-15" {
		t.Errorf("reinstatement notices = %v", n.reinstated)
	}

	// Deleting frees the (activity, date) pair for a fresh cancellation.
	create := &CreateCancellationRequest{}
	create.Body.Activity = f.activity.ID
	create.Body.Date = "2024-06-15"
	if _, err := handler.HandleCreate(context.Background(), create); err != nil {
		t.Fatalf("re-cancel after delete returned error: %v", err)
	}

	if _, err := handler.HandleDelete(context.Background(), &DeleteCancellationRequest{CancellationID: 9999}); err == nil {
		t.Error("expected error for unknown cancellation")
	}
}
