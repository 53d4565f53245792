// Package planner is the cancellation view-model: for a chosen date it shows
// which activities meet that weekday, which occurrences in the surrounding
// weeks are already cancelled, and lets staff cancel a multi-selection with a
// shared reason.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rocfit/classtrack-api/internal/client"
	"github.com/rocfit/classtrack-api/internal/schedule"
)

// Backend is the slice of the API the planner needs.
type Backend interface {
	ListActivities(ctx context.Context) ([]client.Activity, error)
	ListCancellations(ctx context.Context, startDate, endDate string, organizationID uint) ([]client.Cancellation, error)
	CreateCancellation(ctx context.Context, activityID uint, date, reason string) (*client.Cancellation, error)
	DeleteCancellation(ctx context.Context, id uint) error
}

// windowDays is how far the cancellation list reaches on either side of the
// selected date.
const windowDays = 30

var (
	ErrNotLoaded       = errors.New("no date loaded")
	ErrNoSelection     = errors.New("no activities selected")
	ErrUnknownActivity = errors.New("activity does not meet on the selected date")
)

// Window returns the inclusive date range the planner queries around date.
func Window(date string) (start, end string, err error) {
	d, err := schedule.ParseDate(date)
	if err != nil {
		return "", "", err
	}
	start = d.AddDate(0, 0, -windowDays).Format(schedule.DateLayout)
	end = d.AddDate(0, 0, windowDays).Format(schedule.DateLayout)
	return start, end, nil
}

// Planner holds the candidate activities and nearby cancellations for one
// selected date. Not safe for concurrent use; it models a single staff
// member's screen.
type Planner struct {
	backend Backend

	date           string
	organizationID uint

	candidates    []client.Activity
	cancellations []client.Cancellation
}

func New(backend Backend) *Planner {
	return &Planner{backend: backend}
}

// Load selects a date and rebuilds both lists: activities whose weekday
// matches the date (optionally scoped to one organization; 0 means all), and
// cancellations within thirty days either side of it.
func (p *Planner) Load(ctx context.Context, date string, organizationID uint) error {
	d, err := schedule.ParseDate(date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	day := schedule.WeekdayName(d)
	start := d.AddDate(0, 0, -windowDays).Format(schedule.DateLayout)
	end := d.AddDate(0, 0, windowDays).Format(schedule.DateLayout)

	activities, err := p.backend.ListActivities(ctx)
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}
	cancellations, err := p.backend.ListCancellations(ctx, start, end, organizationID)
	if err != nil {
		return fmt.Errorf("failed to load cancellations: %w", err)
	}

	var candidates []client.Activity
	for _, a := range activities {
		if a.DayOfWeek != day {
			continue
		}
		if organizationID != 0 && a.OrganizationID != organizationID {
			continue
		}
		candidates = append(candidates, a)
	}
	sortActivities(candidates)
	sortCancellations(cancellations)

	p.date = date
	p.organizationID = organizationID
	p.candidates = candidates
	p.cancellations = cancellations
	return nil
}

// Date returns the selected date, or "".
func (p *Planner) Date() string { return p.date }

// Candidates returns the activities that meet on the selected date's weekday,
// in (day, time) order.
func (p *Planner) Candidates() []client.Activity { return p.candidates }

// Cancellations returns every cancellation inside the window, ordered by date
// then meeting time.
func (p *Planner) Cancellations() []client.Cancellation { return p.cancellations }

// IsCancelled reports whether the activity is already cancelled on the
// selected date.
func (p *Planner) IsCancelled(activityID uint) bool {
	for _, c := range p.cancellations {
		if c.ActivityID == activityID && c.Date == p.date {
			return true
		}
	}
	return false
}

// CancelAll cancels every selected activity on the loaded date with one
// shared reason. Cancellations are created one by one; on the first failure
// the error is returned, but occurrences already cancelled in this call stay
// cancelled. The window is refreshed either way so the list reflects what
// actually happened.
func (p *Planner) CancelAll(ctx context.Context, activityIDs []uint, reason string) error {
	if p.date == "" {
		return ErrNotLoaded
	}
	if len(activityIDs) == 0 {
		return ErrNoSelection
	}
	for _, id := range activityIDs {
		if !p.isCandidate(id) {
			return fmt.Errorf("%w: %d", ErrUnknownActivity, id)
		}
	}

	var firstErr error
	for _, id := range activityIDs {
		if p.IsCancelled(id) {
			continue
		}
		if _, err := p.backend.CreateCancellation(ctx, id, p.date, reason); err != nil {
			firstErr = fmt.Errorf("failed to cancel activity %d: %w", id, err)
			break
		}
	}

	if err := p.refresh(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Uncancel deletes a cancellation and drops it from the local window.
func (p *Planner) Uncancel(ctx context.Context, cancellationID uint) error {
	if p.date == "" {
		return ErrNotLoaded
	}
	if err := p.backend.DeleteCancellation(ctx, cancellationID); err != nil {
		return fmt.Errorf("failed to delete cancellation: %w", err)
	}
	kept := p.cancellations[:0]
	for _, c := range p.cancellations {
		if c.ID != cancellationID {
			kept = append(kept, c)
		}
	}
	p.cancellations = kept
	return nil
}

func (p *Planner) refresh(ctx context.Context) error {
	start, end, err := Window(p.date)
	if err != nil {
		return err
	}
	cancellations, err := p.backend.ListCancellations(ctx, start, end, p.organizationID)
	if err != nil {
		return fmt.Errorf("failed to refresh cancellations: %w", err)
	}
	sortCancellations(cancellations)
	p.cancellations = cancellations
	return nil
}

func (p *Planner) isCandidate(activityID uint) bool {
	for _, a := range p.candidates {
		if a.ID == activityID {
			return true
		}
	}
	return false
}

func sortActivities(activities []client.Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		si := schedule.Scalar(activities[i].DayOfWeek, activities[i].Time)
		sj := schedule.Scalar(activities[j].DayOfWeek, activities[j].Time)
		if si != sj {
			return si < sj
		}
		return activities[i].Type < activities[j].Type
	})
}

func sortCancellations(cancellations []client.Cancellation) {
	sort.SliceStable(cancellations, func(i, j int) bool {
		if cancellations[i].Date != cancellations[j].Date {
			return cancellations[i].Date < cancellations[j].Date
		}
		si := schedule.Scalar(cancellations[i].ActivityDay, cancellations[i].ActivityTime)
		sj := schedule.Scalar(cancellations[j].ActivityDay, cancellations[j].ActivityTime)
		return si < sj
	})
}
