// Package roster is the enrollment-editing view-model: every student in the
// directory sits in exactly one of three buckets for an activity —
// available, enrolled or waitlisted — and moves between them as a set
// transfer.
package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rocfit/classtrack-api/internal/client"
)

// Backend is the slice of the API the editor needs.
type Backend interface {
	ListStudents(ctx context.Context) ([]client.Student, error)
	FetchActivity(ctx context.Context, activityID uint) (*client.ActivityDetail, error)
	SaveEnrollment(ctx context.Context, activityID uint, enrolled, waitlist []uint) error
}

// Bucket identifies one of the three columns.
type Bucket int

const (
	Available Bucket = iota
	Enrolled
	Waitlist
)

func (b Bucket) String() string {
	switch b {
	case Available:
		return "available"
	case Enrolled:
		return "enrolled"
	case Waitlist:
		return "waitlist"
	}
	return "unknown"
}

var (
	ErrNotLoaded     = errors.New("no activity loaded")
	ErrSameBucket    = errors.New("source and destination buckets are the same")
	ErrNotInBucket   = errors.New("student is not in the source bucket")
	ErrEmptyMove     = errors.New("no students selected")
	ErrUnknownBucket = errors.New("unknown bucket")
)

// Editor holds the three buckets for one activity. Not safe for concurrent
// use; it models a single staff member's screen.
type Editor struct {
	backend    Backend
	activityID uint
	activity   *client.Activity

	buckets map[Bucket][]client.Student
}

func New(backend Backend) *Editor {
	return &Editor{backend: backend}
}

// Load fetches the directory and the activity's enrollment snapshots, then
// partitions: available is everyone not enrolled or waitlisted.
func (e *Editor) Load(ctx context.Context, activityID uint) error {
	students, err := e.backend.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}
	detail, err := e.backend.FetchActivity(ctx, activityID)
	if err != nil {
		return fmt.Errorf("failed to load activity: %w", err)
	}

	taken := make(map[uint]struct{}, len(detail.Students)+len(detail.Waitlist))
	for _, s := range detail.Students {
		taken[s.ID] = struct{}{}
	}
	for _, s := range detail.Waitlist {
		taken[s.ID] = struct{}{}
	}

	var available []client.Student
	for _, s := range students {
		if _, ok := taken[s.ID]; !ok {
			available = append(available, s)
		}
	}

	e.activityID = activityID
	e.activity = &detail.Activity
	e.buckets = map[Bucket][]client.Student{
		Available: sortByName(available),
		Enrolled:  sortByName(detail.Students),
		Waitlist:  sortByName(detail.Waitlist),
	}
	return nil
}

// Activity returns the loaded activity, or nil.
func (e *Editor) Activity() *client.Activity { return e.activity }

// Students returns a bucket's members sorted by (last name, first name).
func (e *Editor) Students(b Bucket) []client.Student {
	return e.buckets[b]
}

// Filter returns the bucket members whose display name or email contains
// query, case-insensitively. An empty query returns the whole bucket.
func (e *Editor) Filter(b Bucket, query string) []client.Student {
	students := e.buckets[b]
	if query == "" {
		return students
	}
	q := strings.ToLower(query)
	var out []client.Student
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.DisplayName), q) ||
			strings.Contains(strings.ToLower(s.Email), q) {
			out = append(out, s)
		}
	}
	return out
}

// Move transfers the selected students from one bucket to another as a
// single atomic operation: if any selected id is missing from the source
// bucket, nothing moves. An id can never end up in two buckets.
func (e *Editor) Move(studentIDs []uint, from, to Bucket) error {
	if e.buckets == nil {
		return ErrNotLoaded
	}
	if from == to {
		return ErrSameBucket
	}
	if _, ok := e.buckets[from]; !ok {
		return ErrUnknownBucket
	}
	if _, ok := e.buckets[to]; !ok {
		return ErrUnknownBucket
	}
	if len(studentIDs) == 0 {
		return ErrEmptyMove
	}

	selected := make(map[uint]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		selected[id] = struct{}{}
	}

	// Validate the whole selection before touching anything.
	source := e.buckets[from]
	found := 0
	for _, s := range source {
		if _, ok := selected[s.ID]; ok {
			found++
		}
	}
	if found != len(selected) {
		return fmt.Errorf("%w: %s", ErrNotInBucket, from)
	}

	var keep, moved []client.Student
	for _, s := range source {
		if _, ok := selected[s.ID]; ok {
			moved = append(moved, s)
		} else {
			keep = append(keep, s)
		}
	}
	e.buckets[from] = keep
	e.buckets[to] = sortByName(append(e.buckets[to], moved...))
	return nil
}

// Save pushes the enrolled and waitlist id lists wholesale. Available is
// never transmitted; it is the complement.
func (e *Editor) Save(ctx context.Context) error {
	if e.buckets == nil {
		return ErrNotLoaded
	}
	if err := e.backend.SaveEnrollment(ctx, e.activityID, idsOf(e.buckets[Enrolled]), idsOf(e.buckets[Waitlist])); err != nil {
		return fmt.Errorf("failed to save enrollment: %w", err)
	}
	return nil
}

func idsOf(students []client.Student) []uint {
	out := make([]uint, len(students))
	for i, s := range students {
		out[i] = s.ID
	}
	return out
}

func sortByName(students []client.Student) []client.Student {
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students
}
