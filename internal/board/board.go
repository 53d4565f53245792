// Package board is the attendance-taking view-model: one meeting's enrolled,
// waitlist and walk-in buckets plus a status-per-student map, with
// batch-save and auto-save persistence behind a single switch.
package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rocfit/classtrack-api/internal/client"
	"github.com/rocfit/classtrack-api/internal/models"
)

// Backend is the slice of the API the board needs.
type Backend interface {
	ResolveMeeting(ctx context.Context, activityID uint, date string) (*client.Meeting, error)
	SaveAttendance(ctx context.Context, meetingID uint, records []client.RecordInput) error
	SearchStudents(ctx context.Context, query string) ([]client.Student, error)
	QuickCreateStudent(ctx context.Context, firstName, lastName, email string) (*client.Student, error)
}

// SaveMode selects when status mutations are persisted.
type SaveMode int

const (
	// SaveOnDemand accumulates mutations locally until Save is called.
	SaveOnDemand SaveMode = iota
	// SaveImmediately pushes the full attendance snapshot after every
	// mutation.
	SaveImmediately
)

// minSearchLen is the shortest query worth sending to the directory.
const minSearchLen = 2

var (
	ErrNotLoaded     = errors.New("no meeting loaded")
	ErrAlreadyListed = errors.New("student is already in the attendance list")
	ErrMissingName   = errors.New("at least a first name is required")
	ErrNotConfirmed  = errors.New("clearing attendance requires confirmation")
	ErrStaleLoad     = errors.New("superseded by a newer load")
)

// Entry is one student's tracked status and note.
type Entry struct {
	Status string
	Note   string
}

// Board holds the attendance state for one resolved meeting. It is not safe
// for concurrent use; it models a single-operator screen.
type Board struct {
	backend Backend
	mode    SaveMode

	// gen guards against stale resolve responses: each Load bumps it, and a
	// response is dropped unless it still matches.
	gen uint64

	meeting    *client.Meeting
	enrolled   []client.Student
	waitlist   []client.Student
	walkIns    []client.Student
	attendance map[uint]Entry

	searchQuery   string
	searchResults []client.Student

	// lastSaveErr keeps the most recent auto-save failure. Local state is
	// intentionally not rolled back; a refresh reconciles it.
	lastSaveErr error
}

func New(backend Backend, mode SaveMode) *Board {
	return &Board{backend: backend, mode: mode}
}

// Load resolves the meeting for (activityID, date) and rebuilds all buckets.
// If another Load starts before this one's response arrives, the late
// response is discarded and ErrStaleLoad is returned.
func (b *Board) Load(ctx context.Context, activityID uint, date string) error {
	b.gen++
	gen := b.gen

	meeting, err := b.backend.ResolveMeeting(ctx, activityID, date)
	if err != nil {
		return fmt.Errorf("meeting data unavailable: %w", err)
	}
	if gen != b.gen {
		return ErrStaleLoad
	}

	b.meeting = meeting
	b.enrolled = sortedByName(meeting.Enrolled)
	b.waitlist = sortedByName(meeting.Waitlist)
	b.attendance = make(map[uint]Entry, len(meeting.Records))
	for _, r := range meeting.Records {
		b.attendance[r.StudentID] = Entry{Status: r.Status, Note: r.Note}
	}
	b.walkIns = deriveWalkIns(b.enrolled, b.waitlist, meeting.Records)
	b.searchQuery = ""
	b.searchResults = nil
	b.lastSaveErr = nil
	return nil
}

// Meeting returns the loaded meeting, or nil.
func (b *Board) Meeting() *client.Meeting { return b.meeting }

// Enrolled, Waitlist and WalkIns expose the three buckets sorted by
// (last name, first name).
func (b *Board) Enrolled() []client.Student { return b.enrolled }
func (b *Board) Waitlist() []client.Student { return b.waitlist }
func (b *Board) WalkIns() []client.Student  { return b.walkIns }

// SearchResults returns the current walk-in candidates.
func (b *Board) SearchResults() []client.Student { return b.searchResults }

// LastSaveError reports the most recent auto-save failure, if any.
func (b *Board) LastSaveError() error { return b.lastSaveErr }

// Status returns a student's attendance status; students without a record
// are implicitly scheduled.
func (b *Board) Status(studentID uint) string {
	if e, ok := b.attendance[studentID]; ok {
		return e.Status
	}
	return models.StatusScheduled
}

// SetStatus upserts the student's attendance entry. In SaveImmediately mode
// the full snapshot is pushed at once; a failed push keeps the local change
// and is also recorded in LastSaveError.
func (b *Board) SetStatus(ctx context.Context, studentID uint, status string) error {
	if b.meeting == nil {
		return ErrNotLoaded
	}
	if !models.ValidStatus(status) {
		return fmt.Errorf("invalid attendance status %q", status)
	}
	e := b.attendance[studentID]
	e.Status = status
	b.attendance[studentID] = e
	return b.autoSave(ctx)
}

// SetNote upserts the student's note without touching the status.
func (b *Board) SetNote(ctx context.Context, studentID uint, note string) error {
	if b.meeting == nil {
		return ErrNotLoaded
	}
	e, ok := b.attendance[studentID]
	if !ok {
		e = Entry{Status: models.StatusScheduled}
	}
	e.Note = note
	b.attendance[studentID] = e
	return b.autoSave(ctx)
}

// Search queries the directory for walk-in candidates. Queries under two
// characters clear the results without hitting the server. Students already
// in any bucket are filtered out here, client-side: the server cannot know
// about walk-ins added locally since the last save.
func (b *Board) Search(ctx context.Context, query string) error {
	b.searchQuery = query
	if len(strings.TrimSpace(query)) < minSearchLen {
		b.searchResults = nil
		return nil
	}
	results, err := b.backend.SearchStudents(ctx, query)
	if err != nil {
		b.searchResults = nil
		return fmt.Errorf("student search failed: %w", err)
	}
	filtered := results[:0]
	for _, s := range results {
		if !b.inAnyBucket(s.ID) {
			filtered = append(filtered, s)
		}
	}
	b.searchResults = filtered
	return nil
}

// AddWalkIn adds a student to the walk-in bucket and marks them present;
// someone standing in front of you searching for their name is, by
// definition, here. Students already enrolled, waitlisted or added are
// rejected with ErrAlreadyListed.
func (b *Board) AddWalkIn(ctx context.Context, student client.Student) error {
	if b.meeting == nil {
		return ErrNotLoaded
	}
	if b.inAnyBucket(student.ID) {
		return ErrAlreadyListed
	}
	b.walkIns = sortedByName(append(b.walkIns, student))
	b.attendance[student.ID] = Entry{Status: models.StatusPresent}
	b.searchQuery = ""
	b.searchResults = nil
	return b.autoSave(ctx)
}

// QuickCreateWalkIn creates a directory entry from free-form name text
// ("First Last ...") and adds the new student as a walk-in.
func (b *Board) QuickCreateWalkIn(ctx context.Context, rawName string) (*client.Student, error) {
	if b.meeting == nil {
		return nil, ErrNotLoaded
	}
	fields := strings.Fields(rawName)
	if len(fields) == 0 {
		return nil, ErrMissingName
	}
	firstName := fields[0]
	lastName := strings.Join(fields[1:], " ")

	student, err := b.backend.QuickCreateStudent(ctx, firstName, lastName, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	if err := b.AddWalkIn(ctx, *student); err != nil {
		return nil, err
	}
	return student, nil
}

// RemoveWalkIn drops the student from the walk-in bucket and erases their
// attendance entry entirely. Unlike ClearAll, removal does not leave a
// scheduled record behind; re-adding the student starts fresh at present.
func (b *Board) RemoveWalkIn(ctx context.Context, studentID uint) error {
	if b.meeting == nil {
		return ErrNotLoaded
	}
	kept := b.walkIns[:0]
	for _, s := range b.walkIns {
		if s.ID != studentID {
			kept = append(kept, s)
		}
	}
	b.walkIns = kept
	delete(b.attendance, studentID)
	return b.autoSave(ctx)
}

// ClearAll resets every tracked entry to scheduled and persists in a single
// batch. It is destructive, so the caller must pass confirm=true after an
// explicit user confirmation. The set of tracked students is unchanged.
func (b *Board) ClearAll(ctx context.Context, confirm bool) error {
	if b.meeting == nil {
		return ErrNotLoaded
	}
	if !confirm {
		return ErrNotConfirmed
	}
	cleared := make(map[uint]Entry, len(b.attendance))
	for id, e := range b.attendance {
		e.Status = models.StatusScheduled
		cleared[id] = e
	}
	if err := b.backend.SaveAttendance(ctx, b.meeting.ID, snapshot(cleared)); err != nil {
		return fmt.Errorf("failed to clear attendance: %w", err)
	}
	b.attendance = cleared
	return nil
}

// Save pushes the full attendance snapshot. In SaveOnDemand mode this is the
// one persistence point; in SaveImmediately mode it is a no-op safety valve
// the caller may still invoke.
func (b *Board) Save(ctx context.Context) error {
	if b.meeting == nil {
		return ErrNotLoaded
	}
	if err := b.backend.SaveAttendance(ctx, b.meeting.ID, snapshot(b.attendance)); err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	b.lastSaveErr = nil
	return nil
}

func (b *Board) autoSave(ctx context.Context) error {
	if b.mode != SaveImmediately {
		return nil
	}
	if err := b.backend.SaveAttendance(ctx, b.meeting.ID, snapshot(b.attendance)); err != nil {
		b.lastSaveErr = fmt.Errorf("failed to save attendance: %w", err)
		return b.lastSaveErr
	}
	b.lastSaveErr = nil
	return nil
}

func (b *Board) inAnyBucket(studentID uint) bool {
	return containsStudent(b.enrolled, studentID) ||
		containsStudent(b.waitlist, studentID) ||
		containsStudent(b.walkIns, studentID)
}

// snapshot flattens the attendance map into the wire shape, ordered by
// student id so repeated saves of the same state are byte-identical.
func snapshot(attendance map[uint]Entry) []client.RecordInput {
	records := make([]client.RecordInput, 0, len(attendance))
	for id, e := range attendance {
		records = append(records, client.RecordInput{StudentID: id, Status: e.Status, Note: e.Note})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StudentID < records[j].StudentID })
	return records
}

func containsStudent(list []client.Student, id uint) bool {
	for _, s := range list {
		if s.ID == id {
			return true
		}
	}
	return false
}

func sortedByName(students []client.Student) []client.Student {
	out := make([]client.Student, len(students))
	copy(out, students)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}
