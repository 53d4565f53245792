package roster

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/rocfit/classtrack-api/internal/client"
)

type fakeBackend struct {
	directory []client.Student
	enrolled  []client.Student
	waitlist  []client.Student

	savedEnrolled []uint
	savedWaitlist []uint
	saveCalls     int
	saveErr       error
}

func (f *fakeBackend) ListStudents(ctx context.Context) ([]client.Student, error) {
	return f.directory, nil
}

func (f *fakeBackend) FetchActivity(ctx context.Context, activityID uint) (*client.ActivityDetail, error) {
	return &client.ActivityDetail{
		Activity: client.Activity{ID: activityID, Type: "Zumba"},
		Students: f.enrolled,
		Waitlist: f.waitlist,
	}, nil
}

func (f *fakeBackend) SaveEnrollment(ctx context.Context, activityID uint, enrolled, waitlist []uint) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveCalls++
	f.savedEnrolled = append([]uint(nil), enrolled...)
	f.savedWaitlist = append([]uint(nil), waitlist...)
	return nil
}

func student(id uint, first, last string) client.Student {
	return client.Student{ID: id, FirstName: first, LastName: last, DisplayName: first + " " + last}
}

func directory() []client.Student {
	return []client.Student{
		student(1, "Ada", "Lovelace"),
		student(2, "Grace", "Hopper"),
		student(3, "Alan", "Turing"),
		student(4, "Dorothy", "Vaughan"),
		student(5, "Mary", "Jackson"),
		student(6, "Katherine", "Johnson"),
	}
}

func loadedEditor(t *testing.T) (*Editor, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{
		directory: directory(),
		enrolled:  []client.Student{student(1, "Ada", "Lovelace"), student(2, "Grace", "Hopper")},
		waitlist:  []client.Student{student(3, "Alan", "Turing")},
	}
	e := New(backend)
	if err := e.Load(context.Background(), 7); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return e, backend
}

func bucketIDs(e *Editor, b Bucket) map[uint]bool {
	out := map[uint]bool{}
	for _, s := range e.Students(b) {
		out[s.ID] = true
	}
	return out
}

// checkPartition asserts the editor's core invariant: the three buckets are
// pairwise disjoint and their union is the whole directory.
func checkPartition(t *testing.T, e *Editor, directorySize int) {
	t.Helper()
	seen := map[uint]Bucket{}
	total := 0
	for _, b := range []Bucket{Available, Enrolled, Waitlist} {
		for _, s := range e.Students(b) {
			if prev, dup := seen[s.ID]; dup {
				t.Fatalf("student %d appears in both %s and %s", s.ID, prev, b)
			}
			seen[s.ID] = b
			total++
		}
	}
	if total != directorySize {
		t.Fatalf("buckets hold %d students, directory has %d", total, directorySize)
	}
}

func TestLoadPartitionsDirectory(t *testing.T) {
	e, _ := loadedEditor(t)
	checkPartition(t, e, 6)

	if got := bucketIDs(e, Enrolled); !got[1] || !got[2] || len(got) != 2 {
		t.Errorf("enrolled = %v", got)
	}
	if got := bucketIDs(e, Waitlist); !got[3] || len(got) != 1 {
		t.Errorf("waitlist = %v", got)
	}
	if got := bucketIDs(e, Available); !got[4] || !got[5] || !got[6] || len(got) != 3 {
		t.Errorf("available = %v", got)
	}
}

func TestBucketsSortedByLastThenFirstName(t *testing.T) {
	e, _ := loadedEditor(t)
	available := e.Students(Available)
	for i := 1; i < len(available); i++ {
		a, b := available[i-1], available[i]
		if a.LastName > b.LastName || (a.LastName == b.LastName && a.FirstName > b.FirstName) {
			t.Fatalf("bucket out of order: %s %s before %s %s", a.FirstName, a.LastName, b.FirstName, b.LastName)
		}
	}
}

func TestMoveTransfersSelection(t *testing.T) {
	e, _ := loadedEditor(t)

	if err := e.Move([]uint{4, 5}, Available, Enrolled); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	checkPartition(t, e, 6)

	enrolled := bucketIDs(e, Enrolled)
	if !enrolled[4] || !enrolled[5] {
		t.Error("moved students missing from destination")
	}
	available := bucketIDs(e, Available)
	if available[4] || available[5] {
		t.Error("moved students still present in source")
	}
}

func TestMoveIsAtomic(t *testing.T) {
	e, _ := loadedEditor(t)

	// Student 1 is enrolled, not available: the whole move must fail and
	// leave every bucket untouched.
	err := e.Move([]uint{4, 1}, Available, Waitlist)
	if !errors.Is(err, ErrNotInBucket) {
		t.Fatalf("err = %v, want ErrNotInBucket", err)
	}
	checkPartition(t, e, 6)
	if !bucketIDs(e, Available)[4] {
		t.Error("partial move happened: student 4 left available")
	}
}

func TestMoveValidation(t *testing.T) {
	e, _ := loadedEditor(t)

	if err := e.Move(nil, Available, Enrolled); !errors.Is(err, ErrEmptyMove) {
		t.Errorf("empty selection err = %v", err)
	}
	if err := e.Move([]uint{4}, Available, Available); !errors.Is(err, ErrSameBucket) {
		t.Errorf("same-bucket err = %v", err)
	}
	if err := e.Move([]uint{4}, Available, Bucket(42)); !errors.Is(err, ErrUnknownBucket) {
		t.Errorf("unknown bucket err = %v", err)
	}
}

func TestPartitionHoldsUnderRandomMoveSequences(t *testing.T) {
	e, _ := loadedEditor(t)
	rng := rand.New(rand.NewSource(1))
	buckets := []Bucket{Available, Enrolled, Waitlist}

	for step := 0; step < 200; step++ {
		from := buckets[rng.Intn(3)]
		to := buckets[rng.Intn(3)]
		members := e.Students(from)
		if from == to || len(members) == 0 {
			continue
		}
		// Random multi-select from the source bucket.
		var selection []uint
		for _, s := range members {
			if rng.Intn(2) == 0 {
				selection = append(selection, s.ID)
			}
		}
		if len(selection) == 0 {
			selection = []uint{members[0].ID}
		}
		if err := e.Move(selection, from, to); err != nil {
			t.Fatalf("step %d: Move returned error: %v", step, err)
		}
		checkPartition(t, e, 6)
	}
}

func TestFilter(t *testing.T) {
	e, _ := loadedEditor(t)

	got := e.Filter(Available, "john")
	if len(got) != 1 || got[0].ID != 6 {
		t.Errorf("Filter(available, john) = %v", got)
	}
	if got := e.Filter(Available, ""); len(got) != 3 {
		t.Errorf("empty filter should return the whole bucket, got %d", len(got))
	}
	if got := e.Filter(Available, "zzz"); len(got) != 0 {
		t.Errorf("no-match filter returned %d students", len(got))
	}
}

func TestSaveTransmitsEnrolledAndWaitlistOnly(t *testing.T) {
	e, backend := loadedEditor(t)

	if err := e.Move([]uint{4}, Available, Waitlist); err != nil {
		t.Fatal(err)
	}
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if backend.saveCalls != 1 {
		t.Fatalf("expected one save call, got %d", backend.saveCalls)
	}

	sort.Slice(backend.savedEnrolled, func(i, j int) bool { return backend.savedEnrolled[i] < backend.savedEnrolled[j] })
	sort.Slice(backend.savedWaitlist, func(i, j int) bool { return backend.savedWaitlist[i] < backend.savedWaitlist[j] })
	if len(backend.savedEnrolled) != 2 || backend.savedEnrolled[0] != 1 || backend.savedEnrolled[1] != 2 {
		t.Errorf("saved enrolled = %v, want [1 2]", backend.savedEnrolled)
	}
	if len(backend.savedWaitlist) != 2 || backend.savedWaitlist[0] != 3 || backend.savedWaitlist[1] != 4 {
		t.Errorf("saved waitlist = %v, want [3 4]", backend.savedWaitlist)
	}
}

func TestSaveFailureLeavesBucketsEditable(t *testing.T) {
	e, backend := loadedEditor(t)
	backend.saveErr = errors.New("backend down")

	if err := e.Save(context.Background()); err == nil {
		t.Fatal("expected save error")
	}
	checkPartition(t, e, 6)

	backend.saveErr = nil
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
}
