package board

import (
	"github.com/rocfit/classtrack-api/internal/client"
)

// deriveWalkIns computes the walk-in bucket from the three inputs that
// define it: every student with an attendance record who is in neither the
// enrolled nor the waitlist snapshot. Walk-ins are not stored; they are
// re-derived whenever meeting data loads so the buckets can never disagree.
//
// The student is reconstructed from the name fields carried on the record,
// because a quick-created walk-in may have no directory entry beyond them.
func deriveWalkIns(enrolled, waitlist []client.Student, records []client.AttendanceRecord) []client.Student {
	known := make(map[uint]struct{}, len(enrolled)+len(waitlist))
	for _, s := range enrolled {
		known[s.ID] = struct{}{}
	}
	for _, s := range waitlist {
		known[s.ID] = struct{}{}
	}

	var walkIns []client.Student
	for _, r := range records {
		if _, ok := known[r.StudentID]; ok {
			continue
		}
		walkIns = append(walkIns, client.Student{
			ID:          r.StudentID,
			DisplayName: r.StudentName,
			FirstName:   r.StudentFirstName,
			LastName:    r.StudentLastName,
		})
	}
	return sortedByName(walkIns)
}
