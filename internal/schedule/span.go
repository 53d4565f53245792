package schedule

import (
	"errors"
	"fmt"
)

// Session spans may only grow. Shrinking either end could orphan meetings
// and attendance already recorded outside the new range, so those edits are
// rejected outright.
var (
	ErrStartMovedForward = errors.New("start date cannot move later than the current start date")
	ErrEndMovedBackward  = errors.New("end date cannot move earlier than the current end date")
	ErrEmptySpan         = errors.New("end date must be after start date")
)

// ValidateSessionSpan checks a proposed (newStart, newEnd) edit against the
// stored (origStart, origEnd). All four arguments are ISO dates. It returns
// whether the proposal expands the span (the only permitted change besides a
// no-op) and a non-nil error when the edit must be rejected.
func ValidateSessionSpan(origStart, origEnd, newStart, newEnd string) (expanding bool, err error) {
	for _, d := range []string{origStart, origEnd, newStart, newEnd} {
		if _, perr := ParseDate(d); perr != nil {
			return false, fmt.Errorf("invalid date %q: must be YYYY-MM-DD", d)
		}
	}
	if newEnd <= newStart {
		return false, ErrEmptySpan
	}
	if newStart > origStart {
		return false, ErrStartMovedForward
	}
	if newEnd < origEnd {
		return false, ErrEndMovedBackward
	}
	return newStart < origStart || newEnd > origEnd, nil
}
