package ctc

import (
	"time"

	"github.com/google/uuid"
)

// RetroactiveRejections returns the ids of approved records invalidated by
// approving pivot: every other approved record for the same profile whose
// window starts after pivot's. Approving an earlier-dated record always wins
// over later ones already approved; the rejected side is not re-checked for
// overlap. Pure function so the invariant-restoring step is testable without
// a database.
func RetroactiveRejections(pivot CTCStructure, approved []CTCStructure) []uuid.UUID {
	var rejected []uuid.UUID
	for _, other := range approved {
		if other.ID == pivot.ID {
			continue
		}
		if other.EmployeeProfileID != pivot.EmployeeProfileID {
			continue
		}
		if other.Status != StatusApproved {
			continue
		}
		if other.EffectiveFrom.After(pivot.EffectiveFrom) {
			rejected = append(rejected, other.ID)
		}
	}
	return rejected
}

// Overlaps reports whether two half-open windows [from, to) intersect.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return aFrom.Before(bTo) && aTo.After(bFrom)
}
