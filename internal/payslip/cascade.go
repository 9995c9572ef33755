package payslip

import (
	"github.com/google/uuid"

	"paydesk/internal/ctc"
)

// ReleaseRejections returns the ids of every sibling payslip that must move
// to Rejected when pivot is released: same profile and period, currently
// Approved, not the pivot itself. Pure function over the supplied slice.
func ReleaseRejections(pivot Payslip, siblings []Payslip) []uuid.UUID {
	var rejected []uuid.UUID
	for _, s := range siblings {
		if s.ID == pivot.ID {
			continue
		}
		if s.EmployeeProfileID != pivot.EmployeeProfileID {
			continue
		}
		if s.Year != pivot.Year || s.Month != pivot.Month {
			continue
		}
		if s.Status != ctc.StatusApproved {
			continue
		}
		rejected = append(rejected, s.ID)
	}
	return rejected
}
