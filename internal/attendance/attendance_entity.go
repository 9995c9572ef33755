package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Absence is one unpaid day recorded against an employee profile. Payslip
// generation sums them per period when the caller does not state lop days.
type Absence struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeProfileID uuid.UUID `gorm:"type:uuid;not null;index:idx_absence_profile_date"`
	Date              time.Time `gorm:"type:date;not null;index:idx_absence_profile_date"`
	Reason            string    `gorm:"type:varchar(200)"`
	RecordedByUserID  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt         time.Time
}
