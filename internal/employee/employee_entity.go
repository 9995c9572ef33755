package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeNumber string    `gorm:"uniqueIndex"`
	FullName       string
	Email          string `gorm:"uniqueIndex"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Exactly one profile, created at onboarding, removed with the employee.
	Profile *EmployeeProfile `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

// EmployeeProfile carries the HR-facing details and anchors all
// compensation and payslip records via its id.
type EmployeeProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Department string
	Phone      string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
