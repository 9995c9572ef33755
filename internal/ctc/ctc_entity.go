package ctc

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of lifecycle states for a compensation record.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CTCStructure is one employee's full compensation package, valid for a
// fixed one-year window starting at EffectiveFrom. Amounts are immutable
// after creation; only the status moves.
type CTCStructure struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeProfileID uuid.UUID `gorm:"type:uuid;not null;index:idx_ctc_profile_status"`

	Basic      float64 `gorm:"not null"`
	HRA        float64 `gorm:"not null;default:0"`
	TaxPercent float64 `gorm:"not null;default:0"`
	GrossCTC   float64 `gorm:"not null;default:0"`

	// EffectiveTo is always EffectiveFrom plus one year, assigned by the
	// system. The window is half-open: [EffectiveFrom, EffectiveTo).
	EffectiveFrom time.Time `gorm:"type:date;not null;index"`
	EffectiveTo   time.Time `gorm:"type:date;not null"`

	Status          Status    `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_ctc_profile_status"`
	IsApproved      bool      `gorm:"not null;default:false"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Allowances []CTCAllowance `gorm:"foreignKey:CTCStructureID;constraint:OnDelete:CASCADE"`
	Deductions []CTCDeduction `gorm:"foreignKey:CTCStructureID;constraint:OnDelete:CASCADE"`
}

type CTCAllowance struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CTCStructureID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label          string    `gorm:"type:varchar(120);not null"`
	Amount         float64   `gorm:"not null"`
	Position       int       `gorm:"not null;default:0"`
}

type CTCDeduction struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CTCStructureID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label          string    `gorm:"type:varchar(120);not null"`
	Amount         float64   `gorm:"not null"`
	Position       int       `gorm:"not null;default:0"`
}

func (c *CTCStructure) AllowanceTotal() float64 {
	var total float64
	for _, a := range c.Allowances {
		total += a.Amount
	}
	return total
}

func (c *CTCStructure) DeductionTotal() float64 {
	var total float64
	for _, d := range c.Deductions {
		total += d.Amount
	}
	return total
}
