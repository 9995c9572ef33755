package payslip

import (
	"time"

	"github.com/google/uuid"

	"paydesk/internal/ctc"
)

// Payslip snapshots the CTC inputs it was computed from. Once released the
// record is terminal: amounts, line items, and status never change again.
type Payslip struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayslipNumber     string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	EmployeeProfileID uuid.UUID `gorm:"type:uuid;not null;index:idx_payslip_profile_period"`
	CTCStructureID    uuid.UUID `gorm:"type:uuid;not null"`

	Year  int `gorm:"not null;index:idx_payslip_profile_period"`
	Month int `gorm:"not null;index:idx_payslip_profile_period"`

	Basic          float64 `gorm:"not null"`
	HRA            float64 `gorm:"not null;default:0"`
	AllowanceTotal float64 `gorm:"not null;default:0"`
	DeductionTotal float64 `gorm:"not null;default:0"`
	GrossPay       float64 `gorm:"not null"`
	TaxDeducted    float64 `gorm:"not null;default:0"`
	LopDays        float64 `gorm:"not null;default:0"`
	LopDeduction   float64 `gorm:"not null;default:0"`
	NetPay         float64 `gorm:"not null"`

	Status     ctc.Status `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_payslip_profile_period"`
	IsReleased bool       `gorm:"not null;default:false"`

	CreatedByUserID uuid.UUID  `gorm:"type:uuid;not null"`
	ReleasedByUserID *uuid.UUID `gorm:"type:uuid"`
	ReleasedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Allowances []PayslipAllowance `gorm:"foreignKey:PayslipID;constraint:OnDelete:CASCADE"`
	Deductions []PayslipDeduction `gorm:"foreignKey:PayslipID;constraint:OnDelete:CASCADE"`
}

type PayslipAllowance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayslipID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label     string    `gorm:"type:varchar(120);not null"`
	Amount    float64   `gorm:"not null"`
	Position  int       `gorm:"not null;default:0"`
}

type PayslipDeduction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PayslipID uuid.UUID `gorm:"type:uuid;not null;index"`
	Label     string    `gorm:"type:varchar(120);not null"`
	Amount    float64   `gorm:"not null"`
	Position  int       `gorm:"not null;default:0"`
}

// Terminal reports whether the record can never change again.
func (p *Payslip) Terminal() bool {
	return p.IsReleased
}
