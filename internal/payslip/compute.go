package payslip

import (
	"math"

	"paydesk/internal/ctc"
)

// ComputeOverrides replace the aggregate totals on the payslip header. Tax
// and loss-of-pay proration still derive from the CTC's own line items; the
// overrides shift only the final net figure. A nil pointer means "use the
// CTC's own total"; a pointer to zero means "this month the total really is
// zero".
type ComputeOverrides struct {
	AllowanceTotal *float64
	DeductionTotal *float64
}

// Computation is the full monetary breakdown of one pay period. All amounts
// are rounded to two decimals.
type Computation struct {
	Basic          float64
	HRA            float64
	AllowanceTotal float64
	DeductionTotal float64
	GrossPay       float64
	TaxDeducted    float64
	LopDays        float64
	LopDeduction   float64
	NetPay         float64
}

// lopDivisor fixes the notional month length for loss-of-pay proration.
const lopDivisor = 30.0

// Compute derives the pay breakdown for one period from an approved CTC.
// Basic, HRA, and line-item amounts are taken at monthly scale as stored.
// It is deterministic: the same structure, lop days, and overrides always
// produce the same result.
func Compute(structure ctc.CTCStructure, lopDays float64, overrides ComputeOverrides) Computation {
	allowanceBase := structure.AllowanceTotal()
	deductionBase := structure.DeductionTotal()

	grossBase := structure.Basic + structure.HRA + allowanceBase
	tax := (grossBase - deductionBase) * structure.TaxPercent / 100

	dailyRate := grossBase / lopDivisor
	lopDeduction := dailyRate * lopDays

	allowanceTotal := allowanceBase
	if overrides.AllowanceTotal != nil {
		allowanceTotal = *overrides.AllowanceTotal
	}
	deductionTotal := deductionBase
	if overrides.DeductionTotal != nil {
		deductionTotal = *overrides.DeductionTotal
	}

	gross := structure.Basic + structure.HRA + allowanceTotal
	net := gross - deductionTotal - tax - lopDeduction

	return Computation{
		Basic:          round2(structure.Basic),
		HRA:            round2(structure.HRA),
		AllowanceTotal: round2(allowanceTotal),
		DeductionTotal: round2(deductionTotal),
		GrossPay:       round2(gross),
		TaxDeducted:    round2(tax),
		LopDays:        lopDays,
		LopDeduction:   round2(lopDeduction),
		NetPay:         round2(net),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
