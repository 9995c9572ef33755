package payslip_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"paydesk/internal/ctc"
	"paydesk/internal/payslip"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func ptr(v float64) *float64 { return &v }

func sampleCTC() ctc.CTCStructure {
	return ctc.CTCStructure{
		ID:                uuid.New(),
		EmployeeProfileID: uuid.New(),
		Basic:             12000,
		HRA:               6000,
		TaxPercent:        10,
		Status:            ctc.StatusApproved,
		IsApproved:        true,
	}
}

func TestCompute(t *testing.T) {
	t.Run("plain month", func(t *testing.T) {
		// gross 18000, tax 10% of 18000 = 1800, net 16200.
		result := payslip.Compute(sampleCTC(), 0, payslip.ComputeOverrides{})

		assert.Equal(t, float64(18000), result.GrossPay)
		assert.Equal(t, float64(1800), result.TaxDeducted)
		assert.Equal(t, float64(0), result.LopDeduction)
		assert.Equal(t, float64(16200), result.NetPay)
	})

	t.Run("line items feed tax and totals", func(t *testing.T) {
		structure := sampleCTC()
		structure.Allowances = []ctc.CTCAllowance{
			{Label: "Transport", Amount: 1500},
			{Label: "Meal", Amount: 500},
		}
		structure.Deductions = []ctc.CTCDeduction{
			{Label: "PF", Amount: 1000},
		}

		// gross 20000, taxable 19000, tax 1900, net 17100.
		result := payslip.Compute(structure, 0, payslip.ComputeOverrides{})

		assert.Equal(t, float64(2000), result.AllowanceTotal)
		assert.Equal(t, float64(1000), result.DeductionTotal)
		assert.Equal(t, float64(20000), result.GrossPay)
		assert.Equal(t, float64(1900), result.TaxDeducted)
		assert.Equal(t, float64(17100), result.NetPay)
	})

	t.Run("lop proration uses a thirty day month", func(t *testing.T) {
		// daily rate 18000/30 = 600; 3 lop days cost 1800.
		result := payslip.Compute(sampleCTC(), 3, payslip.ComputeOverrides{})

		assert.Equal(t, float64(1800), result.LopDeduction)
		assert.Equal(t, float64(14400), result.NetPay)
		assert.Equal(t, float64(3), result.LopDays)
	})

	t.Run("overrides replace header totals but not tax or lop", func(t *testing.T) {
		structure := sampleCTC()
		structure.Allowances = []ctc.CTCAllowance{{Label: "Transport", Amount: 2000}}
		structure.Deductions = []ctc.CTCDeduction{{Label: "PF", Amount: 1000}}

		// Base figures: gross 20000, taxable 19000, tax 1900, net 17100.
		// Overrides shift net by (3000-2000) - (500-1000) = +1500.
		result := payslip.Compute(structure, 0, payslip.ComputeOverrides{
			AllowanceTotal: ptr(3000),
			DeductionTotal: ptr(500),
		})

		assert.Equal(t, float64(3000), result.AllowanceTotal)
		assert.Equal(t, float64(500), result.DeductionTotal)
		assert.Equal(t, float64(1900), result.TaxDeducted)
		assert.Equal(t, float64(18600), result.NetPay)
	})

	t.Run("override to zero is honored", func(t *testing.T) {
		structure := sampleCTC()
		structure.Deductions = []ctc.CTCDeduction{{Label: "PF", Amount: 1000}}

		withZero := payslip.Compute(structure, 0, payslip.ComputeOverrides{DeductionTotal: ptr(0)})
		without := payslip.Compute(structure, 0, payslip.ComputeOverrides{})

		assert.Equal(t, float64(0), withZero.DeductionTotal)
		assert.Equal(t, without.NetPay+1000, withZero.NetPay)
	})

	t.Run("deterministic", func(t *testing.T) {
		structure := sampleCTC()
		structure.Allowances = []ctc.CTCAllowance{{Label: "Transport", Amount: 1234.56}}

		first := payslip.Compute(structure, 2.5, payslip.ComputeOverrides{AllowanceTotal: ptr(1000)})
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, payslip.Compute(structure, 2.5, payslip.ComputeOverrides{AllowanceTotal: ptr(1000)}))
		}
	})

	t.Run("amounts round to two decimals", func(t *testing.T) {
		structure := sampleCTC()
		structure.Basic = 10000.125
		structure.HRA = 0
		structure.TaxPercent = 10

		result := payslip.Compute(structure, 1, payslip.ComputeOverrides{})

		assert.Equal(t, float64(10000.13), result.Basic)
		assert.Equal(t, float64(1000.01), result.TaxDeducted)
		assert.Equal(t, float64(333.34), result.LopDeduction)
	})
}

func TestReleaseRejections(t *testing.T) {
	profileID := uuid.New()

	slip := func(pid uuid.UUID, year, month int, status ctc.Status) payslip.Payslip {
		return payslip.Payslip{
			ID:                uuid.New(),
			EmployeeProfileID: pid,
			Year:              year,
			Month:             month,
			Status:            status,
		}
	}

	t.Run("rejects approved siblings in the same period", func(t *testing.T) {
		pivot := slip(profileID, 2025, 9, ctc.StatusApproved)
		sibling := slip(profileID, 2025, 9, ctc.StatusApproved)
		otherMonth := slip(profileID, 2025, 10, ctc.StatusApproved)
		pendingSibling := slip(profileID, 2025, 9, ctc.StatusPending)
		otherEmployee := slip(uuid.New(), 2025, 9, ctc.StatusApproved)

		rejected := payslip.ReleaseRejections(pivot, []payslip.Payslip{
			pivot, sibling, otherMonth, pendingSibling, otherEmployee,
		})

		assert.Equal(t, []uuid.UUID{sibling.ID}, rejected)
	})

	t.Run("no siblings", func(t *testing.T) {
		pivot := slip(profileID, 2025, 9, ctc.StatusApproved)

		assert.Empty(t, payslip.ReleaseRejections(pivot, []payslip.Payslip{pivot}))
		assert.Empty(t, payslip.ReleaseRejections(pivot, nil))
	})
}
