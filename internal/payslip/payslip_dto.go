package payslip

type GeneratePayslipRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Year       int    `json:"year" binding:"required"`
	Month      int    `json:"month" binding:"required"`

	// LopDays, when omitted, falls back to the recorded unpaid absences
	// for the period.
	LopDays                *float64 `json:"lop_days"`
	OverrideAllowanceTotal *float64 `json:"override_allowance_total"`
	OverrideDeductionTotal *float64 `json:"override_deduction_total"`
}

type LineItemResponse struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type PayslipResponse struct {
	ID                string             `json:"id"`
	PayslipNumber     string             `json:"payslip_number"`
	EmployeeProfileID string             `json:"employee_profile_id"`
	CTCStructureID    string             `json:"ctc_structure_id"`
	Year              int                `json:"year"`
	Month             int                `json:"month"`
	Basic             float64            `json:"basic"`
	HRA               float64            `json:"hra"`
	Allowances        []LineItemResponse `json:"allowances"`
	Deductions        []LineItemResponse `json:"deductions"`
	AllowanceTotal    float64            `json:"allowance_total"`
	DeductionTotal    float64            `json:"deduction_total"`
	GrossPay          float64            `json:"gross_pay"`
	TaxDeducted       float64            `json:"tax_deducted"`
	LopDays           float64            `json:"lop_days"`
	LopDeduction      float64            `json:"lop_deduction"`
	NetPay            float64            `json:"net_pay"`
	Status            string             `json:"status"`
	IsReleased        bool               `json:"is_released"`
	ReleasedBy        string             `json:"released_by,omitempty"`
	ReleasedAt        string             `json:"released_at,omitempty"`
}
