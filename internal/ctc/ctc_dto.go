package ctc

type LineItemRequest struct {
	Label  string  `json:"label" binding:"required"`
	Amount float64 `json:"amount"`
}

type CreateCTCRequest struct {
	Basic         float64           `json:"basic" binding:"required"`
	HRA           float64           `json:"hra"`
	Allowances    []LineItemRequest `json:"allowances"`
	Deductions    []LineItemRequest `json:"deductions"`
	TaxPercent    float64           `json:"tax_percent"`
	EffectiveFrom string            `json:"effective_from" binding:"required"`
}

type BatchCreateCTCRequest struct {
	EmployeeIDs []string         `json:"employee_ids" binding:"required,min=1"`
	Params      CreateCTCRequest `json:"params" binding:"required"`
}

// Batch item outcomes. Failures are data, not errors: one bad employee id
// never aborts the rest of the batch.
const (
	BatchStatusCreated  = "Created"
	BatchStatusError    = "Error"
	BatchStatusConflict = "Conflict"
)

type BatchResult struct {
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	CTCID      string `json:"ctc_id,omitempty"`
}

type LineItemResponse struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type CTCResponse struct {
	ID                string             `json:"id"`
	EmployeeProfileID string             `json:"employee_profile_id"`
	Basic             float64            `json:"basic"`
	HRA               float64            `json:"hra"`
	Allowances        []LineItemResponse `json:"allowances"`
	Deductions        []LineItemResponse `json:"deductions"`
	TaxPercent        float64            `json:"tax_percent"`
	GrossCTC          float64            `json:"gross_ctc"`
	EffectiveFrom     string             `json:"effective_from"`
	EffectiveTo       string             `json:"effective_to"`
	Status            string             `json:"status"`
	IsApproved        bool               `json:"is_approved"`
	CreatedBy         string             `json:"created_by"`
}
