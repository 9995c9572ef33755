package attendance

type RecordAbsenceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Reason     string `json:"reason"`
}

type AbsenceResponse struct {
	ID                string `json:"id"`
	EmployeeProfileID string `json:"employee_profile_id"`
	Date              string `json:"date"`
	Reason            string `json:"reason,omitempty"`
}

type LopSummaryResponse struct {
	EmployeeProfileID string  `json:"employee_profile_id"`
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	LopDays           float64 `json:"lop_days"`
}
