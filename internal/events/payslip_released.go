package events

import "time"

const PayslipReleasedTopic = "pay.payslip.released.v1"

type PayslipReleasedEvent struct {
	EventType         string    `json:"event_type"`
	PayslipID         string    `json:"payslip_id"`
	EmployeeProfileID string    `json:"employee_profile_id"`
	Year              int       `json:"year"`
	Month             int       `json:"month"`
	NetPay            float64   `json:"net_pay"`
	ReleasedBy        string    `json:"released_by"`
	OccurredAt        time.Time `json:"occurred_at"`
}
