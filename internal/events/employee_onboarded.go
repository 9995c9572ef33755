package events

import "time"

const EmployeeOnboardedTopic = "pay.employee.onboarded.v1"

type EmployeeOnboardedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	ProfileID  string    `json:"profile_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
