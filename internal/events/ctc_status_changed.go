package events

import "time"

const CTCStatusChangedTopic = "pay.ctc.status.changed.v1"

type CTCStatusChangedEvent struct {
	EventType         string    `json:"event_type"`
	CTCID             string    `json:"ctc_id"`
	EmployeeProfileID string    `json:"employee_profile_id"`
	FromStatus        string    `json:"from_status"`
	ToStatus          string    `json:"to_status"`
	CascadedFrom      string    `json:"cascaded_from,omitempty"`
	ActorID           string    `json:"actor_id"`
	OccurredAt        time.Time `json:"occurred_at"`
}
