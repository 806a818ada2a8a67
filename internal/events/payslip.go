package events

import "time"

const PayslipLifecycleTopic = "payslip.lifecycle.v1"

const (
	PayslipSaved   = "payslip_saved"
	PayslipUpdated = "payslip_updated"
	PayslipDeleted = "payslip_deleted"
)

type PayslipLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	PayslipID  string    `json:"payslip_id"`
	Kind       string    `json:"kind,omitempty"`
	Date       string    `json:"date,omitempty"`
	NetAmount  int       `json:"net_amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
