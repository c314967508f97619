package audit

import "time"

// Event is emitted from service logic to capture lifecycle actions on
// customers and KYC documents. Keep it transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	CustomerID int64     `json:"customer_id,omitempty"`
	KycID      int64     `json:"kyc_id,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

type Action string

const (
	EventCustomerCreated Action = "customer_created"
	EventCustomerUpdated Action = "customer_updated"
	EventCustomerDeleted Action = "customer_deleted"

	EventKycSubmitted Action = "kyc_submitted"
	EventKycUpdated   Action = "kyc_updated"
	EventKycDeleted   Action = "kyc_deleted"
)

// Key is the partition key: events for one customer stay ordered.
func (e Event) Key() string {
	if e.CustomerID != 0 {
		return "customer-" + itoa(e.CustomerID)
	}
	return "kyc-" + itoa(e.KycID)
}
