package settlement

import "time"

// Status represents the lifecycle of a settlement
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
)

// Settlement represents a bulk payment clearing the net debt between two
// users. Reference is an opaque identifier the payer can quote in their
// bank transfer so the receiver can match the payment.
type Settlement struct {
	ID           int64     `json:"id"`
	Reference    string    `json:"reference"`
	PayerID      int64     `json:"payer_id"`    // Who sends the money
	ReceiverID   int64     `json:"receiver_id"` // Who receives the money
	Amount       float64   `json:"amount"`      // The net amount
	CurrencyCode string    `json:"currency_code"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	// Populated via JOIN
	PayerName    string `json:"payer_name,omitempty"`
	ReceiverName string `json:"receiver_name,omitempty"`
}
