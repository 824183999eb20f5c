package settlement

import "github.com/splitbuddy/api/pkg/money"

// CreateSettlementRequest represents the request to create a settlement.
// Payer, receiver, and amount are derived from the pairwise net balance.
type CreateSettlementRequest struct {
	OtherUserID int64 `json:"other_user_id" validate:"required"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID            int64   `json:"id"`
	Reference     string  `json:"reference"`
	PayerID       int64   `json:"payer_id"`
	PayerName     string  `json:"payer_name,omitempty"`
	ReceiverID    int64   `json:"receiver_id"`
	ReceiverName  string  `json:"receiver_name,omitempty"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	CurrencyCode  string  `json:"currency_code"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:            s.ID,
		Reference:     s.Reference,
		PayerID:       s.PayerID,
		PayerName:     s.PayerName,
		ReceiverID:    s.ReceiverID,
		ReceiverName:  s.ReceiverName,
		Amount:        s.Amount,
		AmountDisplay: money.MustFormat(s.Amount, s.CurrencyCode),
		CurrencyCode:  s.CurrencyCode,
		Status:        string(s.Status),
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
