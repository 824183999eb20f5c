package expense

import "github.com/splitbuddy/api/pkg/money"

// ParticipantInput is one participant entry on expense creation. Order is
// preserved: it is the order the payer selected people in.
type ParticipantInput struct {
	UserID     int64    `json:"user_id" validate:"required"`
	Percentage *float64 `json:"percentage,omitempty" validate:"omitempty,gte=0,lte=100"` // For PERCENTAGE splits
	Amount     *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`             // For CUSTOM splits
	Source     string   `json:"source" validate:"required"`                              // friend or group
	SourceID   *int64   `json:"source_id,omitempty"`
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	Title        string              `json:"title" validate:"required,min=1,max=255"`
	Description  *string             `json:"description,omitempty" validate:"omitempty,max=1000"`
	Amount       float64             `json:"amount" validate:"required,gt=0"`
	Currency     string              `json:"currency" validate:"required,iso4217"`
	Category     string              `json:"category" validate:"omitempty,max=50"`
	GroupID      *int64              `json:"group_id,omitempty"`
	SplitType    string              `json:"split_type" validate:"required"`
	Participants []*ParticipantInput `json:"participants" validate:"required,min=1,dive"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID              int64                  `json:"id"`
	GroupID         *int64                 `json:"group_id,omitempty"`
	PayerID         int64                  `json:"payer_id"`
	PayerName       string                 `json:"payer_name,omitempty"`
	Title           string                 `json:"title"`
	Description     *string                `json:"description,omitempty"`
	Amount          float64                `json:"amount"`
	AmountDisplay   string                 `json:"amount_display"`
	Currency        string                 `json:"currency"`
	Category        string                 `json:"category"`
	SplitType       string                 `json:"split_type"`
	PaidAt          string                 `json:"paid_at"`
	CreatedAt       string                 `json:"created_at"`
	Participants    []*ParticipantResponse `json:"participants,omitempty"`
}

// ParticipantResponse represents the response for one participant row
type ParticipantResponse struct {
	ID            int64    `json:"id"`
	ExpenseID     int64    `json:"expense_id"`
	UserID        int64    `json:"user_id"`
	UserName      string   `json:"user_name"`
	UserEmail     string   `json:"user_email"`
	Amount        float64  `json:"amount"`
	AmountDisplay string   `json:"amount_display"`
	Percentage    *float64 `json:"percentage,omitempty"`
	IsPaid        bool     `json:"is_paid"`
	PaidAt        *string  `json:"paid_at,omitempty"`
	Source        string   `json:"source"`
	SourceID      *int64   `json:"source_id,omitempty"`
}

// BalanceSummaryResponse is the home-screen totals for the current user
type BalanceSummaryResponse struct {
	TotalOwed             float64                `json:"total_owed"`
	TotalOwedDisplay      string                 `json:"total_owed_display"`
	TotalOwedToYou        float64                `json:"total_owed_to_you"`
	TotalOwedToYouDisplay string                 `json:"total_owed_to_you_display"`
	NetBalance            float64                `json:"net_balance"`
	Counterparties        []*CounterpartyBalance `json:"counterparties"`
}

// CounterpartyBalance is the net position against one other user
type CounterpartyBalance struct {
	UserID  int64   `json:"user_id"`
	Balance float64 `json:"balance"` // Positive: they owe you
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PayerID:       e.PayerID,
		PayerName:     e.PayerName,
		Title:         e.Title,
		Description:   e.Description,
		Amount:        e.Amount,
		AmountDisplay: money.MustFormat(e.Amount, e.Currency),
		Currency:      e.Currency,
		Category:      e.Category,
		SplitType:     string(e.SplitType),
		PaidAt:        e.PaidAt.Format("2006-01-02T15:04:05Z"),
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Participant model to a ParticipantResponse DTO.
// Display amounts use the parent expense's currency.
func (p *Participant) ToResponse(currency string) *ParticipantResponse {
	resp := &ParticipantResponse{
		ID:            p.ID,
		ExpenseID:     p.ExpenseID,
		UserID:        p.UserID,
		UserName:      p.UserName,
		UserEmail:     p.UserEmail,
		Amount:        p.Amount,
		AmountDisplay: money.MustFormat(p.Amount, currency),
		Percentage:    p.Percentage,
		IsPaid:        p.IsPaid,
		Source:        string(p.Source),
		SourceID:      p.SourceID,
	}
	if p.PaidAt != nil {
		s := p.PaidAt.Format("2006-01-02T15:04:05Z")
		resp.PaidAt = &s
	}
	return resp
}

// ToResponse converts an expense with its participants
func (e *ExpenseWithParticipants) ToResponse() *ExpenseResponse {
	resp := e.Expense.ToResponse()
	resp.Participants = make([]*ParticipantResponse, len(e.Participants))
	for i, p := range e.Participants {
		resp.Participants[i] = p.ToResponse(e.Expense.Currency)
	}
	return resp
}
