package friend

import (
	"github.com/splitbuddy/api/internal/expense"
	"github.com/splitbuddy/api/pkg/money"
)

// SendRequestRequest is the payload for sending a friend request
type SendRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// FriendshipResponse represents a friendship in API responses
type FriendshipResponse struct {
	ID          int64   `json:"id"`
	RequesterID int64   `json:"requester_id"`
	AddresseeID int64   `json:"addressee_id"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	AcceptedAt  *string `json:"accepted_at,omitempty"`
}

// FriendResponse represents a friend with their display balance
type FriendResponse struct {
	FriendshipID   int64   `json:"friendship_id"`
	UserID         int64   `json:"user_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Balance        float64 `json:"balance"`
	BalanceDisplay string  `json:"balance_display"`
}

// RequestResponse represents an incoming friend request
type RequestResponse struct {
	FriendshipID  int64  `json:"friendship_id"`
	RequesterID   int64  `json:"requester_id"`
	RequesterName string `json:"requester_name"`
	Email         string `json:"email"`
	CreatedAt     string `json:"created_at"`
}

// FriendExpensesResponse is the per-friend detail view
type FriendExpensesResponse struct {
	Friend                *FriendResponse            `json:"friend"`
	TotalOwedToYou        float64                    `json:"total_owed_to_you"`
	TotalOwedToYouDisplay string                     `json:"total_owed_to_you_display"`
	TotalYouOwe           float64                    `json:"total_you_owe"`
	TotalYouOweDisplay    string                     `json:"total_you_owe_display"`
	NetBalance            float64                    `json:"net_balance"`
	SharedExpenses        []*expense.ExpenseResponse `json:"shared_expenses"`
}

// ToResponse converts a Friendship model to a FriendshipResponse DTO
func (f *Friendship) ToResponse() *FriendshipResponse {
	resp := &FriendshipResponse{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		AddresseeID: f.AddresseeID,
		Status:      string(f.Status),
		CreatedAt:   f.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if f.AcceptedAt != nil {
		s := f.AcceptedAt.Format("2006-01-02T15:04:05Z")
		resp.AcceptedAt = &s
	}
	return resp
}

// ToResponse converts a Friend model to a FriendResponse DTO
func (f *Friend) ToResponse() *FriendResponse {
	return &FriendResponse{
		FriendshipID:   f.FriendshipID,
		UserID:         f.UserID,
		Name:           f.Name,
		Email:          f.Email,
		AvatarURL:      f.AvatarURL,
		Balance:        f.Balance,
		BalanceDisplay: money.MustFormat(f.Balance, "USD"),
	}
}

// ToResponse converts a Request model to a RequestResponse DTO
func (r *Request) ToResponse() *RequestResponse {
	return &RequestResponse{
		FriendshipID:  r.FriendshipID,
		RequesterID:   r.RequesterID,
		RequesterName: r.RequesterName,
		Email:         r.Email,
		CreatedAt:     r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts the friend expenses view to its DTO
func (fe *FriendExpenses) ToResponse() *FriendExpensesResponse {
	resp := &FriendExpensesResponse{
		Friend:                fe.Friend.ToResponse(),
		TotalOwedToYou:        fe.TotalOwedToYou,
		TotalOwedToYouDisplay: money.MustFormat(fe.TotalOwedToYou, "USD"),
		TotalYouOwe:           fe.TotalYouOwe,
		TotalYouOweDisplay:    money.MustFormat(fe.TotalYouOwe, "USD"),
		NetBalance:            fe.NetBalance,
		SharedExpenses:        make([]*expense.ExpenseResponse, len(fe.SharedExpenses)),
	}
	for i, e := range fe.SharedExpenses {
		resp.SharedExpenses[i] = e.ToResponse()
	}
	return resp
}
