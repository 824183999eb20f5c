package expense

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/splitbuddy/api/internal/balance"
	"github.com/splitbuddy/api/internal/expense/split"
)

// Source tags where a participant was picked from when the expense was
// composed: the payer's friend list or a group roster. Provenance only,
// used for display grouping; it is not an ownership relation.
type Source string

const (
	SourceFriend Source = "FRIEND"
	SourceGroup  Source = "GROUP"
)

// ErrUnknownSource is returned when a participant source tag is not recognized
var ErrUnknownSource = errors.New("unknown participant source")

// ParseSource normalizes a provenance tag. Historical records carry both
// "friend" and "FRIEND", so parsing is case-insensitive at this boundary.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToUpper(strings.TrimSpace(s))) {
	case SourceFriend:
		return SourceFriend, nil
	case SourceGroup:
		return SourceGroup, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownSource, s)
	}
}

// Expense represents a shared expense in the system
type Expense struct {
	ID          int64      `json:"id"`
	GroupID     *int64     `json:"group_id,omitempty"`
	PayerID     int64      `json:"payer_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Category    string     `json:"category"`
	SplitType   split.Type `json:"split_type"`
	PaidAt      time.Time  `json:"paid_at"`
	CreatedAt   time.Time  `json:"created_at"`

	// Populated via JOIN
	PayerName string `json:"payer_name,omitempty"`
}

// Participant is one person's stake in an expense. Name and email are a
// snapshot taken at creation time, not a live join; only IsPaid/PaidAt
// change after creation, and the row is destroyed with its parent expense.
type Participant struct {
	ID         int64      `json:"id"`
	ExpenseID  int64      `json:"expense_id"`
	UserID     int64      `json:"user_id"`
	UserName   string     `json:"user_name"`
	UserEmail  string     `json:"user_email"`
	Amount     float64    `json:"amount"`
	Percentage *float64   `json:"percentage,omitempty"` // Only set for PERCENTAGE splits
	IsPaid     bool       `json:"is_paid"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	Source     Source     `json:"source"`
	SourceID   *int64     `json:"source_id,omitempty"`
}

// ExpenseWithParticipants combines an expense with its participant rows
type ExpenseWithParticipants struct {
	Expense      *Expense
	Participants []*Participant
}

// ToBalance converts to the balance package's minimal expense shape
func (e *ExpenseWithParticipants) ToBalance() balance.Expense {
	shares := make([]balance.Share, len(e.Participants))
	for i, p := range e.Participants {
		shares[i] = balance.Share{
			UserID: p.UserID,
			Amount: p.Amount,
			Paid:   p.IsPaid,
		}
	}
	return balance.Expense{
		PaidBy: e.Expense.PayerID,
		Shares: shares,
	}
}

// ToBalanceSlice converts a batch of expenses for aggregation
func ToBalanceSlice(expenses []*ExpenseWithParticipants) []balance.Expense {
	out := make([]balance.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToBalance()
	}
	return out
}
