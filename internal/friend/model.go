package friend

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of a friendship
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
)

// ErrUnknownStatus is returned when a friendship status is not recognized
var ErrUnknownStatus = errors.New("unknown friendship status")

// ParseStatus normalizes a friendship status string
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusAccepted:
		return StatusAccepted, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStatus, s)
	}
}

// Friendship represents a friend relation between two users. The requester
// initiated it; the addressee accepts or rejects. Rejected requests are
// deleted rather than kept in a terminal state.
type Friendship struct {
	ID          int64      `json:"id"`
	RequesterID int64      `json:"requester_id"`
	AddresseeID int64      `json:"addressee_id"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
}

// OtherUser returns the counterparty of the friendship from one side's view
func (f *Friendship) OtherUser(userID int64) int64 {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Involves reports whether the user is on either side of the friendship
func (f *Friendship) Involves(userID int64) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// Friend is a friendship joined with the counterparty's identity. Balance
// is a display convenience recomputed from expense shares on every read;
// it is never stored.
type Friend struct {
	FriendshipID int64   `json:"friendship_id"`
	UserID       int64   `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	Balance      float64 `json:"balance"` // Positive: they owe you
}

// Request is a pending friendship joined with the requester's identity
type Request struct {
	FriendshipID  int64     `json:"friendship_id"`
	RequesterID   int64     `json:"requester_id"`
	RequesterName string    `json:"requester_name"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}
