package notification

import "time"

// Type classifies a notification so clients can route taps and pick icons
type Type string

const (
	TypeFriendRequest   Type = "FRIEND_REQUEST"
	TypeFriendAccepted  Type = "FRIEND_ACCEPTED"
	TypeGroupInvite     Type = "GROUP_INVITE"
	TypeExpenseAdded    Type = "EXPENSE_ADDED"
	TypeParticipantPaid Type = "PARTICIPANT_PAID"
	TypeSettlement      Type = "SETTLEMENT"
)

// Notification represents a notification in the system
type Notification struct {
	ID                int64     `json:"id"`
	RecipientID       int64     `json:"recipient_id"`
	Message           string    `json:"message"`
	Type              Type      `json:"type"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"` // e.g., "SETTLEMENT", "EXPENSE", "GROUP", "FRIENDSHIP"
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
