package split

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies a split policy
type Type string

const (
	TypeEqual       Type = "EQUAL"
	TypePercentage  Type = "PERCENTAGE"
	TypeCustom      Type = "CUSTOM"
	TypeFullOnOther Type = "FULL_ON_OTHER"
	TypeFullOnMe    Type = "FULL_ON_ME"
)

// ParseType normalizes a split type string to its canonical form.
// Historical clients sent lowercase values ("equal", "full_on_me"), so
// parsing is case-insensitive; everything past this boundary uses the
// canonical uppercase constants.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeEqual:
		return TypeEqual, nil
	case TypePercentage:
		return TypePercentage, nil
	case TypeCustom:
		return TypeCustom, nil
	case TypeFullOnOther:
		return TypeFullOnOther, nil
	case TypeFullOnMe:
		return TypeFullOnMe, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownType, s)
	}
}

// Person is a participant identity at evaluation time, in selection order
type Person struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Params carries the policy-specific inputs. Percentages and Amounts are
// keyed by user ID; entries missing for a participant are treated as zero
// rather than rejected. CurrentUserID is only consulted by the FULL_ON_*
// policies, which need to know which of the two participants is "me".
type Params struct {
	CurrentUserID int64             `json:"current_user_id"`
	Percentages   map[int64]float64 `json:"percentages,omitempty"`
	Amounts       map[int64]float64 `json:"amounts,omitempty"`
}

// Share is the calculated owed amount for a single participant
type Share struct {
	UserID     int64    `json:"user_id"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"` // Only set for PERCENTAGE splits
}

// Strategy is the interface that all split policies implement.
// Calculate returns one share per participant, in input order, including
// the payer if they are in the participant set; netting the payer's own
// share out happens during balance aggregation, not here.
type Strategy interface {
	Calculate(totalAmount float64, participants []Person, params Params) ([]Share, error)

	// Type returns the policy identifier for this strategy
	Type() Type
}

// Factory creates split strategies based on the requested policy
type Factory struct{}

// NewFactory creates a new strategy factory
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy implementation for the given policy
func (f *Factory) Create(t Type) (Strategy, error) {
	switch t {
	case TypeEqual:
		return &EqualStrategy{}, nil
	case TypePercentage:
		return &PercentageStrategy{}, nil
	case TypeCustom:
		return &CustomStrategy{}, nil
	case TypeFullOnOther:
		return &FullOnOtherStrategy{}, nil
	case TypeFullOnMe:
		return &FullOnMeStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split type: %s", t)
	}
}

// CreateFromString parses and creates in one step (useful for API requests)
func (f *Factory) CreateFromString(s string) (Strategy, error) {
	t, err := ParseType(s)
	if err != nil {
		return nil, err
	}
	return f.Create(t)
}

var (
	ErrUnknownType                      = errors.New("unknown split type")
	ErrNoParticipants                   = errors.New("at least one participant is required")
	ErrNegativeAmount                   = errors.New("amount cannot be negative")
	ErrInvalidPolicyForParticipantCount = errors.New("full-on policies require exactly two participants")
	ErrCurrentUserNotInSplit            = errors.New("current user must be one of the two participants")
)

// validateCommon holds the guards shared by every policy. Tolerance checks
// (percentages summing to 100, custom amounts summing to the total) are the
// caller's responsibility and are deliberately not re-checked here.
func validateCommon(totalAmount float64, participants []Person) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if totalAmount < 0 {
		return ErrNegativeAmount
	}
	return nil
}
