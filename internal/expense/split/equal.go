package split

// =============================================================================
// EQUAL SPLIT STRATEGY
// Divides the expense equally among all participants
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Type returns the split policy identifier
func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

// Calculate assigns total/n to every participant, the payer included.
// Plain division, no remainder redistribution: 100 split three ways yields
// three shares of 33.33... and display rounding happens at format time.
func (s *EqualStrategy) Calculate(totalAmount float64, participants []Person, _ Params) ([]Share, error) {
	if err := validateCommon(totalAmount, participants); err != nil {
		return nil, err
	}

	perPerson := totalAmount / float64(len(participants))

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{
			UserID: p.UserID,
			Amount: perPerson,
		}
	}

	return shares, nil
}
