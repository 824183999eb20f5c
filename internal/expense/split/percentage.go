package split

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense based on the specified percentage per participant
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage-based splits
type PercentageStrategy struct{}

// Type returns the split policy identifier
func (s *PercentageStrategy) Type() Type {
	return TypePercentage
}

// Calculate assigns total * percentage / 100 to each participant. A
// participant with no entry in params.Percentages gets 0, not an error;
// whether the percentages sum to 100 is validated upstream.
func (s *PercentageStrategy) Calculate(totalAmount float64, participants []Person, params Params) ([]Share, error) {
	if err := validateCommon(totalAmount, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		pct := params.Percentages[p.UserID]
		shares[i] = Share{
			UserID:     p.UserID,
			Amount:     (totalAmount * pct) / 100,
			Percentage: &pct,
		}
	}

	return shares, nil
}
