package split

// =============================================================================
// CUSTOM SPLIT STRATEGY
// Each participant owes the exact amount the caller entered for them
// =============================================================================

// CustomStrategy implements the Strategy interface for custom amount splits
type CustomStrategy struct{}

// Type returns the split policy identifier
func (s *CustomStrategy) Type() Type {
	return TypeCustom
}

// Calculate passes the caller-supplied amounts through verbatim. Missing
// entries in params.Amounts default to 0; that the amounts sum to the
// expense total is validated upstream.
func (s *CustomStrategy) Calculate(totalAmount float64, participants []Person, params Params) ([]Share, error) {
	if err := validateCommon(totalAmount, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{
			UserID: p.UserID,
			Amount: params.Amounts[p.UserID],
		}
	}

	return shares, nil
}
