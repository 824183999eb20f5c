package split

// =============================================================================
// FULL-ON SPLIT STRATEGIES
// One side of a two-person expense carries the full amount, the other zero.
// Which side depends only on the chosen policy, never on who paid.
// =============================================================================

// FullOnOtherStrategy puts the entire amount on the other participant
type FullOnOtherStrategy struct{}

// Type returns the split policy identifier
func (s *FullOnOtherStrategy) Type() Type {
	return TypeFullOnOther
}

// Calculate assigns the full amount to the participant who is not the
// current user. Requires exactly two participants, one of them being
// params.CurrentUserID.
func (s *FullOnOtherStrategy) Calculate(totalAmount float64, participants []Person, params Params) ([]Share, error) {
	return fullOnCalculate(totalAmount, participants, params, false)
}

// FullOnMeStrategy puts the entire amount on the current user
type FullOnMeStrategy struct{}

// Type returns the split policy identifier
func (s *FullOnMeStrategy) Type() Type {
	return TypeFullOnMe
}

// Calculate assigns the full amount to the current user and zero to the
// other participant. Requires exactly two participants, one of them being
// params.CurrentUserID.
func (s *FullOnMeStrategy) Calculate(totalAmount float64, participants []Person, params Params) ([]Share, error) {
	return fullOnCalculate(totalAmount, participants, params, true)
}

func fullOnCalculate(totalAmount float64, participants []Person, params Params, onMe bool) ([]Share, error) {
	if err := validateCommon(totalAmount, participants); err != nil {
		return nil, err
	}
	if len(participants) != 2 {
		return nil, ErrInvalidPolicyForParticipantCount
	}

	currentPresent := false
	for _, p := range participants {
		if p.UserID == params.CurrentUserID {
			currentPresent = true
			break
		}
	}
	if !currentPresent {
		return nil, ErrCurrentUserNotInSplit
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		isCurrent := p.UserID == params.CurrentUserID
		amount := 0.0
		if isCurrent == onMe {
			amount = totalAmount
		}
		shares[i] = Share{
			UserID: p.UserID,
			Amount: amount,
		}
	}

	return shares, nil
}
