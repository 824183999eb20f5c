// Package balance computes who-owes-whom figures from expense participant
// data. All functions are pure: they never mutate their inputs and keep no
// state between calls, so callers may invoke them concurrently. The types
// here carry only the fields the math needs; feature packages convert their
// storage models into them.
package balance

import "errors"

// ErrInvalidPairIdentity is returned when a pairwise balance is requested
// between a user and themself.
var ErrInvalidPairIdentity = errors.New("cannot resolve a balance between a user and themself")

// Share is one participant's stake in an expense
type Share struct {
	UserID int64
	Amount float64
	Paid   bool
}

// Expense is the minimal expense shape needed for balance calculations
type Expense struct {
	PaidBy int64
	Shares []Share
}

// Summary holds the aggregate unpaid totals for one subject user
type Summary struct {
	// OwedBySubject is what the subject still owes others: their own
	// unpaid shares on expenses somebody else paid.
	OwedBySubject float64

	// OwedToSubject is what others still owe the subject: everyone
	// else's unpaid shares on expenses the subject paid.
	OwedToSubject float64
}

// Net returns the subject's overall position. Positive means the subject
// is owed money on balance.
func (s Summary) Net() float64 {
	return s.OwedToSubject - s.OwedBySubject
}

// Summarize folds over the expense collection and totals the subject's
// unpaid debts and credits. An expense in which the subject does not
// appear contributes nothing; a payer who is not a participant is fine,
// the fold only looks at participant shares.
func Summarize(expenses []Expense, subjectID int64) Summary {
	var sum Summary
	for _, e := range expenses {
		for _, sh := range e.Shares {
			if sh.Paid {
				continue
			}
			if e.PaidBy == subjectID {
				if sh.UserID != subjectID {
					sum.OwedToSubject += sh.Amount
				}
			} else if sh.UserID == subjectID {
				sum.OwedBySubject += sh.Amount
			}
		}
	}
	return sum
}

// PairContribution resolves a single expense's signed contribution to the
// balance between the viewer and one friend. Positive means the friend
// owes the viewer, negative means the viewer owes the friend.
//
// Three cases, in order:
//  1. the viewer paid: the friend owes their share
//  2. the friend paid: the viewer owes their share, negated
//  3. a third party paid: the difference between the two shares
//
// Shares of users absent from the expense default to zero. Callers sum
// contributions across shared expenses to get the pair's net balance.
func PairContribution(e Expense, viewerID, friendID int64) (float64, error) {
	if viewerID == friendID {
		return 0, ErrInvalidPairIdentity
	}

	viewerShare := shareAmount(e, viewerID)
	friendShare := shareAmount(e, friendID)

	switch {
	case e.PaidBy == viewerID:
		return friendShare, nil
	case e.PaidBy == friendID:
		return -viewerShare, nil
	default:
		return friendShare - viewerShare, nil
	}
}

// PairBalance sums PairContribution across a set of shared expenses.
func PairBalance(expenses []Expense, viewerID, friendID int64) (float64, error) {
	var total float64
	for _, e := range expenses {
		c, err := PairContribution(e, viewerID, friendID)
		if err != nil {
			return 0, err
		}
		total += c
	}
	return total, nil
}

// UnpaidPairContribution is PairContribution with shares already marked
// paid dropped first, so settled history does not count toward the pair's
// outstanding position.
func UnpaidPairContribution(e Expense, viewerID, friendID int64) (float64, error) {
	return PairContribution(unpaidOnly(e), viewerID, friendID)
}

// SettleableBalance nets the pair's unpaid shares across the expenses one
// of the two paid. Third-party-paid expenses are skipped: a payment
// between the pair has no participant row of theirs to clear on those.
// Positive means the friend owes the viewer.
func SettleableBalance(expenses []Expense, viewerID, friendID int64) (float64, error) {
	if viewerID == friendID {
		return 0, ErrInvalidPairIdentity
	}
	var total float64
	for _, e := range expenses {
		if e.PaidBy != viewerID && e.PaidBy != friendID {
			continue
		}
		c, err := PairContribution(unpaidOnly(e), viewerID, friendID)
		if err != nil {
			return 0, err
		}
		total += c
	}
	return total, nil
}

// CounterpartyBalances computes the subject's net position against every
// user they share an unpaid expense with. Settled shares are dropped
// before resolving, so a fully settled pair nets to zero and is omitted.
func CounterpartyBalances(expenses []Expense, subjectID int64) map[int64]float64 {
	balances := make(map[int64]float64)
	for _, e := range expenses {
		// Expenses the subject is not part of contribute nothing.
		if e.PaidBy != subjectID && !hasShare(e, subjectID) {
			continue
		}
		unpaid := unpaidOnly(e)
		for _, sh := range unpaid.Shares {
			if sh.UserID == subjectID {
				continue
			}
			// Safe to ignore: the counterparty is never the subject here.
			c, _ := PairContribution(unpaid, subjectID, sh.UserID)
			balances[sh.UserID] += c
		}
		// A payer with no share of their own is still a counterparty.
		if unpaid.PaidBy != subjectID && !hasShare(unpaid, unpaid.PaidBy) {
			c, err := PairContribution(unpaid, subjectID, unpaid.PaidBy)
			if err == nil && c != 0 {
				balances[unpaid.PaidBy] += c
			}
		}
	}
	for id, b := range balances {
		if b == 0 {
			delete(balances, id)
		}
	}
	return balances
}

func shareAmount(e Expense, userID int64) float64 {
	for _, sh := range e.Shares {
		if sh.UserID == userID {
			return sh.Amount
		}
	}
	return 0
}

func hasShare(e Expense, userID int64) bool {
	for _, sh := range e.Shares {
		if sh.UserID == userID {
			return true
		}
	}
	return false
}

func unpaidOnly(e Expense) Expense {
	out := Expense{PaidBy: e.PaidBy, Shares: make([]Share, 0, len(e.Shares))}
	for _, sh := range e.Shares {
		if !sh.Paid {
			out.Shares = append(out.Shares, sh)
		}
	}
	return out
}
