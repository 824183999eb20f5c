package balance

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 0.01

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		expenses  []Expense
		subjectID int64
		wantBy    float64
		wantTo    float64
	}{
		{
			name: "subject owes on an expense somebody else paid",
			expenses: []Expense{
				{PaidBy: 2, Shares: []Share{
					{UserID: 1, Amount: 30},
					{UserID: 2, Amount: 30},
				}},
			},
			subjectID: 1,
			wantBy:    30,
			wantTo:    0,
		},
		{
			name: "subject is owed on an expense they paid",
			expenses: []Expense{
				{PaidBy: 1, Shares: []Share{
					{UserID: 1, Amount: 30},
					{UserID: 2, Amount: 30},
					{UserID: 3, Amount: 30},
				}},
			},
			subjectID: 1,
			wantBy:    0,
			wantTo:    60,
		},
		{
			name: "paid shares are excluded",
			expenses: []Expense{
				{PaidBy: 1, Shares: []Share{
					{UserID: 2, Amount: 25, Paid: true},
					{UserID: 3, Amount: 25},
				}},
				{PaidBy: 2, Shares: []Share{
					{UserID: 1, Amount: 10, Paid: true},
				}},
			},
			subjectID: 1,
			wantBy:    0,
			wantTo:    25,
		},
		{
			name: "subject absent from every expense",
			expenses: []Expense{
				{PaidBy: 2, Shares: []Share{{UserID: 3, Amount: 50}}},
				{PaidBy: 3, Shares: []Share{{UserID: 2, Amount: 20}}},
			},
			subjectID: 1,
			wantBy:    0,
			wantTo:    0,
		},
		{
			name:      "empty participant list contributes nothing",
			expenses:  []Expense{{PaidBy: 1}},
			subjectID: 1,
			wantBy:    0,
			wantTo:    0,
		},
		{
			name: "third-party payer still counts",
			expenses: []Expense{
				{PaidBy: 9, Shares: []Share{
					{UserID: 1, Amount: 15},
					{UserID: 2, Amount: 15},
				}},
			},
			subjectID: 1,
			wantBy:    15,
			wantTo:    0,
		},
		{
			name:      "no expenses",
			expenses:  nil,
			subjectID: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.expenses, tt.subjectID)
			if math.Abs(got.OwedBySubject-tt.wantBy) > tolerance {
				t.Errorf("OwedBySubject = %v, want %v", got.OwedBySubject, tt.wantBy)
			}
			if math.Abs(got.OwedToSubject-tt.wantTo) > tolerance {
				t.Errorf("OwedToSubject = %v, want %v", got.OwedToSubject, tt.wantTo)
			}
			if math.Abs(got.Net()-(tt.wantTo-tt.wantBy)) > tolerance {
				t.Errorf("Net() = %v, want %v", got.Net(), tt.wantTo-tt.wantBy)
			}
		})
	}
}

// Summarize is a pure fold: running it twice over the same input must give
// identical results and leave the input untouched.
func TestSummarizeIdempotent(t *testing.T) {
	expenses := []Expense{
		{PaidBy: 1, Shares: []Share{
			{UserID: 2, Amount: 33.34},
			{UserID: 3, Amount: 33.33},
		}},
		{PaidBy: 3, Shares: []Share{
			{UserID: 1, Amount: 12.5},
			{UserID: 3, Amount: 12.5},
		}},
	}

	first := Summarize(expenses, 1)
	second := Summarize(expenses, 1)
	if first != second {
		t.Errorf("repeated Summarize differs: %+v vs %+v", first, second)
	}
	if expenses[0].Shares[0].Amount != 33.34 || expenses[1].Shares[0].Paid {
		t.Error("Summarize mutated its input")
	}
}

func TestPairContribution(t *testing.T) {
	tests := []struct {
		name     string
		expense  Expense
		viewerID int64
		friendID int64
		want     float64
	}{
		{
			name: "viewer paid, friend owes their share",
			expense: Expense{PaidBy: 1, Shares: []Share{
				{UserID: 1, Amount: 25},
				{UserID: 2, Amount: 25},
			}},
			viewerID: 1,
			friendID: 2,
			want:     25,
		},
		{
			name: "friend paid, viewer owes their share",
			expense: Expense{PaidBy: 2, Shares: []Share{
				{UserID: 1, Amount: 10},
				{UserID: 2, Amount: 10},
			}},
			viewerID: 1,
			friendID: 2,
			want:     -10,
		},
		{
			name: "third party paid, difference of shares",
			expense: Expense{PaidBy: 9, Shares: []Share{
				{UserID: 1, Amount: 20},
				{UserID: 2, Amount: 30},
				{UserID: 9, Amount: 10},
			}},
			viewerID: 1,
			friendID: 2,
			want:     10,
		},
		{
			name: "viewer paid but friend not a participant",
			expense: Expense{PaidBy: 1, Shares: []Share{
				{UserID: 1, Amount: 40},
			}},
			viewerID: 1,
			friendID: 2,
			want:     0,
		},
		{
			name: "friend paid but viewer not a participant",
			expense: Expense{PaidBy: 2, Shares: []Share{
				{UserID: 2, Amount: 40},
			}},
			viewerID: 1,
			friendID: 2,
			want:     0,
		},
		{
			name:     "third party paid, neither is a participant",
			expense:  Expense{PaidBy: 9, Shares: []Share{{UserID: 9, Amount: 40}}},
			viewerID: 1,
			friendID: 2,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PairContribution(tt.expense, tt.viewerID, tt.friendID)
			if err != nil {
				t.Fatalf("PairContribution() error: %v", err)
			}
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("PairContribution() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPairContributionSelfPair(t *testing.T) {
	e := Expense{PaidBy: 1, Shares: []Share{{UserID: 1, Amount: 10}}}
	if _, err := PairContribution(e, 1, 1); !errors.Is(err, ErrInvalidPairIdentity) {
		t.Errorf("error = %v, want ErrInvalidPairIdentity", err)
	}
	if _, err := PairBalance([]Expense{e}, 3, 3); !errors.Is(err, ErrInvalidPairIdentity) {
		t.Errorf("PairBalance error = %v, want ErrInvalidPairIdentity", err)
	}
}

func TestPairBalance(t *testing.T) {
	expenses := []Expense{
		// viewer lent 25
		{PaidBy: 1, Shares: []Share{{UserID: 1, Amount: 25}, {UserID: 2, Amount: 25}}},
		// viewer borrowed 10
		{PaidBy: 2, Shares: []Share{{UserID: 1, Amount: 10}, {UserID: 2, Amount: 10}}},
		// third party, friend ahead by 10
		{PaidBy: 9, Shares: []Share{{UserID: 1, Amount: 20}, {UserID: 2, Amount: 30}}},
	}

	got, err := PairBalance(expenses, 1, 2)
	if err != nil {
		t.Fatalf("PairBalance() error: %v", err)
	}
	if math.Abs(got-25.0) > tolerance {
		t.Errorf("PairBalance() = %v, want 25", got)
	}
}

func TestSettleableBalance(t *testing.T) {
	tests := []struct {
		name     string
		expenses []Expense
		want     float64
	}{
		{
			name: "already-paid share is not billed again",
			expenses: []Expense{
				// 2 settled this 30 earlier
				{PaidBy: 1, Shares: []Share{{UserID: 2, Amount: 30, Paid: true}}},
				// 2 still owes 50
				{PaidBy: 1, Shares: []Share{{UserID: 1, Amount: 50}, {UserID: 2, Amount: 50}}},
				// viewer still owes 20 back
				{PaidBy: 2, Shares: []Share{{UserID: 1, Amount: 20}, {UserID: 2, Amount: 20}}},
			},
			want: 30,
		},
		{
			name: "fully settled pair nets to zero",
			expenses: []Expense{
				{PaidBy: 1, Shares: []Share{{UserID: 2, Amount: 30, Paid: true}}},
				{PaidBy: 2, Shares: []Share{{UserID: 1, Amount: 10, Paid: true}}},
			},
			want: 0,
		},
		{
			name: "third-party-paid expense is excluded",
			expenses: []Expense{
				{PaidBy: 9, Shares: []Share{
					{UserID: 1, Amount: 20},
					{UserID: 2, Amount: 30},
					{UserID: 9, Amount: 10},
				}},
				{PaidBy: 1, Shares: []Share{{UserID: 2, Amount: 15}}},
			},
			want: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SettleableBalance(tt.expenses, 1, 2)
			if err != nil {
				t.Fatalf("SettleableBalance() error: %v", err)
			}
			if math.Abs(got-tt.want) > tolerance {
				t.Errorf("SettleableBalance() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := SettleableBalance(nil, 1, 1); !errors.Is(err, ErrInvalidPairIdentity) {
		t.Errorf("self pair error = %v, want ErrInvalidPairIdentity", err)
	}
}

// Paying the settleable net and then marking every share between the pair
// paid, in both directions, must leave the pair's books at zero.
func TestSettleableBalanceClearsBothDirections(t *testing.T) {
	expenses := []Expense{
		{PaidBy: 1, Shares: []Share{{UserID: 1, Amount: 50}, {UserID: 2, Amount: 50}}},
		{PaidBy: 2, Shares: []Share{{UserID: 1, Amount: 20}, {UserID: 2, Amount: 20}}},
	}

	net, err := SettleableBalance(expenses, 1, 2)
	if err != nil {
		t.Fatalf("SettleableBalance() error: %v", err)
	}
	if math.Abs(net-30.0) > tolerance {
		t.Fatalf("SettleableBalance() = %v, want 30", net)
	}

	for i, e := range expenses {
		for j, sh := range e.Shares {
			if (e.PaidBy == 1 && sh.UserID == 2) || (e.PaidBy == 2 && sh.UserID == 1) {
				expenses[i].Shares[j].Paid = true
			}
		}
	}

	if got := CounterpartyBalances(expenses, 1); got[2] != 0 {
		t.Errorf("balance vs user 2 after settling = %v, want 0", got[2])
	}
	if got := CounterpartyBalances(expenses, 2); got[1] != 0 {
		t.Errorf("balance vs user 1 after settling = %v, want 0", got[1])
	}
}

func TestUnpaidPairContribution(t *testing.T) {
	e := Expense{PaidBy: 1, Shares: []Share{{UserID: 2, Amount: 30, Paid: true}}}
	got, err := UnpaidPairContribution(e, 1, 2)
	if err != nil {
		t.Fatalf("UnpaidPairContribution() error: %v", err)
	}
	if got != 0 {
		t.Errorf("UnpaidPairContribution() = %v, want 0 once the share is paid", got)
	}

	e = Expense{PaidBy: 2, Shares: []Share{
		{UserID: 1, Amount: 12.5},
		{UserID: 2, Amount: 12.5, Paid: true},
	}}
	got, err = UnpaidPairContribution(e, 1, 2)
	if err != nil {
		t.Fatalf("UnpaidPairContribution() error: %v", err)
	}
	if math.Abs(got-(-12.5)) > tolerance {
		t.Errorf("UnpaidPairContribution() = %v, want -12.5", got)
	}
}

func TestCounterpartyBalances(t *testing.T) {
	expenses := []Expense{
		// subject paid, 2 and 3 each owe 30
		{PaidBy: 1, Shares: []Share{
			{UserID: 1, Amount: 30},
			{UserID: 2, Amount: 30},
			{UserID: 3, Amount: 30},
		}},
		// 2 paid, subject owes 20
		{PaidBy: 2, Shares: []Share{
			{UserID: 1, Amount: 20},
			{UserID: 2, Amount: 20},
		}},
		// settled share drops out entirely
		{PaidBy: 3, Shares: []Share{
			{UserID: 1, Amount: 50, Paid: true},
		}},
		// expense the subject is not part of
		{PaidBy: 4, Shares: []Share{{UserID: 5, Amount: 99}}},
	}

	got := CounterpartyBalances(expenses, 1)

	if math.Abs(got[2]-10.0) > tolerance {
		t.Errorf("balance vs user 2 = %v, want 10", got[2])
	}
	if math.Abs(got[3]-30.0) > tolerance {
		t.Errorf("balance vs user 3 = %v, want 30", got[3])
	}
	if _, ok := got[4]; ok {
		t.Error("user 4 should not appear, subject shares no expense with them")
	}
	if _, ok := got[5]; ok {
		t.Error("user 5 should not appear, subject shares no expense with them")
	}
}

// End-to-end: a 90.00 expense split EQUAL three ways and paid by A. B's view
// and A's view must match the shares exactly.
func TestEqualSplitAggregation(t *testing.T) {
	const a, b, c = 1, 2, 3
	e := Expense{PaidBy: a, Shares: []Share{
		{UserID: a, Amount: 30},
		{UserID: b, Amount: 30},
		{UserID: c, Amount: 30},
	}}

	forB := Summarize([]Expense{e}, b)
	if math.Abs(forB.OwedBySubject-30.0) > tolerance || forB.OwedToSubject != 0 {
		t.Errorf("B summary = %+v, want OwedBySubject=30 OwedToSubject=0", forB)
	}

	forA := Summarize([]Expense{e}, a)
	if math.Abs(forA.OwedToSubject-60.0) > tolerance || forA.OwedBySubject != 0 {
		t.Errorf("A summary = %+v, want OwedToSubject=60 OwedBySubject=0", forA)
	}
}
