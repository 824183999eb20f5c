package split

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 0.01

func people(ids ...int64) []Person {
	ps := make([]Person, len(ids))
	for i, id := range ids {
		ps[i] = Person{UserID: id}
	}
	return ps
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"EQUAL", TypeEqual, false},
		{"equal", TypeEqual, false},
		{"percentage", TypePercentage, false},
		{"custom", TypeCustom, false},
		{"full_on_other", TypeFullOnOther, false},
		{"full_on_me", TypeFullOnMe, false},
		{" Full_On_Me ", TypeFullOnMe, false},
		{"EVEN", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		totalAmount  float64
		participants []Person
		wantErr      error
		wantEach     float64
	}{
		{
			name:         "three-way split",
			totalAmount:  90.0,
			participants: people(1, 2, 3),
			wantEach:     30.0,
		},
		{
			name:         "single participant gets the whole amount",
			totalAmount:  42.50,
			participants: people(1),
			wantEach:     42.50,
		},
		{
			name:         "zero amount",
			totalAmount:  0,
			participants: people(1, 2),
			wantEach:     0,
		},
		{
			name:         "no participants",
			totalAmount:  10.0,
			participants: nil,
			wantErr:      ErrNoParticipants,
		},
		{
			name:         "negative amount",
			totalAmount:  -5.0,
			participants: people(1, 2),
			wantErr:      ErrNegativeAmount,
		},
	}

	strategy := &EqualStrategy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := strategy.Calculate(tt.totalAmount, tt.participants, Params{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate() unexpected error: %v", err)
			}
			if len(shares) != len(tt.participants) {
				t.Fatalf("got %d shares, want %d", len(shares), len(tt.participants))
			}
			for _, s := range shares {
				if math.Abs(s.Amount-tt.wantEach) > tolerance {
					t.Errorf("user %d share = %v, want %v", s.UserID, s.Amount, tt.wantEach)
				}
			}
		})
	}
}

// Equal splits must conserve the total: the shares sum back to the amount
// within a cent, even when the division does not come out evenly.
func TestEqualSplitConservation(t *testing.T) {
	tests := []struct {
		totalAmount float64
		n           int
	}{
		{100.0, 3},
		{0.01, 2},
		{99.99, 7},
		{1234.56, 11},
		{0, 5},
	}

	strategy := &EqualStrategy{}
	for _, tt := range tests {
		ids := make([]int64, tt.n)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		shares, err := strategy.Calculate(tt.totalAmount, people(ids...), Params{})
		if err != nil {
			t.Fatalf("Calculate(%v, n=%d) error: %v", tt.totalAmount, tt.n, err)
		}

		var sum float64
		for _, s := range shares {
			sum += s.Amount
			if math.Abs(s.Amount-shares[0].Amount) > tolerance {
				t.Errorf("shares not equal: %v vs %v", s.Amount, shares[0].Amount)
			}
		}
		if math.Abs(sum-tt.totalAmount) > tolerance {
			t.Errorf("sum of shares = %v, want %v", sum, tt.totalAmount)
		}
	}
}

func TestPercentageSplit(t *testing.T) {
	strategy := &PercentageStrategy{}

	t.Run("exact percentages conserve the total exactly", func(t *testing.T) {
		shares, err := strategy.Calculate(200.0, people(1, 2, 3), Params{
			Percentages: map[int64]float64{1: 50, 2: 25, 3: 25},
		})
		if err != nil {
			t.Fatalf("Calculate() error: %v", err)
		}

		want := map[int64]float64{1: 100, 2: 50, 3: 50}
		var sum float64
		for _, s := range shares {
			sum += s.Amount
			if s.Amount != want[s.UserID] {
				t.Errorf("user %d share = %v, want %v", s.UserID, s.Amount, want[s.UserID])
			}
			if s.Percentage == nil {
				t.Errorf("user %d percentage not recorded", s.UserID)
			}
		}
		if sum != 200.0 {
			t.Errorf("sum of shares = %v, want exactly 200", sum)
		}
	})

	t.Run("missing percentage entry defaults to zero", func(t *testing.T) {
		shares, err := strategy.Calculate(100.0, people(1, 2), Params{
			Percentages: map[int64]float64{1: 100},
		})
		if err != nil {
			t.Fatalf("Calculate() error: %v", err)
		}
		if shares[0].Amount != 100 || shares[1].Amount != 0 {
			t.Errorf("shares = %v/%v, want 100/0", shares[0].Amount, shares[1].Amount)
		}
	})

	t.Run("no participants", func(t *testing.T) {
		if _, err := strategy.Calculate(100.0, nil, Params{}); !errors.Is(err, ErrNoParticipants) {
			t.Errorf("error = %v, want ErrNoParticipants", err)
		}
	})
}

func TestCustomSplit(t *testing.T) {
	strategy := &CustomStrategy{}

	t.Run("returns caller amounts verbatim", func(t *testing.T) {
		amounts := map[int64]float64{1: 12.34, 2: 0.01, 3: 87.65}
		shares, err := strategy.Calculate(100.0, people(1, 2, 3), Params{Amounts: amounts})
		if err != nil {
			t.Fatalf("Calculate() error: %v", err)
		}
		for _, s := range shares {
			if s.Amount != amounts[s.UserID] {
				t.Errorf("user %d share = %v, want %v", s.UserID, s.Amount, amounts[s.UserID])
			}
		}
	})

	t.Run("missing amount entry defaults to zero", func(t *testing.T) {
		shares, err := strategy.Calculate(50.0, people(1, 2), Params{
			Amounts: map[int64]float64{2: 50},
		})
		if err != nil {
			t.Fatalf("Calculate() error: %v", err)
		}
		if shares[0].Amount != 0 || shares[1].Amount != 50 {
			t.Errorf("shares = %v/%v, want 0/50", shares[0].Amount, shares[1].Amount)
		}
	})
}

func TestFullOnSplits(t *testing.T) {
	tests := []struct {
		name         string
		strategy     Strategy
		totalAmount  float64
		participants []Person
		params       Params
		wantErr      error
		want         map[int64]float64
	}{
		{
			name:         "full on other assigns everything to the friend",
			strategy:     &FullOnOtherStrategy{},
			totalAmount:  60.0,
			participants: people(1, 2),
			params:       Params{CurrentUserID: 1},
			want:         map[int64]float64{1: 0, 2: 60},
		},
		{
			name:         "full on me assigns everything to the current user",
			strategy:     &FullOnMeStrategy{},
			totalAmount:  60.0,
			participants: people(1, 2),
			params:       Params{CurrentUserID: 1},
			want:         map[int64]float64{1: 60, 2: 0},
		},
		{
			name:         "full on other with three participants",
			strategy:     &FullOnOtherStrategy{},
			totalAmount:  60.0,
			participants: people(1, 2, 3),
			params:       Params{CurrentUserID: 1},
			wantErr:      ErrInvalidPolicyForParticipantCount,
		},
		{
			name:         "full on me with one participant",
			strategy:     &FullOnMeStrategy{},
			totalAmount:  60.0,
			participants: people(1),
			params:       Params{CurrentUserID: 1},
			wantErr:      ErrInvalidPolicyForParticipantCount,
		},
		{
			name:         "current user not in the pair",
			strategy:     &FullOnMeStrategy{},
			totalAmount:  60.0,
			participants: people(2, 3),
			params:       Params{CurrentUserID: 1},
			wantErr:      ErrCurrentUserNotInSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := tt.strategy.Calculate(tt.totalAmount, tt.participants, tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Calculate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calculate() unexpected error: %v", err)
			}
			for _, s := range shares {
				if s.Amount != tt.want[s.UserID] {
					t.Errorf("user %d share = %v, want %v", s.UserID, s.Amount, tt.want[s.UserID])
				}
			}
		})
	}
}

// Which side carries a full-on expense depends only on the policy choice,
// never on who paid; the evaluator does not even see a payer.
func TestFullOnComplementarity(t *testing.T) {
	participants := people(7, 9)
	params := Params{CurrentUserID: 7}

	onMe, err := (&FullOnMeStrategy{}).Calculate(80.0, participants, params)
	if err != nil {
		t.Fatalf("full_on_me error: %v", err)
	}
	onOther, err := (&FullOnOtherStrategy{}).Calculate(80.0, participants, params)
	if err != nil {
		t.Fatalf("full_on_other error: %v", err)
	}

	for i := range participants {
		if onMe[i].Amount+onOther[i].Amount != 80.0 {
			t.Errorf("user %d: full_on_me %v + full_on_other %v != 80",
				participants[i].UserID, onMe[i].Amount, onOther[i].Amount)
		}
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	for _, typ := range []Type{TypeEqual, TypePercentage, TypeCustom, TypeFullOnOther, TypeFullOnMe} {
		s, err := f.Create(typ)
		if err != nil {
			t.Fatalf("Create(%s) error: %v", typ, err)
		}
		if s.Type() != typ {
			t.Errorf("Create(%s).Type() = %s", typ, s.Type())
		}
	}

	if _, err := f.CreateFromString("weighted"); err == nil {
		t.Error("CreateFromString(weighted) expected error")
	}
	if _, err := f.CreateFromString("equal"); err != nil {
		t.Errorf("CreateFromString(equal) error: %v", err)
	}
}
