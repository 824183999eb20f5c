package expense

import (
	"errors"
	"testing"

	"github.com/splitbuddy/api/internal/expense/split"
)

func fptr(v float64) *float64 { return &v }

func TestValidateSplitRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *CreateExpenseRequest
		wantErr error
	}{
		{
			name: "equal split needs no cross-field checks",
			req: &CreateExpenseRequest{
				Amount:    90,
				SplitType: "EQUAL",
				Participants: []*ParticipantInput{
					{UserID: 1, Source: "FRIEND"},
					{UserID: 2, Source: "FRIEND"},
				},
			},
		},
		{
			name: "percentages summing to 100",
			req: &CreateExpenseRequest{
				Amount:    100,
				SplitType: "PERCENTAGE",
				Participants: []*ParticipantInput{
					{UserID: 1, Percentage: fptr(60), Source: "FRIEND"},
					{UserID: 2, Percentage: fptr(40), Source: "FRIEND"},
				},
			},
		},
		{
			name: "percentages within tolerance",
			req: &CreateExpenseRequest{
				Amount:    100,
				SplitType: "PERCENTAGE",
				Participants: []*ParticipantInput{
					{UserID: 1, Percentage: fptr(33.33), Source: "FRIEND"},
					{UserID: 2, Percentage: fptr(33.33), Source: "FRIEND"},
					{UserID: 3, Percentage: fptr(33.34), Source: "FRIEND"},
				},
			},
		},
		{
			name: "percentages off by more than a cent",
			req: &CreateExpenseRequest{
				Amount:    100,
				SplitType: "PERCENTAGE",
				Participants: []*ParticipantInput{
					{UserID: 1, Percentage: fptr(50), Source: "FRIEND"},
					{UserID: 2, Percentage: fptr(49), Source: "FRIEND"},
				},
			},
			wantErr: ErrPercentageSum,
		},
		{
			name: "missing percentage entries count as zero",
			req: &CreateExpenseRequest{
				Amount:    100,
				SplitType: "PERCENTAGE",
				Participants: []*ParticipantInput{
					{UserID: 1, Percentage: fptr(100), Source: "FRIEND"},
					{UserID: 2, Source: "FRIEND"},
				},
			},
		},
		{
			name: "custom amounts summing to total",
			req: &CreateExpenseRequest{
				Amount:    75.50,
				SplitType: "CUSTOM",
				Participants: []*ParticipantInput{
					{UserID: 1, Amount: fptr(50.50), Source: "FRIEND"},
					{UserID: 2, Amount: fptr(25), Source: "FRIEND"},
				},
			},
		},
		{
			name: "custom amounts off total",
			req: &CreateExpenseRequest{
				Amount:    75.50,
				SplitType: "CUSTOM",
				Participants: []*ParticipantInput{
					{UserID: 1, Amount: fptr(50), Source: "FRIEND"},
					{UserID: 2, Amount: fptr(25), Source: "FRIEND"},
				},
			},
			wantErr: ErrCustomAmountSum,
		},
		{
			name: "lowercase split type accepted",
			req: &CreateExpenseRequest{
				Amount:    50,
				SplitType: "full_on_me",
				Participants: []*ParticipantInput{
					{UserID: 1, Source: "FRIEND"},
					{UserID: 2, Source: "FRIEND"},
				},
			},
		},
		{
			name: "unknown split type",
			req: &CreateExpenseRequest{
				Amount:    50,
				SplitType: "WEIGHTED",
				Participants: []*ParticipantInput{
					{UserID: 1, Source: "FRIEND"},
				},
			},
			wantErr: split.ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplitRequest(tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	if s, err := ParseSource("friend"); err != nil || s != SourceFriend {
		t.Fatalf("ParseSource(friend) = %q, %v", s, err)
	}
	if s, err := ParseSource(" GROUP "); err != nil || s != SourceGroup {
		t.Fatalf("ParseSource(GROUP) = %q, %v", s, err)
	}
	if _, err := ParseSource("contact"); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}
