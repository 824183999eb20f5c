package friend

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"PENDING", StatusPending, false},
		{"pending", StatusPending, false},
		{" Accepted ", StatusAccepted, false},
		{"REJECTED", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStatus(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFriendshipSides(t *testing.T) {
	f := &Friendship{ID: 1, RequesterID: 10, AddresseeID: 20}

	if got := f.OtherUser(10); got != 20 {
		t.Errorf("OtherUser(10) = %d, want 20", got)
	}
	if got := f.OtherUser(20); got != 10 {
		t.Errorf("OtherUser(20) = %d, want 10", got)
	}

	if !f.Involves(10) || !f.Involves(20) {
		t.Error("Involves should be true for both sides")
	}
	if f.Involves(30) {
		t.Error("Involves(30) should be false")
	}
}
