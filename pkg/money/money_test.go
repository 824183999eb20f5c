package money

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"grouping and trailing zero", 1234.5, "USD", "$1,234.50"},
		{"zero", 0, "USD", "$0.00"},
		{"negative", -10, "USD", "-$10.00"},
		{"rounds half away from zero", 10.005, "USD", "$10.01"},
		{"rounds down", 10.004, "USD", "$10.00"},
		{"large amount", 1234567.891, "USD", "$1,234,567.89"},
		{"euro", 1000, "EUR", "€1,000.00"},
		{"pound", 99.999, "GBP", "£100.00"},
		{"yen has no minor units", 1234.5, "JPY", "¥1,235"},
		{"unlisted symbol falls back to code", 5, "SAR", "SAR 5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.amount, tt.code)
			if err != nil {
				t.Fatalf("Format(%v, %q) error: %v", tt.amount, tt.code, err)
			}
			if got != tt.want {
				t.Errorf("Format(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}

func TestFormatUnknownCode(t *testing.T) {
	if _, err := Format(10, "DOLLARS"); err == nil {
		t.Error("Format with invalid code expected error")
	}
	if _, err := Format(10, ""); err == nil {
		t.Error("Format with empty code expected error")
	}
}

func TestMustFormat(t *testing.T) {
	if got := MustFormat(1234.5, "USD"); got != "$1,234.50" {
		t.Errorf("MustFormat = %q, want $1,234.50", got)
	}
	// Invalid code degrades instead of failing; creation paths validate codes.
	if got := MustFormat(2.5, "???"); got != "??? 2.50" {
		t.Errorf("MustFormat fallback = %q, want %q", got, "??? 2.50")
	}
}
