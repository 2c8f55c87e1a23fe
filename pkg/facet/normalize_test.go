package facet

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"", ""},
		{"Small", "small"},
		{" SMALL ", "small"},
		{"Extra  Large", "extralarge"},
		{"2.8 lb\t/ 1.27 kg", "2.8lb/1.27kg"},
		{"ÄPPLE Öl", "äppleöl"},
		{"   ", ""},
		{"a b", "ab"},
	}
	for _, test := range tests {
		if got := Normalize(test.raw); got != test.expected {
			t.Errorf("Normalize(%q) = %q, expected %q", test.raw, got, test.expected)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "Small", " SMALL ", "Größe XL", "ΣΊΣΥΦΟΣ", "İstanbul", "Grade A / B", " Pro Line"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
