package rules

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  KENTUCKY   STRAIGHT\nBOURBON ", "KENTUCKY STRAIGHT BOURBON"},
		{"ＶＯＤＫＡ", "VODKA"},     // full-width narrowed
		{"Bourbon", "Bourbon"}, // case preserved
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsOCRConfusable(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"PROOF 80", "PR00F 80", true}, // O/0 twice
		{"SILVER", "S1LVER", true},     // I/1
		{"45.5", "45,5", true},         // comma/period
		{"BOURBON", "VODKA", false},    // unrelated
		{"BOURBON", "BOURBONS", false}, // length differs
		{"ABCD", "XBCD", false},        // non-confusable substitution
		{"A0C1", "AOCI", true},         // two confusable diffs
		{"O0O0", "0O0O", false},        // more than two diffs
		{"", "X", false},
	}
	for _, c := range cases {
		if got := IsOCRConfusable(c.a, c.b); got != c.want {
			t.Errorf("IsOCRConfusable(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
