package rules

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize is the pure text-normalization step preceding every fuzzy
// comparison: NFKC unicode fold, full-width characters narrowed, whitespace
// collapsed. It never touches letter case; similarity scoring folds case
// itself so the all-caps warning check can still see the raw casing.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = width.Narrow.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// confusablePairs are character substitutions Tesseract commonly makes.
// Keys are uppercase; comparison uppercases both sides first.
var confusablePairs = map[[2]rune]bool{
	{'O', '0'}: true,
	{'I', '1'}: true,
	{'L', '1'}: true,
	{'S', '5'}: true,
	{'B', '8'}: true,
	{'Z', '2'}: true,
	{'G', '6'}: true,
	{',', '.'}: true,
}

func isConfusable(a, b rune) bool {
	return confusablePairs[[2]rune{a, b}] || confusablePairs[[2]rune{b, a}]
}

// IsOCRConfusable reports whether two strings differ only by one or two
// common OCR character substitutions (O/0, l/1, S/5, ...). A fuzzy Fail
// whose diff is purely confusable is downgraded to NeedsReview: the label is
// probably right and the reading wrong.
func IsOCRConfusable(a, b string) bool {
	a = strings.ToUpper(Normalize(a))
	b = strings.ToUpper(Normalize(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}
	diffs := 0
	for i := range ra {
		if ra[i] == rb[i] {
			continue
		}
		if !isConfusable(ra[i], rb[i]) {
			return false
		}
		diffs++
		if diffs > 2 {
			return false
		}
	}
	return diffs > 0
}
