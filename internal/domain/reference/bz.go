package reference

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// CompareBZ orders reference numbers in reading order: by leading numeric
// value, then by length, then lexicographically. Strings without a leading
// digit sort after every numeric one and compare lexicographically among
// themselves. It returns -1, 0 or +1.
//
//	1 < 2 < 10 < 10a < 10ab < 100 < abc
func CompareBZ(a, b string) int {
	if a == b {
		return 0
	}
	na, aNumeric := leadingDigits(a)
	nb, bNumeric := leadingDigits(b)
	switch {
	case aNumeric && !bNumeric:
		return -1
	case !aNumeric && bNumeric:
		return 1
	case !aNumeric && !bNumeric:
		return strings.Compare(a, b)
	}

	// Digit strings without leading zeros compare numerically by length first,
	// which sidesteps integer overflow on absurdly long numbers.
	if len(na) != len(nb) {
		return sign(len(na) - len(nb))
	}
	if c := strings.Compare(na, nb); c != 0 {
		return c
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la != lb {
		return sign(la - lb)
	}
	return strings.Compare(a, b)
}

// LessBZ is CompareBZ as a less-than predicate.
func LessBZ(a, b string) bool { return CompareBZ(a, b) < 0 }

// SortBZ sorts reference numbers in place using CompareBZ.
func SortBZ(bzs []string) {
	sort.Slice(bzs, func(i, j int) bool { return LessBZ(bzs[i], bzs[j]) })
}

// leadingDigits returns the run of ASCII digits at the start of s with
// leading zeros removed, and whether s starts with a digit at all.
func leadingDigits(s string) (string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", false
	}
	return strings.TrimLeft(s[:i], "0"), true
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

//Personal.AI order the ending
