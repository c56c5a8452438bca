// Package textmatch holds the reference-sign pattern grammar and a matcher
// that reports match offsets in Unicode code points instead of UTF-8 bytes.
package textmatch

import (
	"regexp"

	"github.com/turtacn/refsign-check/pkg/errors"
)

// Pattern grammar. All three are case-insensitive and require words of at
// least three Unicode letters; the number is a digit run optionally followed
// by letters or an apostrophe ("10", "10a", "10'").
const (
	// SingleWordPattern captures (word)(number), e.g. "Lager 10".
	SingleWordPattern = `(?i)(\p{L}{3,})\s+(\b\d+[a-zA-Z']*\b)`

	// TwoWordPattern captures (word1)(word2)(number), e.g. "erstes Lager 10".
	TwoWordPattern = `(?i)(\p{L}{3,})\s+(\p{L}{3,})\s+(\b\d+[a-zA-Z']*\b)`

	// WordPattern matches a bare word, used to find unnumbered mentions.
	WordPattern = `(?i)\p{L}{3,}`
)

// Patterns bundles the compiled grammar. A Patterns value is immutable and
// safe for concurrent use.
type Patterns struct {
	Single  *regexp.Regexp
	TwoWord *regexp.Regexp
	Word    *regexp.Regexp
}

// Compile compiles an arbitrary pattern. A compile failure is a
// configuration error and carries ErrCodePatternCompile.
func Compile(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePatternCompile, "failed to compile pattern").WithDetail(expr)
	}
	return re, nil
}

// CompilePatterns compiles the three reference patterns.
func CompilePatterns() (*Patterns, error) {
	single, err := Compile(SingleWordPattern)
	if err != nil {
		return nil, err
	}
	two, err := Compile(TwoWordPattern)
	if err != nil {
		return nil, err
	}
	word, err := Compile(WordPattern)
	if err != nil {
		return nil, err
	}
	return &Patterns{Single: single, TwoWord: two, Word: word}, nil
}

// MustCompilePatterns is CompilePatterns for package initialisation; it
// panics on error.
func MustCompilePatterns() *Patterns {
	p, err := CompilePatterns()
	if err != nil {
		panic(err)
	}
	return p
}

//Personal.AI order the ending
