package linguistics

import "golang.org/x/text/language"

var germanProfile = &profile{
	definite:      wordList{"der", "die", "das", "den", "dem", "des"},
	indefinite:    wordList{"ein", "eine", "einen", "einer", "einem", "eines"},
	figures:       wordList{"figur", "figuren"},
	first:         wordList{"erste", "ersten", "erstes", "erster"},
	second:        wordList{"zweite", "zweiten", "zweites", "zweiter"},
	third:         wordList{"dritte", "dritten", "drittes", "dritter"},
	definiteLen:   3,
	indefiniteMin: 3,
	indefiniteMax: 6,
}

// GermanAnalyzer stems with the Snowball German algorithm and keeps umlauts
// in the stem ("Änderung" stems to "änder", not "ander").
type GermanAnalyzer struct {
	base
}

var _ Analyzer = (*GermanAnalyzer)(nil)

// NewGermanAnalyzer returns a German analyzer with an empty stem cache.
func NewGermanAnalyzer() (*GermanAnalyzer, error) {
	fn, err := stemmerFor(German)
	if err != nil {
		return nil, err
	}
	return &GermanAnalyzer{base: base{
		lang:    German,
		profile: germanProfile,
		stems:   newStemCache(language.German, fn),
	}}, nil
}

//Personal.AI order the ending
