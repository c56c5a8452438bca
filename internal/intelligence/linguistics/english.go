package linguistics

import "golang.org/x/text/language"

var englishProfile = &profile{
	definite:      wordList{"the"},
	indefinite:    wordList{"a", "an"},
	figures:       wordList{"figure", "figures"},
	first:         wordList{"first"},
	second:        wordList{"second"},
	third:         wordList{"third"},
	definiteLen:   3,
	indefiniteMin: 1,
	indefiniteMax: 2,
}

// EnglishAnalyzer stems with the Snowball English (Porter2) algorithm.
type EnglishAnalyzer struct {
	base
}

var _ Analyzer = (*EnglishAnalyzer)(nil)

// NewEnglishAnalyzer returns an English analyzer with an empty stem cache.
func NewEnglishAnalyzer() (*EnglishAnalyzer, error) {
	fn, err := stemmerFor(English)
	if err != nil {
		return nil, err
	}
	return &EnglishAnalyzer{base: base{
		lang:    English,
		profile: englishProfile,
		stems:   newStemCache(language.English, fn),
	}}, nil
}

//Personal.AI order the ending
