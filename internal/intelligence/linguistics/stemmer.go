package linguistics

import (
	"github.com/dchest/stemmer/german"
	"github.com/kljensen/snowball"

	"github.com/turtacn/refsign-check/pkg/errors"
)

// stemFunc reduces a word whose first letter is already folded to its stem.
type stemFunc func(word string) string

// stemmerFor returns the stemming algorithm for lang. A language without
// one is a configuration error.
func stemmerFor(lang Language) (stemFunc, error) {
	switch lang {
	case German:
		return stemGerman, nil
	case English:
		return snowballStemmer("english")
	}
	return nil, errors.New(errors.ErrCodeConfigInvalid, "no stemmer for language").WithDetail(string(lang))
}

// snowballStemmer binds one kljensen/snowball algorithm. The library only
// reports an unknown algorithm when a word is stemmed, so the name is
// checked once up front.
func snowballStemmer(algorithm string) (stemFunc, error) {
	if _, err := snowball.Stem("check", algorithm, true); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "no stemmer for language").WithDetail(algorithm)
	}
	return func(word string) string {
		stemmed, _ := snowball.Stem(word, algorithm, true)
		return stemmed
	}, nil
}

// stemGerman runs the Snowball German algorithm and puts back the umlauts
// it flattens.
func stemGerman(word string) string {
	return restoreUmlauts(word, german.Stemmer.Stem(word))
}

//Personal.AI order the ending
