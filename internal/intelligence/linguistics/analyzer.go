// Package linguistics implements the per-language word analysis used by the
// reference-sign scanner: stemming with a memo cache, article and ordinal
// classification, noise-word filtering and preceding-word lookup.
//
// Exactly two languages are supported, German and English.
package linguistics

import (
	"strings"
	"unicode/utf8"

	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/pkg/errors"
)

// Language identifies an analyzer.
type Language string

const (
	German  Language = "de"
	English Language = "en"
)

// ParseLanguage accepts "de"/"german" and "en"/"english" in any case.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "de", "german", "deutsch":
		return German, nil
	case "en", "english":
		return English, nil
	}
	return "", errors.New(errors.ErrCodeLanguageUnsupported, "unsupported analysis language").WithDetail(s)
}

// Ordinal classifies an ordinal qualifier word.
type Ordinal int

const (
	OrdinalNone Ordinal = iota
	OrdinalFirst
	OrdinalSecond
	OrdinalThird
)

// Analyzer is the language-specific word analysis capability.
//
// Stemming mutates an internal cache; an Analyzer is safe for concurrent
// use but is meant to be driven by one scan at a time.
type Analyzer interface {
	Language() Language

	// Stem lowercases the first letter and reduces word to its stem.
	Stem(word string) string
	StemVector(word string) reference.StemVector
	MultiWordStemVector(qualifier, base string) reference.StemVector
	IsMultiWordBase(word string, bases reference.StringSet) bool

	IsDefiniteArticle(word string) bool
	IsIndefiniteArticle(word string) bool
	IsIgnoredWord(word string) bool
	ClassifyOrdinal(word string) Ordinal

	CacheSize() int
	ClearCache()
	// CacheStats returns cumulative stem cache hits and misses.
	CacheStats() (hits, misses uint64)
}

// New returns the analyzer for lang.
func New(lang Language) (Analyzer, error) {
	var (
		a   Analyzer
		err error
	)
	switch lang {
	case German:
		a, err = NewGermanAnalyzer()
	case English:
		a, err = NewEnglishAnalyzer()
	default:
		return nil, errors.New(errors.ErrCodeLanguageUnsupported, "unsupported analysis language").WithDetail(string(lang))
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Shared implementation
// ─────────────────────────────────────────────────────────────────────────────

// wordList is a small closed set matched case-insensitively.
type wordList []string

func (l wordList) contains(word string) bool {
	for _, w := range l {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}

// profile is the closed per-language vocabulary.
type profile struct {
	definite   wordList
	indefinite wordList
	figures    wordList
	first      wordList
	second     wordList
	third      wordList

	// Rune-length bounds of the article sets, checked before any comparison.
	definiteLen                  int
	indefiniteMin, indefiniteMax int
}

// base carries everything the two analyzers share; only the stemming
// algorithm and the vocabulary differ.
type base struct {
	lang    Language
	profile *profile
	stems   *stemCache
}

func (b *base) Language() Language { return b.lang }

func (b *base) StemVector(word string) reference.StemVector {
	return reference.SingleStem(b.stems.stem(word))
}

func (b *base) MultiWordStemVector(qualifier, baseWord string) reference.StemVector {
	return reference.PairStem(b.stems.stem(qualifier), b.stems.stem(baseWord))
}

func (b *base) Stem(word string) string { return b.stems.stem(word) }

func (b *base) IsMultiWordBase(word string, bases reference.StringSet) bool {
	if len(bases) == 0 {
		return false
	}
	return bases.Has(b.stems.stem(word))
}

func (b *base) IsDefiniteArticle(word string) bool {
	if utf8.RuneCountInString(word) != b.profile.definiteLen {
		return false
	}
	return b.profile.definite.contains(word)
}

func (b *base) IsIndefiniteArticle(word string) bool {
	n := utf8.RuneCountInString(word)
	if n < b.profile.indefiniteMin || n > b.profile.indefiniteMax {
		return false
	}
	return b.profile.indefinite.contains(word)
}

func (b *base) IsIgnoredWord(word string) bool {
	if utf8.RuneCountInString(word) < 3 {
		return true
	}
	return b.IsDefiniteArticle(word) || b.IsIndefiniteArticle(word) || b.profile.figures.contains(word)
}

func (b *base) ClassifyOrdinal(word string) Ordinal {
	switch {
	case b.profile.first.contains(word):
		return OrdinalFirst
	case b.profile.second.contains(word):
		return OrdinalSecond
	case b.profile.third.contains(word):
		return OrdinalThird
	}
	return OrdinalNone
}

func (b *base) CacheSize() int { return b.stems.size() }

func (b *base) ClearCache() { b.stems.clear() }

func (b *base) CacheStats() (uint64, uint64) { return b.stems.stats() }

//Personal.AI order the ending
