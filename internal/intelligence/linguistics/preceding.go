package linguistics

import "unicode"

// FindPrecedingWord returns the word that ends before pos, skipping
// whitespace, together with its start offset. Offsets index text by code
// point. It returns ("", 0) when only whitespace or non-letters precede pos.
//
// The lookup does not depend on the language.
func FindPrecedingWord(text []rune, pos int) (string, int) {
	if pos <= 0 || len(text) == 0 {
		return "", 0
	}
	if pos > len(text) {
		pos = len(text)
	}

	end := pos
	for end > 0 && unicode.IsSpace(text[end-1]) {
		end--
	}
	if end == 0 {
		return "", 0
	}

	start := end
	for start > 0 && unicode.IsLetter(text[start-1]) {
		start--
	}
	if start == end {
		return "", 0
	}
	return string(text[start:end]), start
}

//Personal.AI order the ending
