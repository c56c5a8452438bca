package linguistics

// umlautBase maps each umlaut to the plain vowel the German stemmer
// replaces it with.
var umlautBase = map[rune]rune{
	'ä': 'a', 'ö': 'o', 'ü': 'u',
	'Ä': 'a', 'Ö': 'o', 'Ü': 'u',
}

// restoreUmlauts puts back umlauts that stemming flattened to plain vowels.
// For every umlaut at code-point index i of original, if stemmed still holds
// the matching plain vowel at index i, the umlaut is reinstated in lower
// case. Snowball output is always lower case.
//
// The mapping is positional. When stemming changes the length of the word
// before an umlaut (e.g. ß expanded to ss) the indices drift and an umlaut
// can be missed, or a plain vowel that happens to land on the old index can
// be turned into one. Such stems are still deterministic, only less
// readable.
func restoreUmlauts(original, stemmed string) string {
	var positions []int
	var marks []rune
	i := 0
	for _, r := range original {
		if _, ok := umlautBase[r]; ok {
			positions = append(positions, i)
			marks = append(marks, r)
		}
		i++
	}
	if len(positions) == 0 {
		return stemmed
	}

	out := []rune(stemmed)
	for k, pos := range positions {
		if pos >= len(out) {
			continue
		}
		if out[pos] == umlautBase[marks[k]] {
			out[pos] = lowerUmlaut(marks[k])
		}
	}
	return string(out)
}

func lowerUmlaut(r rune) rune {
	switch r {
	case 'Ä', 'ä':
		return 'ä'
	case 'Ö', 'ö':
		return 'ö'
	}
	return 'ü'
}

//Personal.AI order the ending
