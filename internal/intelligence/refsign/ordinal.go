package refsign

import (
	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/internal/intelligence/textmatch"
)

// OrdinalDetector finds base terms that the text numbers with ordinals,
// such as "erstes Lager 10 ... zweites Lager 12".
type OrdinalDetector struct {
	analyzer linguistics.Analyzer
	patterns *textmatch.Patterns
	logger   logging.Logger
}

// NewOrdinalDetector returns a detector for the analyzer's language.
func NewOrdinalDetector(analyzer linguistics.Analyzer, patterns *textmatch.Patterns, opts ...Option) *OrdinalDetector {
	o := applyOptions(opts)
	return &OrdinalDetector{
		analyzer: analyzer,
		patterns: patterns,
		logger:   o.logger.Named("ordinal"),
	}
}

// Detect returns the base stems preceded at least once by a first-class and
// at least once by a second-class ordinal in a two-word reference. A third
// ordinal alone, or first and third without second, does not qualify.
func (d *OrdinalDetector) Detect(text string) reference.StringSet {
	seen := make(map[string]map[linguistics.Ordinal]struct{})

	m := textmatch.NewMatcher(text, d.patterns.TwoWord)
	for m.HasNext() {
		match := m.Next()
		class := d.analyzer.ClassifyOrdinal(match.Group(1))
		if class == linguistics.OrdinalNone {
			continue
		}
		stem := d.analyzer.StemVector(match.Group(2)).Base()
		if seen[stem] == nil {
			seen[stem] = make(map[linguistics.Ordinal]struct{}, 3)
		}
		seen[stem][class] = struct{}{}
	}

	out := make(reference.StringSet)
	for stem, classes := range seen {
		_, first := classes[linguistics.OrdinalFirst]
		_, second := classes[linguistics.OrdinalSecond]
		if first && second {
			out.Add(stem)
		}
	}
	if len(out) > 0 {
		d.logger.Debug("multi-word stems detected", logging.Strings("stems", out.Sorted()))
	}
	return out
}

//Personal.AI order the ending
