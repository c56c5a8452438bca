package reference

// Kind classifies a highlighted span.
type Kind string

const (
	// KindReference marks a recorded term/number occurrence.
	KindReference Kind = "reference"
	// KindUnnumbered marks a known term that appears without a number.
	KindUnnumbered Kind = "unnumbered"
	// KindWrongArticle marks a definite article on a first mention or an
	// indefinite article on a repeat mention.
	KindWrongArticle Kind = "wrong_article"
	// KindConflict marks every occurrence of a number used for several terms.
	KindConflict Kind = "conflict"
	// KindSplit marks every occurrence of a term used with several numbers.
	KindSplit Kind = "split"
)

// ErrorKinds lists the four error kinds in display order.
var ErrorKinds = []Kind{KindUnnumbered, KindConflict, KindSplit, KindWrongArticle}

// Highlighter receives spans as the scanner and detector produce them. It
// is how a rich-text consumer paints the document; the engine never reads
// anything back from it.
type Highlighter interface {
	Highlight(kind Kind, span Span)
}

// HighlighterFunc adapts a function to Highlighter.
type HighlighterFunc func(kind Kind, span Span)

// Highlight calls f.
func (f HighlighterFunc) Highlight(kind Kind, span Span) { f(kind, span) }

// NopHighlighter discards every span.
type NopHighlighter struct{}

// Highlight does nothing.
func (NopHighlighter) Highlight(Kind, Span) {}

//Personal.AI order the ending
