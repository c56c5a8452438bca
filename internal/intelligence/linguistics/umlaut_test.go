package linguistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestoreUmlauts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		original, stemmed, want string
	}{
		{"änderung", "ander", "änder"},
		{"Übergänge", "ubergang", "übergäng"},
		{"lager", "lag", "lag"},
		{"möglich", "mog", "mög"},
		// stem shorter than the umlaut index
		{"bahnhöfe", "bahn", "bahn"},
		// ß expanded to ss shifts every later index
		{"grüßä", "grussa", "grüssa"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, restoreUmlauts(tc.original, tc.stemmed), tc.original)
	}
}

//Personal.AI order the ending
