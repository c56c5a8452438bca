package linguistics

import (
	"sync"
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// stemCache memoizes a stemFunc. Keys are the NFC form of the word with its
// first letter lowercased, so "Lager", "lager" and a decomposed spelling all
// share one entry.
type stemCache struct {
	mu      sync.Mutex
	lower   cases.Caser
	fn      stemFunc
	entries map[string]string

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newStemCache(tag language.Tag, fn stemFunc) *stemCache {
	return &stemCache{
		lower:   cases.Lower(tag),
		fn:      fn,
		entries: make(map[string]string),
	}
}

func (c *stemCache) stem(word string) string {
	if word == "" {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.foldFirst(norm.NFC.String(word))
	if s, ok := c.entries[key]; ok {
		c.hits.Add(1)
		return s
	}
	c.misses.Add(1)
	s := c.fn(key)
	c.entries[key] = s
	return s
}

// foldFirst lowercases the first rune with the language's casing rules.
// Caller holds mu; a Caser is not safe for concurrent use.
func (c *stemCache) foldFirst(word string) string {
	for i := range word {
		if i == 0 {
			continue
		}
		return c.lower.String(word[:i]) + word[i:]
	}
	return c.lower.String(word)
}

func (c *stemCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *stemCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}

func (c *stemCache) stats() (uint64, uint64) {
	return c.hits.Load(), c.misses.Load()
}

//Personal.AI order the ending
