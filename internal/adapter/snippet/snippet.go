// Package snippet cuts short windows of text around query terms.
package snippet

import (
	"newsir/internal/adapter/analyzer"
	"newsir/internal/port"
)

const ellipsis = "..."

// Extractor returns up to window words on each side of the first word of a
// text that matches a query term. When a stemmer is set, words match by
// stem so that stemmed queries find their variants.
type Extractor struct {
	window    int
	stemmer   port.Stemmer
	tokenizer *analyzer.Tokenizer
}

func NewExtractor(window int, stemmer port.Stemmer) *Extractor {
	if window <= 0 {
		window = 8
	}
	return &Extractor{
		window:    window,
		stemmer:   stemmer,
		tokenizer: analyzer.NewTokenizer(),
	}
}

// Snippet returns the window around the first occurrence of any of terms,
// or the opening words of text when none occurs.
func (e *Extractor) Snippet(text string, terms []string) string {
	tokens := e.tokenizer.Tokens(text)
	if len(tokens) == 0 {
		return ""
	}

	wanted := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		wanted[e.normalize(term)] = struct{}{}
	}

	hit := -1
	for i, tok := range tokens {
		if _, ok := wanted[e.normalize(tok.Term)]; ok {
			hit = i
			break
		}
	}

	lo, hi := 0, 2*e.window
	if hit >= 0 {
		lo, hi = hit-e.window, hit+e.window
	}
	if lo < 0 {
		lo = 0
	}
	if hi > len(tokens)-1 {
		hi = len(tokens) - 1
	}

	out := text[tokens[lo].Start:tokens[hi].End]
	if lo > 0 {
		out = ellipsis + out
	}
	if hi < len(tokens)-1 {
		out += ellipsis
	}
	return out
}

func (e *Extractor) normalize(word string) string {
	if e.stemmer == nil {
		return word
	}
	return e.stemmer.Stem(word)
}
