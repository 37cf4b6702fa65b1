package analyzer

import (
	"fmt"

	"github.com/kljensen/snowball"
)

// SnowballStemmer reduces words to their Snowball stem for one language.
type SnowballStemmer struct {
	language string
}

// NewSnowballStemmer creates a stemmer for language. It fails if Snowball
// has no algorithm for that language.
func NewSnowballStemmer(language string) (*SnowballStemmer, error) {
	if _, err := snowball.Stem("prueba", language, true); err != nil {
		return nil, fmt.Errorf("unsupported stemming language %q: %w", language, err)
	}
	return &SnowballStemmer{language: language}, nil
}

// Stem returns the stem of word. Stop words are stemmed too.
func (s *SnowballStemmer) Stem(word string) string {
	stem, err := snowball.Stem(word, s.language, true)
	if err != nil {
		return word
	}
	return stem
}

// Language returns the stemmer's language.
func (s *SnowballStemmer) Language() string {
	return s.language
}
