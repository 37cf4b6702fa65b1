package analyzer

import (
	"strings"
	"unicode"
)

// Token is a lower-cased word with its 1-based offset in the text and the
// byte span it occupies in the original string.
type Token struct {
	Term     string
	Position int
	Start    int
	End      int
}

// Tokenizer splits text into lower-cased words on runs of characters that are
// neither letters, digits nor underscores.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize returns the lower-cased words of text in order.
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := t.Tokens(text)
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Term
	}
	return words
}

// Tokens returns the words of text with their positions and byte spans.
func (t *Tokenizer) Tokens(text string) []Token {
	var tokens []Token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		tokens = append(tokens, Token{
			Term:     strings.ToLower(text[start:end]),
			Position: len(tokens) + 1,
			Start:    start,
			End:      end,
		})
		start = -1
	}

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	return tokens
}

// CountTokens returns the number of words in text.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.Tokens(text))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
