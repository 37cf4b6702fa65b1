package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokPhrase
	tokAnd
	tokOr
	tokNot
	tokOpen
	tokClose
	tokColon
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a query into words, quoted phrases, the upper-case keywords
// AND/OR/NOT, parentheses and colons. Keywords are case sensitive; a
// lower-case "and" is an ordinary word.
func lex(query string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(query) {
		r, size := utf8.DecodeRuneInString(query[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			tokens = append(tokens, token{kind: tokOpen, text: "(", pos: i})
			i += size
		case r == ')':
			tokens = append(tokens, token{kind: tokClose, text: ")", pos: i})
			i += size
		case r == ':':
			tokens = append(tokens, token{kind: tokColon, text: ":", pos: i})
			i += size
		case r == '"':
			end := strings.IndexByte(query[i+1:], '"')
			if end < 0 {
				return nil, syntaxError(i, "unterminated phrase")
			}
			tokens = append(tokens, token{kind: tokPhrase, text: query[i+1 : i+1+end], pos: i})
			i += end + 2
		default:
			start := i
			for i < len(query) {
				r, size = utf8.DecodeRuneInString(query[i:])
				if unicode.IsSpace(r) || strings.ContainsRune(`():"`, r) {
					break
				}
				i += size
			}
			tokens = append(tokens, keyword(token{kind: tokWord, text: query[start:i], pos: start}))
		}
	}
	return tokens, nil
}

func keyword(t token) token {
	switch t.text {
	case "AND":
		t.kind = tokAnd
	case "OR":
		t.kind = tokOr
	case "NOT":
		t.kind = tokNot
	}
	return t
}
