package query

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"newsir/internal/adapter/analyzer"
	"newsir/internal/domain"
	"newsir/internal/port"
	"newsir/internal/postings"
)

// Index is the read-only view of the inverted indexes a query is resolved
// against.
type Index interface {
	Terms(field, term string) domain.PostingList
	Stems(field, term string) (domain.PostingList, error)
	Phrase(field string, terms []string) (domain.PostingList, error)
	IsTokenized(field string) bool
	Universe() *roaring.Bitmap
}

// Kind tags an Element.
type Kind int

const (
	KindPostings Kind = iota
	KindOperator
	KindOpen
	KindClose
)

// Operator is a boolean connective.
type Operator int

const (
	OpAnd Operator = iota
	OpOr
	OpNot
)

func (o Operator) String() string {
	switch o {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Element is one item of a parsed query: a resolved term, an operator or a
// parenthesis. Text is the query text the element came from; Pos its byte
// offset (-1 for implicit operators).
type Element struct {
	Kind     Kind
	Postings domain.PostingList
	Op       Operator
	Text     string
	Pos      int
}

// Parsed is a query turned into a flat element sequence, plus the literal
// words it searched for.
type Parsed struct {
	Elements []Element
	Terms    []string
}

// Options controls how terms are looked up.
type Options struct {
	DefaultField string
	Stemming     bool
}

// Parser resolves query strings against an index.
type Parser struct {
	index     Index
	opts      Options
	tokenizer port.Tokenizer
}

func NewParser(index Index, opts Options) *Parser {
	if opts.DefaultField == "" {
		opts.DefaultField = "article"
	}
	return &Parser{
		index:     index,
		opts:      opts,
		tokenizer: analyzer.NewTokenizer(),
	}
}

// Parse lexes query and looks up every term it names. An AND is inserted
// wherever an operand directly follows another without an operator.
func (p *Parser) Parse(query string) (Parsed, error) {
	tokens, err := lex(query)
	if err != nil {
		return Parsed{}, err
	}

	var out Parsed
	// afterOperand is set when the last element ends an operand, so that a
	// following operand needs an implicit AND.
	afterOperand := false
	emit := func(e Element) {
		startsOperand := e.Kind == KindPostings || e.Kind == KindOpen || (e.Kind == KindOperator && e.Op == OpNot)
		if afterOperand && startsOperand {
			out.Elements = append(out.Elements, Element{Kind: KindOperator, Op: OpAnd, Text: "AND", Pos: -1})
		}
		out.Elements = append(out.Elements, e)
		afterOperand = e.Kind == KindPostings || e.Kind == KindClose
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.kind {
		case tokAnd:
			emit(Element{Kind: KindOperator, Op: OpAnd, Text: tok.text, Pos: tok.pos})
		case tokOr:
			emit(Element{Kind: KindOperator, Op: OpOr, Text: tok.text, Pos: tok.pos})
		case tokNot:
			emit(Element{Kind: KindOperator, Op: OpNot, Text: tok.text, Pos: tok.pos})
		case tokOpen:
			emit(Element{Kind: KindOpen, Text: tok.text, Pos: tok.pos})
		case tokClose:
			emit(Element{Kind: KindClose, Text: tok.text, Pos: tok.pos})
		case tokColon:
			return Parsed{}, syntaxError(tok.pos, "unexpected ':'")
		case tokWord, tokPhrase:
			field := p.opts.DefaultField
			value := tok
			text := tok.text
			if tok.kind == tokWord && i+1 < len(tokens) && tokens[i+1].kind == tokColon {
				if i+2 >= len(tokens) || (tokens[i+2].kind != tokWord && tokens[i+2].kind != tokPhrase) {
					return Parsed{}, syntaxError(tokens[i+1].pos, "missing term after field %q", tok.text)
				}
				field = strings.ToLower(tok.text)
				value = tokens[i+2]
				text = tok.text + ":" + value.text
				i += 2
			}
			list, words, err := p.lookup(field, value.text, value.kind == tokPhrase)
			if err != nil {
				return Parsed{}, fmt.Errorf("term %q: %w", value.text, err)
			}
			out.Terms = append(out.Terms, words...)
			emit(Element{Kind: KindPostings, Postings: list, Text: text, Pos: tok.pos})
		}
	}
	return out, nil
}

// lookup resolves one term or phrase of field. It returns the literal words
// that were searched for along with their posting list.
func (p *Parser) lookup(field, value string, quoted bool) (domain.PostingList, []string, error) {
	if strings.ContainsAny(value, "*?") {
		return nil, nil, domain.ErrWildcardUnsupported
	}

	if !p.index.IsTokenized(field) {
		term := strings.ToLower(strings.TrimSpace(value))
		if term == "" {
			return nil, nil, nil
		}
		return p.index.Terms(field, term), []string{term}, nil
	}

	words := p.tokenizer.Tokenize(value)
	switch {
	case len(words) == 0:
		return nil, nil, nil
	case len(words) == 1:
		list, err := p.single(field, words[0])
		return list, words, err
	case quoted:
		list, err := p.index.Phrase(field, words)
		return list, words, err
	}

	list, err := p.single(field, words[0])
	if err != nil {
		return nil, nil, err
	}
	for _, w := range words[1:] {
		next, err := p.single(field, w)
		if err != nil {
			return nil, nil, err
		}
		list = postings.And(list, next)
	}
	return list, words, nil
}

func (p *Parser) single(field, word string) (domain.PostingList, error) {
	if p.opts.Stemming {
		return p.index.Stems(field, word)
	}
	return p.index.Terms(field, word), nil
}
