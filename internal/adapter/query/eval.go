package query

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"newsir/internal/domain"
	"newsir/internal/postings"
)

// Expr is a boolean expression over resolved posting lists.
type Expr interface {
	Eval(universe *roaring.Bitmap) domain.PostingList
	String() string
}

type leaf struct {
	list domain.PostingList
	text string
}

type andExpr struct{ left, right Expr }

type orExpr struct{ left, right Expr }

type andNotExpr struct{ left, right Expr }

type notExpr struct{ operand Expr }

func (e leaf) Eval(*roaring.Bitmap) domain.PostingList { return e.list }

func (e leaf) String() string { return e.text }

func (e andExpr) Eval(u *roaring.Bitmap) domain.PostingList {
	return postings.And(e.left.Eval(u), e.right.Eval(u))
}

func (e andExpr) String() string { return fmt.Sprintf("(%s AND %s)", e.left, e.right) }

func (e orExpr) Eval(u *roaring.Bitmap) domain.PostingList {
	return postings.Or(e.left.Eval(u), e.right.Eval(u))
}

func (e orExpr) String() string { return fmt.Sprintf("(%s OR %s)", e.left, e.right) }

func (e andNotExpr) Eval(u *roaring.Bitmap) domain.PostingList {
	return postings.Minus(e.left.Eval(u), e.right.Eval(u))
}

func (e andNotExpr) String() string { return fmt.Sprintf("(%s AND NOT %s)", e.left, e.right) }

func (e notExpr) Eval(u *roaring.Bitmap) domain.PostingList {
	return postings.Complement(u, e.operand.Eval(u))
}

func (e notExpr) String() string { return fmt.Sprintf("(NOT %s)", e.operand) }

// Build turns an element sequence into an expression tree.
//
// AND and OR have no relative precedence: a chain is grouped strictly from
// left to right and only parentheses change the grouping. NOT applies to the
// single operand that follows it. AND NOT is reduced to a set difference and
// OR NOT to the union with a complement.
func Build(elements []Element) (Expr, error) {
	b := &builder{elements: elements}
	if len(elements) == 0 {
		return nil, syntaxError(0, "empty expression")
	}
	e, err := b.expr()
	if err != nil {
		return nil, err
	}
	if b.pos < len(elements) {
		el := elements[b.pos]
		if el.Kind == KindClose {
			return nil, syntaxError(el.Pos, "unbalanced ')'")
		}
		return nil, syntaxError(el.Pos, "unexpected %q", el.Text)
	}
	return e, nil
}

// Evaluate builds elements into an expression and evaluates it against
// universe, the ids of every indexed news item.
func Evaluate(elements []Element, universe *roaring.Bitmap) (domain.PostingList, error) {
	e, err := Build(elements)
	if err != nil {
		return nil, err
	}
	return e.Eval(universe), nil
}

type builder struct {
	elements []Element
	pos      int
}

func (b *builder) peek() (Element, bool) {
	if b.pos >= len(b.elements) {
		return Element{}, false
	}
	return b.elements[b.pos], true
}

func (b *builder) isOperator(op Operator) bool {
	el, ok := b.peek()
	return ok && el.Kind == KindOperator && el.Op == op
}

// endPos is the offset reported for errors at the end of the query.
func (b *builder) endPos() int {
	if len(b.elements) == 0 {
		return 0
	}
	return b.elements[len(b.elements)-1].Pos
}

func (b *builder) expr() (Expr, error) {
	left, err := b.operand()
	if err != nil {
		return nil, err
	}
	for b.isOperator(OpAnd) || b.isOperator(OpOr) {
		op := b.elements[b.pos].Op
		b.pos++
		if op == OpAnd && b.isOperator(OpNot) {
			b.pos++
			right, err := b.negated()
			if err != nil {
				return nil, err
			}
			left = andNotExpr{left: left, right: right}
			continue
		}
		right, err := b.operand()
		if err != nil {
			return nil, err
		}
		if op == OpAnd {
			left = andExpr{left: left, right: right}
		} else {
			left = orExpr{left: left, right: right}
		}
	}
	return left, nil
}

func (b *builder) operand() (Expr, error) {
	if b.isOperator(OpNot) {
		b.pos++
		inner, err := b.negated()
		if err != nil {
			return nil, err
		}
		return notExpr{operand: inner}, nil
	}
	return b.primary()
}

// negated parses the operand of a NOT that has just been consumed.
func (b *builder) negated() (Expr, error) {
	if b.isOperator(OpNot) {
		return nil, syntaxError(b.elements[b.pos].Pos, "NOT may not be followed by another NOT")
	}
	return b.primary()
}

func (b *builder) primary() (Expr, error) {
	el, ok := b.peek()
	if !ok {
		return nil, syntaxError(b.endPos(), "missing operand at end of query")
	}
	switch el.Kind {
	case KindPostings:
		b.pos++
		return leaf{list: el.Postings, text: el.Text}, nil
	case KindOpen:
		b.pos++
		inner, err := b.expr()
		if err != nil {
			return nil, err
		}
		closing, ok := b.peek()
		if !ok || closing.Kind != KindClose {
			return nil, syntaxError(el.Pos, "unbalanced '('")
		}
		b.pos++
		return inner, nil
	case KindClose:
		return nil, syntaxError(el.Pos, "missing operand before ')'")
	case KindOperator:
		return nil, syntaxError(el.Pos, "missing operand before %s", el.Op)
	}
	panic(fmt.Sprintf("query: unknown element kind %d", el.Kind))
}
