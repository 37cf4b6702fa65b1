package postings

import (
	"reflect"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"

	"newsir/internal/domain"
)

func list(ids ...int) domain.PostingList {
	p := make(domain.PostingList, len(ids))
	for i, id := range ids {
		p[i] = domain.NewPosting(id)
	}
	return p
}

func withPositions(id int, positions ...int) domain.Posting {
	return domain.Posting{NewsID: id, Frequency: len(positions), Positions: positions}
}

func sameIDs(t *testing.T, name string, got domain.PostingList, want []int) {
	t.Helper()
	ids := got.IDs()
	if len(ids) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("%s: got ids %v, want %v", name, ids, want)
	}
}

func TestSetOperators(t *testing.T) {
	tests := []struct {
		name  string
		p1    domain.PostingList
		p2    domain.PostingList
		and   []int
		or    []int
		minus []int
	}{
		{"disjoint", list(1, 3, 5), list(2, 4), nil, []int{1, 2, 3, 4, 5}, []int{1, 3, 5}},
		{"overlap", list(1, 2, 3, 7), list(2, 3, 8), []int{2, 3}, []int{1, 2, 3, 7, 8}, []int{1, 7}},
		{"left empty", list(), list(1, 2), nil, []int{1, 2}, nil},
		{"right empty", list(4, 9), list(), nil, []int{4, 9}, []int{4, 9}},
		{"identical", list(1, 2), list(1, 2), []int{1, 2}, []int{1, 2}, nil},
		{"tail beyond", list(1, 10, 11, 12), list(10), []int{10}, []int{1, 10, 11, 12}, []int{1, 11, 12}},
	}

	for _, tt := range tests {
		and := And(tt.p1, tt.p2)
		or := Or(tt.p1, tt.p2)
		minus := Minus(tt.p1, tt.p2)
		sameIDs(t, tt.name+" and", and, tt.and)
		sameIDs(t, tt.name+" or", or, tt.or)
		sameIDs(t, tt.name+" minus", minus, tt.minus)
		for _, out := range []domain.PostingList{and, or, minus} {
			if err := Validate(out); err != nil {
				t.Errorf("%s: result not sorted: %v", tt.name, err)
			}
		}
	}
}

func TestAndOr_LeftPayloadWins(t *testing.T) {
	p1 := domain.PostingList{{NewsID: 2, Frequency: 5}}
	p2 := domain.PostingList{{NewsID: 1, Frequency: 1}, {NewsID: 2, Frequency: 9}}

	and := And(p1, p2)
	if len(and) != 1 || and[0].Frequency != 5 {
		t.Errorf("expected p1 payload in AND, got %+v", and)
	}

	or := Or(p1, p2)
	if len(or) != 2 || or[1].Frequency != 5 {
		t.Errorf("expected p1 payload in OR overlap, got %+v", or)
	}
}

func TestComplement(t *testing.T) {
	universe := roaring.BitmapOf(1, 2, 3, 4, 5)
	p := domain.PostingList{withPositions(2, 3, 9), withPositions(4, 1)}

	comp := Complement(universe, p)
	sameIDs(t, "complement", comp, []int{1, 3, 5})
	for _, posting := range comp {
		if posting.Frequency != 1 || len(posting.Positions) != 0 {
			t.Errorf("expected default payload, got %+v", posting)
		}
	}

	twice := Complement(universe, comp)
	sameIDs(t, "double complement", twice, []int{2, 4})

	sameIDs(t, "complement of empty", Complement(universe, nil), []int{1, 2, 3, 4, 5})
	sameIDs(t, "complement of all", Complement(universe, list(1, 2, 3, 4, 5)), nil)
	sameIDs(t, "nil universe", Complement(nil, p), nil)
}

func TestAdjacent(t *testing.T) {
	a := domain.PostingList{
		withPositions(1, 1, 7),
		withPositions(2, 4),
		withPositions(3, 2),
	}
	b := domain.PostingList{
		withPositions(1, 2, 5, 8),
		withPositions(2, 1, 6),
		withPositions(4, 3),
	}

	got := Adjacent(a, b)
	if len(got) != 1 {
		t.Fatalf("expected 1 surviving news, got %+v", got)
	}
	if got[0].NewsID != 1 {
		t.Errorf("expected news 1, got %d", got[0].NewsID)
	}
	if !reflect.DeepEqual(got[0].Positions, []int{2, 8}) {
		t.Errorf("expected end positions [2 8], got %v", got[0].Positions)
	}
	if got[0].Frequency != 2 {
		t.Errorf("expected frequency 2, got %d", got[0].Frequency)
	}
}

func TestPhrase_ChainsToLastWord(t *testing.T) {
	// "el gran partido" occurs at 4..6 in news 1; news 2 has the words apart.
	el := domain.PostingList{withPositions(1, 1, 4), withPositions(2, 1)}
	gran := domain.PostingList{withPositions(1, 5), withPositions(2, 2)}
	partido := domain.PostingList{withPositions(1, 6), withPositions(2, 9)}

	got := Phrase(el, gran, partido)
	if len(got) != 1 || got[0].NewsID != 1 {
		t.Fatalf("expected only news 1, got %+v", got)
	}
	if !reflect.DeepEqual(got[0].Positions, []int{6}) {
		t.Errorf("expected last word offset [6], got %v", got[0].Positions)
	}

	if len(Phrase()) != 0 {
		t.Error("expected empty result for empty phrase")
	}
	single := Phrase(el)
	sameIDs(t, "single word phrase", single, []int{1, 2})
}

func TestNormalize(t *testing.T) {
	bucket := domain.PostingList{
		withPositions(1, 4),
		withPositions(3, 2),
		withPositions(1, 1, 9),
		withPositions(2, 5),
	}

	got := Normalize(bucket)
	sameIDs(t, "normalize", got, []int{1, 2, 3})
	if got[0].Frequency != 3 {
		t.Errorf("expected merged frequency 3, got %d", got[0].Frequency)
	}
	if !reflect.DeepEqual(got[0].Positions, []int{1, 4, 9}) {
		t.Errorf("expected merged positions [1 4 9], got %v", got[0].Positions)
	}
	if err := Validate(got); err != nil {
		t.Errorf("normalized list invalid: %v", err)
	}
	if bucket[0].NewsID != 1 || bucket[1].NewsID != 3 {
		t.Error("input list was modified")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(list(1, 2, 5)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Validate(list(1, 3, 3)); err == nil {
		t.Error("expected error for duplicate id")
	}
	if err := Validate(list(4, 2)); err == nil {
		t.Error("expected error for descending ids")
	}
}
