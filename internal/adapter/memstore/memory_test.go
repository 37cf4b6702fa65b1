package memstore

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"newsir/internal/domain"
	"newsir/internal/postings"
)

var allFields = []domain.FieldSpec{
	{Name: "title", Tokenize: true},
	{Name: "date", Tokenize: false},
	{Name: "keywords", Tokenize: true},
	{Name: "article", Tokenize: true},
	{Name: "summary", Tokenize: true},
}

func articles(texts ...string) []domain.News {
	items := make([]domain.News, len(texts))
	for i, text := range texts {
		items[i] = domain.News{
			Key: "k" + string(rune('a'+i)),
			Fields: map[string]string{
				"title":    "titulo",
				"date":     "2015-03-0" + string(rune('1'+i)),
				"keywords": "",
				"article":  text,
				"summary":  "",
			},
		}
	}
	return items
}

// prefixStemmer maps every word to its first three letters.
type prefixStemmer struct{}

func (prefixStemmer) Stem(word string) string {
	if len(word) > 3 {
		return word[:3]
	}
	return word
}

func TestAddFile_SortedPostings(t *testing.T) {
	s := NewMemoryStore(Options{Fields: allFields, DefaultField: "article", Positional: true})

	if _, err := s.AddFile("a.json", articles("madrid y barcelona", "barcelona es grande")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.AddFile("b.json", articles("valencia es pequeña", "barcelona barcelona")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, term := range s.Vocabulary("article") {
		if err := postings.Validate(s.Terms("article", term)); err != nil {
			t.Errorf("term %q: %v", term, err)
		}
	}

	barcelona := s.Terms("article", "barcelona")
	if !reflect.DeepEqual(barcelona.IDs(), []int{1, 2, 4}) {
		t.Errorf("expected barcelona in [1 2 4], got %v", barcelona.IDs())
	}
	last := barcelona[2]
	if last.Frequency != 2 || !reflect.DeepEqual(last.Positions, []int{1, 2}) {
		t.Errorf("expected frequency 2 at [1 2], got %+v", last)
	}

	if len(s.Terms("article", "sevilla")) != 0 {
		t.Error("expected empty list for unknown term")
	}
	if len(s.Terms("nofield", "barcelona")) != 0 {
		t.Error("expected empty list for unknown field")
	}
}

func TestAddFile_Registry(t *testing.T) {
	s := NewMemoryStore(Options{Fields: allFields, DefaultField: "article"})

	if _, err := s.AddFile("a.json", articles("uno", "dos")); err != nil {
		t.Fatal(err)
	}
	docID, err := s.AddFile("b.json", articles("tres"))
	if err != nil {
		t.Fatal(err)
	}
	if docID != 2 {
		t.Errorf("expected doc id 2, got %d", docID)
	}

	n, ok := s.News(3)
	if !ok {
		t.Fatal("expected news 3 to be registered")
	}
	if n.DocID != 2 || n.Path != "b.json" || n.Key != "ka" {
		t.Errorf("unexpected registry entry %+v", n)
	}
	if path, _ := s.FilePath(1); path != "a.json" {
		t.Errorf("expected a.json, got %s", path)
	}
	if s.Universe().GetCardinality() != 3 {
		t.Errorf("expected 3 news in universe, got %d", s.Universe().GetCardinality())
	}
}

func TestAddFile_MissingField(t *testing.T) {
	s := NewMemoryStore(Options{Fields: allFields, DefaultField: "article", Multifield: true})

	items := articles("uno", "dos")
	delete(items[1].Fields, "summary")

	_, err := s.AddFile("a.json", items)
	if !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if !strings.Contains(err.Error(), "summary") {
		t.Errorf("expected field name in error, got %v", err)
	}
	if stats := s.Stats(); stats.Files != 0 || stats.News != 0 {
		t.Errorf("expected nothing indexed, got %+v", stats)
	}

	if _, err := s.AddFile("b.json", articles("tres")); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.News(1); n.Path != "b.json" {
		t.Errorf("expected ids to start at the next good file, got %+v", n)
	}
}

func TestAddFile_OnlyDefaultFieldWithoutMultifield(t *testing.T) {
	s := NewMemoryStore(Options{Fields: allFields, DefaultField: "article"})

	items := articles("uno")
	delete(items[0].Fields, "summary")
	if _, err := s.AddFile("a.json", items); err != nil {
		t.Fatalf("expected non-indexed fields to be optional, got %v", err)
	}
	if len(s.Terms("title", "titulo")) != 0 {
		t.Error("title should not be indexed without multifield")
	}
	if len(s.Fields()) != 1 || s.Fields()[0].Name != "article" {
		t.Errorf("unexpected fields %+v", s.Fields())
	}
}

func TestAddFile_UntokenizedField(t *testing.T) {
	s := NewMemoryStore(Options{Fields: allFields, DefaultField: "article", Multifield: true})

	if _, err := s.AddFile("a.json", articles("uno", "dos")); err != nil {
		t.Fatal(err)
	}
	if got := s.Terms("date", "2015-03-02").IDs(); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("expected whole date as one term, got %v", got)
	}
	if len(s.Terms("date", "2015")) != 0 {
		t.Error("date field should not be split into words")
	}
	if s.IsTokenized("date") || !s.IsTokenized("title") {
		t.Error("unexpected tokenize flags")
	}
}

func TestBuildStems(t *testing.T) {
	s := NewMemoryStore(Options{Fields: allFields, DefaultField: "article", Positional: true, Stemmer: prefixStemmer{}})

	if _, err := s.AddFile("a.json", articles("jugador de futbol", "vamos a jugar", "jugar y jugador", "nada")); err != nil {
		t.Fatal(err)
	}
	if err := s.BuildStems(); err != nil {
		t.Fatal(err)
	}

	got, err := s.Stems("article", "jugar")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.IDs(), []int{1, 2, 3}) {
		t.Errorf("expected stem list [1 2 3], got %v", got.IDs())
	}
	if err := postings.Validate(got); err != nil {
		t.Errorf("stem list not normalized: %v", err)
	}
	if got[2].Frequency != 2 || !reflect.DeepEqual(got[2].Positions, []int{1, 3}) {
		t.Errorf("expected merged payload for news 3, got %+v", got[2])
	}

	stats := s.Stats()
	if !stats.Stemming || stats.Fields[0].Stems == 0 {
		t.Errorf("expected stem stats, got %+v", stats)
	}
}

func TestStems_Disabled(t *testing.T) {
	s := NewMemoryStore(Options{Fields: allFields, DefaultField: "article"})
	if err := s.BuildStems(); !errors.Is(err, domain.ErrStemmingDisabled) {
		t.Errorf("expected ErrStemmingDisabled from BuildStems, got %v", err)
	}
	if _, err := s.Stems("article", "x"); !errors.Is(err, domain.ErrStemmingDisabled) {
		t.Errorf("expected ErrStemmingDisabled, got %v", err)
	}
}

func TestPhrase(t *testing.T) {
	s := NewMemoryStore(Options{Fields: allFields, DefaultField: "article", Positional: true})
	if _, err := s.AddFile("a.json", articles("real madrid gana", "madrid real", "el real club de madrid")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Phrase("article", []string{"real", "madrid"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.IDs(), []int{1}) {
		t.Errorf("expected only news 1, got %v", got.IDs())
	}
	if !reflect.DeepEqual(got[0].Positions, []int{2}) {
		t.Errorf("expected end position 2, got %v", got[0].Positions)
	}

	if got, _ := s.Phrase("article", []string{"real", "sevilla"}); len(got) != 0 {
		t.Errorf("expected empty result for unknown word, got %v", got.IDs())
	}

	plain := NewMemoryStore(Options{Fields: allFields, DefaultField: "article"})
	if _, err := plain.Phrase("article", []string{"a", "b"}); !errors.Is(err, domain.ErrPositionalDisabled) {
		t.Errorf("expected ErrPositionalDisabled, got %v", err)
	}
}
