// Package memstore holds the in-memory inverted indexes of a corpus: one term
// index and one stem index per field, plus the registry of indexed files and
// news items.
//
// A MemoryStore is filled by a single ingestion pass (AddFile for every file
// in order, then BuildStems) and is read-only afterwards. Lookups never
// mutate it and may run concurrently once ingestion has finished; ingestion
// and lookups must not overlap.
package memstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"newsir/internal/adapter/analyzer"
	"newsir/internal/domain"
	"newsir/internal/port"
	"newsir/internal/postings"
)

// Options configures which fields are indexed and how.
type Options struct {
	Fields       []domain.FieldSpec
	DefaultField string
	Multifield   bool
	Positional   bool
	Stemmer      port.Stemmer
}

type MemoryStore struct {
	fields     []domain.FieldSpec
	positional bool
	stemmer    port.Stemmer
	tokenizer  *analyzer.Tokenizer

	terms map[string]map[string]domain.PostingList
	stems map[string]map[string]domain.PostingList

	files    map[int]string
	news     map[int]domain.News
	universe *roaring.Bitmap
	lastDoc  int
	lastNews int
}

// NewMemoryStore creates an empty store. Without Multifield only the default
// field is indexed.
func NewMemoryStore(opts Options) *MemoryStore {
	fields := opts.Fields
	if !opts.Multifield {
		fields = []domain.FieldSpec{defaultSpec(opts.Fields, opts.DefaultField)}
	}

	s := &MemoryStore{
		fields:     fields,
		positional: opts.Positional,
		stemmer:    opts.Stemmer,
		tokenizer:  analyzer.NewTokenizer(),
		terms:      make(map[string]map[string]domain.PostingList),
		files:      make(map[int]string),
		news:       make(map[int]domain.News),
		universe:   roaring.New(),
	}
	for _, f := range fields {
		s.terms[f.Name] = make(map[string]domain.PostingList)
	}
	return s
}

func defaultSpec(fields []domain.FieldSpec, name string) domain.FieldSpec {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return domain.FieldSpec{Name: name, Tokenize: true}
}

// AddFile registers a corpus file and indexes its news items, assigning the
// next document id to the file and consecutive news ids to the items. If any
// item lacks an indexed field nothing from the file is indexed.
func (s *MemoryStore) AddFile(path string, items []domain.News) (int, error) {
	for _, item := range items {
		for _, f := range s.fields {
			if _, ok := item.Field(f.Name); !ok {
				return 0, fmt.Errorf("news %q in %s: field %q: %w", item.Key, path, f.Name, domain.ErrMissingField)
			}
		}
	}

	s.lastDoc++
	docID := s.lastDoc
	s.files[docID] = path

	for _, item := range items {
		s.lastNews++
		newsID := s.lastNews
		for _, f := range s.fields {
			text, _ := item.Field(f.Name)
			if err := s.addField(f, newsID, text); err != nil {
				return docID, fmt.Errorf("news %q in %s: %w", item.Key, path, err)
			}
		}
		item.ID = newsID
		item.DocID = docID
		item.Path = path
		s.news[newsID] = item
		s.universe.Add(uint32(newsID))
	}
	return docID, nil
}

// addField appends one posting per distinct term of text to the field's
// term lists.
func (s *MemoryStore) addField(f domain.FieldSpec, newsID int, text string) error {
	occurrences := make(map[string]*domain.Posting)
	var order []string

	record := func(term string, position int) {
		p, ok := occurrences[term]
		if !ok {
			p = &domain.Posting{NewsID: newsID}
			occurrences[term] = p
			order = append(order, term)
		}
		p.Frequency++
		if s.positional {
			p.Positions = append(p.Positions, position)
		}
	}

	if f.Tokenize {
		for _, tok := range s.tokenizer.Tokens(text) {
			record(tok.Term, tok.Position)
		}
	} else if term := strings.ToLower(strings.TrimSpace(text)); term != "" {
		record(term, 1)
	}

	index := s.terms[f.Name]
	for _, term := range order {
		list := index[term]
		if n := len(list); n > 0 && list[n-1].NewsID >= newsID {
			return fmt.Errorf("field %q term %q: news %d after %d: %w",
				f.Name, term, newsID, list[n-1].NewsID, domain.ErrOutOfOrder)
		}
		index[term] = append(list, *occurrences[term])
	}
	return nil
}

// BuildStems derives the stem index of every field from the term indexes.
// It must run after the last AddFile. Each stem's list is normalized, so
// it satisfies the same ordering invariant as a term list.
func (s *MemoryStore) BuildStems() error {
	if s.stemmer == nil {
		return domain.ErrStemmingDisabled
	}

	s.stems = make(map[string]map[string]domain.PostingList, len(s.fields))
	for _, f := range s.fields {
		buckets := make(map[string]domain.PostingList)
		for term, list := range s.terms[f.Name] {
			stem := s.stemmer.Stem(term)
			buckets[stem] = append(buckets[stem], list...)
		}
		for stem, bucket := range buckets {
			buckets[stem] = postings.Normalize(bucket)
		}
		s.stems[f.Name] = buckets
	}
	return nil
}

// Terms returns the posting list of term in field. Unknown fields and terms
// yield an empty list.
func (s *MemoryStore) Terms(field, term string) domain.PostingList {
	return s.terms[field][term]
}

// Stems returns the posting list of the stem of term in field.
func (s *MemoryStore) Stems(field, term string) (domain.PostingList, error) {
	if s.stems == nil {
		return nil, domain.ErrStemmingDisabled
	}
	return s.stems[field][s.stemmer.Stem(term)], nil
}

// Phrase returns the news where terms occur at consecutive positions of
// field. Each surviving posting holds the positions of the last term.
func (s *MemoryStore) Phrase(field string, terms []string) (domain.PostingList, error) {
	if !s.positional {
		return nil, domain.ErrPositionalDisabled
	}
	lists := make([]domain.PostingList, len(terms))
	for i, term := range terms {
		lists[i] = s.terms[field][term]
		if len(lists[i]) == 0 {
			return nil, nil
		}
	}
	return postings.Phrase(lists...), nil
}

// IsTokenized reports whether field is indexed and split into words.
func (s *MemoryStore) IsTokenized(field string) bool {
	for _, f := range s.fields {
		if f.Name == field {
			return f.Tokenize
		}
	}
	return true
}

// Fields returns the indexed fields.
func (s *MemoryStore) Fields() []domain.FieldSpec {
	return s.fields
}

// Universe returns the ids of every indexed news item.
func (s *MemoryStore) Universe() *roaring.Bitmap {
	return s.universe
}

// News returns the registered news item with the given id.
func (s *MemoryStore) News(id int) (domain.News, bool) {
	n, ok := s.news[id]
	return n, ok
}

// FilePath returns the path of the file registered under docID.
func (s *MemoryStore) FilePath(docID int) (string, bool) {
	p, ok := s.files[docID]
	return p, ok
}

// Vocabulary returns the sorted terms of field.
func (s *MemoryStore) Vocabulary(field string) []string {
	terms := make([]string, 0, len(s.terms[field]))
	for term := range s.terms[field] {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

func (s *MemoryStore) Stats() domain.Stats {
	stats := domain.Stats{
		Files:      len(s.files),
		News:       len(s.news),
		Stemming:   s.stems != nil,
		Positional: s.positional,
	}
	for _, f := range s.fields {
		fs := domain.FieldStats{Field: f.Name, Terms: len(s.terms[f.Name])}
		if s.stems != nil {
			fs.Stems = len(s.stems[f.Name])
		}
		stats.Fields = append(stats.Fields, fs)
	}
	return stats
}
