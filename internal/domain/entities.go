package domain

// News is one article of a corpus file. Fields holds the raw text of every
// field present in the source object, keyed by field name.
type News struct {
	ID     int
	DocID  int
	Path   string
	Key    string
	Fields map[string]string
}

// Field returns the raw text of the named field.
func (n News) Field(name string) (string, bool) {
	v, ok := n.Fields[name]
	return v, ok
}

// FieldSpec describes an indexed field. Fields that are not tokenized are
// indexed as a single term.
type FieldSpec struct {
	Name     string `yaml:"name"`
	Tokenize bool   `yaml:"tokenize"`
}

// Posting is the occurrence of a term in one news item of one field.
// Two postings refer to the same document when their NewsID matches,
// regardless of Frequency and Positions.
type Posting struct {
	NewsID    int
	Frequency int
	Positions []int
}

// NewPosting returns a posting with the default frequency and no positions.
func NewPosting(newsID int) Posting {
	return Posting{NewsID: newsID, Frequency: 1}
}

// PostingList is ordered by strictly increasing NewsID.
type PostingList []Posting

// IDs returns the news ids of the list in order.
func (p PostingList) IDs() []int {
	ids := make([]int, len(p))
	for i, posting := range p {
		ids[i] = posting.NewsID
	}
	return ids
}

// Result is the outcome of solving a query: the final posting list and the
// literal terms that appeared in the query.
type Result struct {
	Query    string
	Postings PostingList
	Terms    []string
}

// Count returns the number of news items in the result.
func (r Result) Count() int {
	return len(r.Postings)
}

// FieldStats counts the distinct terms (and stems) of one field.
type FieldStats struct {
	Field string
	Terms int
	Stems int
}

// Stats summarizes an index.
type Stats struct {
	Files      int
	News       int
	Fields     []FieldStats
	Stemming   bool
	Positional bool
}
