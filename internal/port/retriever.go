package port

import "newsir/internal/domain"

// Searcher solves boolean queries.
type Searcher interface {
	// Solve parses and evaluates query. An empty query yields an empty result.
	Solve(query string) (domain.Result, error)
}

// Snippeter extracts a short window of text around the first occurrence of
// any of terms.
type Snippeter interface {
	Snippet(text string, terms []string) string
}
