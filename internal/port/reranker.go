package port

import "newsir/internal/domain"

// Ranker reorders a solved posting list. terms are the literal query terms.
type Ranker interface {
	Rank(list domain.PostingList, terms []string) domain.PostingList
}
