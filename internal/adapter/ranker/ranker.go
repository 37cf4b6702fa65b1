// Package ranker provides implementations of the result ranking hook.
package ranker

import (
	"sort"

	"newsir/internal/domain"
)

// Identity keeps results in news id order.
type Identity struct{}

func (Identity) Rank(list domain.PostingList, _ []string) domain.PostingList {
	return list
}

// Frequency orders results by the frequency carried by each posting,
// highest first, breaking ties by news id. Postings produced by negation
// carry frequency 1, so negated results rank lowest.
type Frequency struct{}

func (Frequency) Rank(list domain.PostingList, _ []string) domain.PostingList {
	ranked := make(domain.PostingList, len(list))
	copy(ranked, list)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Frequency != ranked[j].Frequency {
			return ranked[i].Frequency > ranked[j].Frequency
		}
		return ranked[i].NewsID < ranked[j].NewsID
	})
	return ranked
}
