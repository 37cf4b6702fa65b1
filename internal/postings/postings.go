// Package postings implements set algebra over sorted posting lists.
//
// Every operator expects its operands ordered by strictly increasing news id
// and returns a list with the same property. All merges are a single
// two-pointer scan, linear in the combined length of the operands.
package postings

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"newsir/internal/domain"
)

// And returns the news present in both lists, carrying p1's payload.
func And(p1, p2 domain.PostingList) domain.PostingList {
	result := make(domain.PostingList, 0, min(len(p1), len(p2)))
	i, j := 0, 0
	for i < len(p1) && j < len(p2) {
		switch {
		case p1[i].NewsID == p2[j].NewsID:
			result = append(result, p1[i])
			i++
			j++
		case p1[i].NewsID < p2[j].NewsID:
			i++
		default:
			j++
		}
	}
	return result
}

// Or returns the union of both lists. When a news item is in both, p1's
// payload wins.
func Or(p1, p2 domain.PostingList) domain.PostingList {
	if len(p1) == 0 {
		return p2
	}
	if len(p2) == 0 {
		return p1
	}
	result := make(domain.PostingList, 0, len(p1)+len(p2))
	i, j := 0, 0
	for i < len(p1) && j < len(p2) {
		switch {
		case p1[i].NewsID == p2[j].NewsID:
			result = append(result, p1[i])
			i++
			j++
		case p1[i].NewsID < p2[j].NewsID:
			result = append(result, p1[i])
			i++
		default:
			result = append(result, p2[j])
			j++
		}
	}
	result = append(result, p1[i:]...)
	result = append(result, p2[j:]...)
	return result
}

// Minus returns the news of p1 that are not in p2.
func Minus(p1, p2 domain.PostingList) domain.PostingList {
	result := make(domain.PostingList, 0, len(p1))
	i, j := 0, 0
	for i < len(p1) && j < len(p2) {
		switch {
		case p1[i].NewsID == p2[j].NewsID:
			i++
			j++
		case p1[i].NewsID < p2[j].NewsID:
			result = append(result, p1[i])
			i++
		default:
			j++
		}
	}
	return append(result, p1[i:]...)
}

// Complement returns a posting for every news id of universe that is not in
// p. The returned postings have frequency 1 and no positions.
func Complement(universe *roaring.Bitmap, p domain.PostingList) domain.PostingList {
	if universe == nil {
		return domain.PostingList{}
	}
	size := int(universe.GetCardinality()) - len(p)
	if size < 0 {
		size = 0
	}
	result := make(domain.PostingList, 0, size)
	it := universe.Iterator()
	j := 0
	for it.HasNext() {
		id := int(it.Next())
		for j < len(p) && p[j].NewsID < id {
			j++
		}
		if j < len(p) && p[j].NewsID == id {
			continue
		}
		result = append(result, domain.NewPosting(id))
	}
	return result
}

// Adjacent keeps the news where some position of p2 immediately follows a
// position of p1. The surviving postings hold the matching p2 positions, so
// chaining Adjacent over a phrase leaves the offsets of its last word.
func Adjacent(p1, p2 domain.PostingList) domain.PostingList {
	result := make(domain.PostingList, 0)
	i, j := 0, 0
	for i < len(p1) && j < len(p2) {
		switch {
		case p1[i].NewsID == p2[j].NewsID:
			if positions := followers(p1[i].Positions, p2[j].Positions); len(positions) > 0 {
				result = append(result, domain.Posting{
					NewsID:    p1[i].NewsID,
					Frequency: len(positions),
					Positions: positions,
				})
			}
			i++
			j++
		case p1[i].NewsID < p2[j].NewsID:
			i++
		default:
			j++
		}
	}
	return result
}

// followers returns every b in second such that b-1 is in first.
func followers(first, second []int) []int {
	var out []int
	a, b := 0, 0
	for a < len(first) && b < len(second) {
		switch {
		case second[b] == first[a]+1:
			out = append(out, second[b])
			a++
			b++
		case second[b] <= first[a]:
			b++
		default:
			a++
		}
	}
	return out
}

// Phrase resolves a sequence of consecutive-term posting lists by chaining
// Adjacent from left to right.
func Phrase(lists ...domain.PostingList) domain.PostingList {
	if len(lists) == 0 {
		return domain.PostingList{}
	}
	result := lists[0]
	for _, next := range lists[1:] {
		if len(result) == 0 {
			break
		}
		result = Adjacent(result, next)
	}
	return result
}

// Normalize restores the posting list invariant on a list built by
// concatenating independently sorted lists: postings are ordered by news id,
// duplicates are merged by adding their frequencies and joining their
// positions. The input is not modified.
func Normalize(p domain.PostingList) domain.PostingList {
	if len(p) == 0 {
		return domain.PostingList{}
	}
	sorted := make(domain.PostingList, len(p))
	copy(sorted, p)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NewsID < sorted[j].NewsID
	})

	result := make(domain.PostingList, 0, len(sorted))
	for _, posting := range sorted {
		last := len(result) - 1
		if last >= 0 && result[last].NewsID == posting.NewsID {
			merged := result[last]
			merged.Frequency += posting.Frequency
			positions := make([]int, 0, len(merged.Positions)+len(posting.Positions))
			positions = append(positions, merged.Positions...)
			positions = append(positions, posting.Positions...)
			sort.Ints(positions)
			merged.Positions = positions
			result[last] = merged
			continue
		}
		result = append(result, posting)
	}
	return result
}

// Validate reports whether p is ordered by strictly increasing news id.
func Validate(p domain.PostingList) error {
	for i := 1; i < len(p); i++ {
		if p[i].NewsID <= p[i-1].NewsID {
			return fmt.Errorf("posting %d has news id %d after %d: %w",
				i, p[i].NewsID, p[i-1].NewsID, domain.ErrOutOfOrder)
		}
	}
	return nil
}
