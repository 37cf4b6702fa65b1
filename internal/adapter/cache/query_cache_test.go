package cache

import (
	"errors"
	"testing"
	"time"

	"newsir/internal/domain"
)

type countingSearcher struct {
	calls int
	err   error
}

func (s *countingSearcher) Solve(query string) (domain.Result, error) {
	s.calls++
	if s.err != nil {
		return domain.Result{}, s.err
	}
	return domain.Result{Query: query, Postings: domain.PostingList{domain.NewPosting(s.calls)}}, nil
}

func TestQueryCache_GetPut(t *testing.T) {
	c := NewQueryCache(10, time.Minute)

	if _, ok := c.Get("madrid", "exact"); ok {
		t.Error("expected miss on empty cache")
	}
	c.Put("madrid", "exact", domain.Result{Query: "madrid"})
	if res, ok := c.Get("madrid", "exact"); !ok || res.Query != "madrid" {
		t.Errorf("expected hit, got %+v %v", res, ok)
	}
	if _, ok := c.Get("madrid", "stem"); ok {
		t.Error("variants must not share entries")
	}
}

func TestQueryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewQueryCache(2, time.Minute)

	c.Put("a", "", domain.Result{Query: "a"})
	c.Put("b", "", domain.Result{Query: "b"})
	c.Get("a", "")
	c.Put("c", "", domain.Result{Query: "c"})

	if _, ok := c.Get("b", ""); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a", ""); !ok {
		t.Error("expected a to survive")
	}
	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}
}

func TestQueryCache_TTLAndInvalidate(t *testing.T) {
	c := NewQueryCache(10, time.Millisecond)
	c.Put("a", "", domain.Result{})
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("a", ""); ok {
		t.Error("expected expired entry to miss")
	}

	c = NewQueryCache(10, time.Minute)
	c.Put("a", "", domain.Result{})
	c.Invalidate()
	if _, ok := c.Get("a", ""); ok {
		t.Error("expected miss after invalidate")
	}
}

func TestCachedSearcher(t *testing.T) {
	inner := &countingSearcher{}
	s := NewCachedSearcher(inner, NewQueryCache(10, time.Minute), "exact")

	first, _ := s.Solve("madrid")
	second, _ := s.Solve("madrid")
	if inner.calls != 1 {
		t.Errorf("expected 1 underlying call, got %d", inner.calls)
	}
	if first.Postings[0].NewsID != second.Postings[0].NewsID {
		t.Error("expected cached result to be returned")
	}

	failing := &countingSearcher{err: errors.New("boom")}
	s = NewCachedSearcher(failing, NewQueryCache(10, time.Minute), "exact")
	s.Solve("x")
	s.Solve("x")
	if failing.calls != 2 {
		t.Errorf("errors must not be cached, got %d calls", failing.calls)
	}
}
