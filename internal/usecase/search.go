package usecase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"newsir/internal/domain"
	"newsir/internal/port"
)

// SearchUseCase handles query solving and batch evaluation.
type SearchUseCase struct {
	searcher    port.Searcher
	ranker      port.Ranker
	parallelism int
}

// NewSearchUseCase creates a new search use case. ranker may be nil.
func NewSearchUseCase(searcher port.Searcher, ranker port.Ranker, parallelism int) *SearchUseCase {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &SearchUseCase{
		searcher:    searcher,
		ranker:      ranker,
		parallelism: parallelism,
	}
}

// Solve evaluates query and passes the result through the ranker.
func (u *SearchUseCase) Solve(query string) (domain.Result, error) {
	result, err := u.searcher.Solve(query)
	if err != nil {
		return result, err
	}
	if u.ranker != nil {
		result.Postings = u.ranker.Rank(result.Postings, result.Terms)
	}
	return result, nil
}

// Count solves query, writes "query<TAB>count" to w and returns the count.
func (u *SearchUseCase) Count(w io.Writer, query string) (int, error) {
	result, err := u.Solve(query)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(w, "%s\t%d\n", query, result.Count())
	return result.Count(), nil
}

// Outcome is the answer to one query of a batch.
type Outcome struct {
	Query  string
	Result domain.Result
	Err    error
}

// SolveAll evaluates queries concurrently and returns their outcomes in
// input order. A failing query does not stop the others.
func (u *SearchUseCase) SolveAll(ctx context.Context, queries []string) ([]Outcome, error) {
	out := make([]Outcome, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.parallelism)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := u.Solve(q)
			out[i] = Outcome{Query: q, Result: result, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TestCase pairs a query with the number of news it should match.
type TestCase struct {
	Query    string
	Expected int
}

// TestReport summarizes a test file run.
type TestReport struct {
	Passed int
	Failed int
}

// RunTests solves every case, writes one line per case to w and returns how
// many matched their expected count. A query that fails to solve counts as
// a mismatch.
func (u *SearchUseCase) RunTests(ctx context.Context, w io.Writer, cases []TestCase) (TestReport, error) {
	queries := make([]string, len(cases))
	for i, c := range cases {
		queries[i] = c.Query
	}
	outcomes, err := u.SolveAll(ctx, queries)
	if err != nil {
		return TestReport{}, err
	}

	var report TestReport
	for i, o := range outcomes {
		want := cases[i].Expected
		switch {
		case o.Err != nil:
			report.Failed++
			fmt.Fprintf(w, "%s\t%d\tERROR: %v\n", o.Query, want, o.Err)
		case o.Result.Count() != want:
			report.Failed++
			fmt.Fprintf(w, "%s\t%d\t!=%d\n", o.Query, want, o.Result.Count())
		default:
			report.Passed++
			fmt.Fprintf(w, "%s\t%d\n", o.Query, want)
		}
	}
	return report, nil
}

// ReadQueries reads one query per line, skipping blank lines.
func ReadQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return queries, nil
}

// ReadTestCases reads "query<TAB>expected" lines, skipping blank lines.
func ReadTestCases(path string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cases []TestCase
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		i := strings.LastIndex(line, "\t")
		if i < 0 {
			return nil, fmt.Errorf("%s:%d: expected query and count separated by a tab", path, lineNo)
		}
		expected, err := strconv.Atoi(strings.TrimSpace(line[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid count: %w", path, lineNo, err)
		}
		cases = append(cases, TestCase{Query: strings.TrimSpace(line[:i]), Expected: expected})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cases, nil
}
