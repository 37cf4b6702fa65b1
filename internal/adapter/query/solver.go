package query

import (
	"log/slog"
	"strings"

	"newsir/internal/domain"
	"newsir/internal/logger"
)

// Solver answers boolean queries against an index. It holds no mutable
// state and may be shared by concurrent callers.
type Solver struct {
	index  Index
	parser *Parser
	logger *slog.Logger
}

func NewSolver(index Index, opts Options) *Solver {
	return &Solver{
		index:  index,
		parser: NewParser(index, opts),
		logger: logger.WithComponent("query"),
	}
}

// Solve parses and evaluates query. An empty query yields an empty result
// without being parsed.
func (s *Solver) Solve(query string) (domain.Result, error) {
	result := domain.Result{Query: query, Postings: domain.PostingList{}}
	if strings.TrimSpace(query) == "" {
		return result, nil
	}

	parsed, err := s.parser.Parse(query)
	if err != nil {
		return result, err
	}
	list, err := Evaluate(parsed.Elements, s.index.Universe())
	if err != nil {
		return result, err
	}

	result.Postings = list
	result.Terms = parsed.Terms
	s.logger.Debug("query solved", "query", query, "hits", len(list), "terms", parsed.Terms)
	return result, nil
}
