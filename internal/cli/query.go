package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"newsir/config"
	"newsir/internal/adapter/analyzer"
	"newsir/internal/adapter/cache"
	"newsir/internal/adapter/memstore"
	"newsir/internal/adapter/query"
	"newsir/internal/adapter/ranker"
	"newsir/internal/adapter/snippet"
	"newsir/internal/domain"
	"newsir/internal/port"
	"newsir/internal/usecase"
)

var (
	queryText    string
	queryFile    string
	queryTest    string
	queryCount   bool
	querySnippet bool
	queryAll     bool
	queryMax     int
	queryRank    bool
	queryJSON    bool
)

var queryCmd = &cobra.Command{
	Use:   "query [path]",
	Short: "Search a news collection",
	Long: `Index the news collection and solve boolean queries against it.

Queries combine terms with AND, OR and NOT (upper case), group with
parentheses, restrict a term to a field with field:term and match
consecutive words with "quoted phrases". Operators are applied from left
to right; adjacent terms are joined with AND.

Examples:
  newsir query ./corpus -q "valencia OR NOT (madrid AND barcelona)"
  newsir query ./corpus -q 'title:covid "estado de alarma"' --positional --multifield
  newsir query ./corpus --file queries.txt --count
  newsir query ./corpus --test queries.tsv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	addIndexFlags(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query to solve")
	queryCmd.Flags().StringVarP(&queryFile, "file", "f", "", "file with one query per line")
	queryCmd.Flags().StringVarP(&queryTest, "test", "t", "", "file with query<TAB>expected count lines")
	queryCmd.Flags().BoolVarP(&queryCount, "count", "c", false, "print only the number of results")
	queryCmd.Flags().BoolVarP(&querySnippet, "snippet", "s", false, "show a snippet around the query terms (default from config)")
	queryCmd.Flags().BoolVarP(&queryAll, "all", "a", false, "show every result instead of the first ones")
	queryCmd.Flags().IntVarP(&queryMax, "max", "m", 0, "number of results to show (default from config)")
	queryCmd.Flags().BoolVarP(&queryRank, "rank", "r", false, "order results by term frequency (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagsMutuallyExclusive("query", "file", "test")
	queryCmd.MarkFlagsOneRequired("query", "file", "test")
}

func runQuery(cmd *cobra.Command, args []string) error {
	path, err := corpusPath(args)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	applyIndexFlags(cmd, cfg)
	applyQueryFlags(cmd, cfg)

	st, result, err := buildIndex(cmd.Context(), path, cfg, !indexQuiet && !queryJSON)
	if err != nil {
		return err
	}
	printWarnings(cmd, result)

	searchUC := newSearchUseCase(st, cfg)
	presentUC := newPresentUseCase(st, cfg)
	out := cmd.OutOrStdout()

	switch {
	case queryTest != "":
		cases, err := usecase.ReadTestCases(queryTest)
		if err != nil {
			return err
		}
		report, err := searchUC.RunTests(cmd.Context(), out, cases)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d passed, %d failed\n", report.Passed, report.Failed)
		if report.Failed > 0 {
			return fmt.Errorf("%d of %d queries returned an unexpected count", report.Failed, len(cases))
		}
		return nil

	case queryFile != "":
		queries, err := usecase.ReadQueries(queryFile)
		if err != nil {
			return err
		}
		outcomes, err := searchUC.SolveAll(cmd.Context(), queries)
		if err != nil {
			return err
		}
		failed := 0
		for _, o := range outcomes {
			if o.Err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", o.Query, o.Err)
				continue
			}
			if err := printResult(cmd, presentUC, o.Result); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d queries failed", failed, len(queries))
		}
		return nil
	}

	res, err := searchUC.Solve(queryText)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return printResult(cmd, presentUC, res)
}

// printResult writes one solved query in the selected output mode.
func printResult(cmd *cobra.Command, presentUC *usecase.PresentUseCase, res domain.Result) error {
	out := cmd.OutOrStdout()
	switch {
	case queryJSON && queryCount:
		return writeJSON(cmd, map[string]any{"query": res.Query, "count": res.Count()})
	case queryJSON:
		return writeJSON(cmd, map[string]any{"query": res.Query, "count": res.Count(), "hits": presentUC.Hits(res)})
	case queryCount:
		fmt.Fprintf(out, "%s\t%d\n", res.Query, res.Count())
	default:
		presentUC.Show(out, res)
		fmt.Fprintln(out)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

// applyQueryFlags overrides the query configuration with the flags set on
// cmd.
func applyQueryFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("snippet") {
		cfg.Query.Snippet = querySnippet
	}
	if cmd.Flags().Changed("all") {
		cfg.Query.ShowAll = queryAll
	}
	if queryMax > 0 {
		cfg.Query.ShowMax = queryMax
	}
	if cmd.Flags().Changed("rank") {
		cfg.Query.Ranking = queryRank
	}
	// Stemmed lookups need the stem indexes.
	if cfg.Query.Stemming {
		cfg.Index.Stemming = true
	}
}

func newSearchUseCase(st *memstore.MemoryStore, cfg *config.Config) *usecase.SearchUseCase {
	var searcher port.Searcher = query.NewSolver(st, query.Options{
		DefaultField: cfg.Index.DefaultField,
		Stemming:     cfg.Query.Stemming,
	})
	if cfg.Query.CacheSize > 0 {
		qc := cache.NewQueryCache(cfg.Query.CacheSize, cfg.Query.CacheTTL)
		searcher = cache.NewCachedSearcher(searcher, qc, "stem="+strconv.FormatBool(cfg.Query.Stemming))
	}

	var r port.Ranker = ranker.Identity{}
	if cfg.Query.Ranking {
		r = ranker.Frequency{}
	}
	return usecase.NewSearchUseCase(searcher, r, cfg.Query.Parallelism)
}

func newPresentUseCase(st *memstore.MemoryStore, cfg *config.Config) *usecase.PresentUseCase {
	var stemmer port.Stemmer
	if cfg.Query.Stemming {
		// The language was validated when the index was built.
		if s, err := analyzer.NewSnowballStemmer(cfg.Index.Language); err == nil {
			stemmer = s
		}
	}
	return usecase.NewPresentUseCase(st, snippet.NewExtractor(cfg.Query.SnippetWindow, stemmer), usecase.PresentOptions{
		ShowAll:   cfg.Query.ShowAll,
		ShowMax:   cfg.Query.ShowMax,
		Snippet:   cfg.Query.Snippet,
		TextField: cfg.Index.DefaultField,
	})
}
