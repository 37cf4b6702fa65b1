package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"newsir/config"
	"newsir/internal/adapter/analyzer"
	"newsir/internal/adapter/cache"
	"newsir/internal/adapter/corpus"
	"newsir/internal/adapter/fs"
	"newsir/internal/adapter/memstore"
	"newsir/internal/adapter/query"
	"newsir/internal/port"
	"newsir/internal/usecase"
)

func main() {
	corpusPath := flag.String("corpus", ".", "Path to the news collection")
	queryFile := flag.String("file", "", "File with one query per line")
	rounds := flag.Int("n", 5, "Times each query list is solved")
	stem := flag.Bool("stem", false, "Build and search stem indexes")
	useCache := flag.Bool("cache", false, "Memoize solved queries")
	flag.Parse()

	if *queryFile == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -corpus ./news -file queries.txt [-n 5] [-stem] [-cache]")
		fmt.Println("\nMeasures:")
		fmt.Println("  1. Ingestion time (decode, term indexes, stem indexes)")
		fmt.Println("  2. Query latency per round")
		fmt.Println("  3. Result counts per query")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*corpusPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Index.Multifield = true
	cfg.Index.Positional = true
	cfg.Index.Stemming = *stem

	queries, err := usecase.ReadQueries(*queryFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading queries: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("BOOLEAN QUERY BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	opts := memstore.Options{
		Fields:       cfg.Index.Fields,
		DefaultField: cfg.Index.DefaultField,
		Multifield:   cfg.Index.Multifield,
		Positional:   cfg.Index.Positional,
	}
	if *stem {
		stemmer, err := analyzer.NewSnowballStemmer(cfg.Index.Language)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating stemmer: %v\n", err)
			os.Exit(1)
		}
		opts.Stemmer = stemmer
	}
	st := memstore.NewMemoryStore(opts)
	indexUC := usecase.NewIndexUseCase(st,
		fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes),
		corpus.NewLoader(cfg.Index.Workers),
		cfg.Index.Strict,
	)

	start := time.Now()
	result, err := indexUC.Index(context.Background(), *corpusPath, *stem, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Indexing error: %v\n", err)
		os.Exit(1)
	}
	stats := st.Stats()
	fmt.Printf("Files: %d  News: %d  Skipped: %d\n", stats.Files, stats.News, result.FilesSkipped)
	fmt.Printf("Ingestion: %v\n\n", time.Since(start).Round(time.Millisecond))

	var searcher port.Searcher = query.NewSolver(st, query.Options{
		DefaultField: cfg.Index.DefaultField,
		Stemming:     *stem,
	})
	if *useCache {
		searcher = cache.NewCachedSearcher(searcher, cache.NewQueryCache(len(queries), time.Hour), "bench")
	}
	searchUC := usecase.NewSearchUseCase(searcher, nil, cfg.Query.Parallelism)

	fmt.Printf("Queries: %d  Rounds: %d  Cache: %v\n", len(queries), *rounds, *useCache)
	fmt.Println(strings.Repeat("-", 70))

	var outcomes []usecase.Outcome
	var total time.Duration
	for round := 1; round <= *rounds; round++ {
		start := time.Now()
		outcomes, err = searchUC.SolveAll(context.Background(), queries)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
			os.Exit(1)
		}
		elapsed := time.Since(start)
		total += elapsed
		fmt.Printf("Round %d: %v (%.1f queries/s)\n", round, elapsed.Round(time.Microsecond),
			float64(len(queries))/elapsed.Seconds())
	}

	fmt.Println()
	fmt.Println("Results:")
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Printf("  %-50s ERROR %v\n", truncate(o.Query, 50), o.Err)
			continue
		}
		fmt.Printf("  %-50s %d\n", truncate(o.Query, 50), o.Result.Count())
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	if *rounds > 0 {
		fmt.Printf("Average round: %v\n", (total / time.Duration(*rounds)).Round(time.Microsecond))
	}
	if failed > 0 {
		fmt.Printf("Failed queries: %d\n", failed)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
