package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"newsir/config"
	"newsir/internal/adapter/analyzer"
	"newsir/internal/adapter/corpus"
	"newsir/internal/adapter/fs"
	"newsir/internal/adapter/memstore"
	"newsir/internal/usecase"
)

var (
	indexMultifield bool
	indexPositional bool
	indexStem       bool
	indexStrict     bool
	indexQuiet      bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a news collection and show statistics",
	Long: `Index every JSON news file under the specified directory and print
statistics about the resulting indexes. The index lives in memory only.

Examples:
  newsir index .                          # Index current directory
  newsir index ./corpus --multifield --stem`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	addIndexFlags(indexCmd)
}

// addIndexFlags registers the flags that control index construction. They
// are shared by every command that builds an index.
func addIndexFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&indexMultifield, "multifield", false, "index every configured field (default from config)")
	cmd.Flags().BoolVar(&indexPositional, "positional", false, "store term positions for phrase queries (default from config)")
	cmd.Flags().BoolVar(&indexStem, "stem", false, "build stem indexes and search them (default from config)")
	cmd.Flags().BoolVar(&indexStrict, "strict", false, "abort on the first file that cannot be indexed")
	cmd.Flags().BoolVar(&indexQuiet, "quiet", false, "hide the progress bar")
}

// applyIndexFlags overrides the configuration with the flags set on cmd.
func applyIndexFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("multifield") {
		cfg.Index.Multifield = indexMultifield
	}
	if cmd.Flags().Changed("positional") {
		cfg.Index.Positional = indexPositional
	}
	if cmd.Flags().Changed("stem") {
		cfg.Index.Stemming = indexStem
		cfg.Query.Stemming = indexStem
	}
	if cmd.Flags().Changed("strict") {
		cfg.Index.Strict = indexStrict
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	path, err := corpusPath(args)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	applyIndexFlags(cmd, cfg)

	st, result, err := buildIndex(cmd.Context(), path, cfg, !indexQuiet)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Files indexed: %d\n", result.FilesIndexed)
	fmt.Fprintf(out, "  Files skipped: %d\n", result.FilesSkipped)
	fmt.Fprintf(out, "  News indexed:  %d\n\n", result.NewsIndexed)
	usecase.ShowStats(out, st.Stats())

	printWarnings(cmd, result)
	return nil
}

// corpusPath resolves the corpus directory from the command arguments.
func corpusPath(args []string) (string, error) {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", path)
	}
	return path, nil
}

// buildIndex ingests the corpus under path into a new memory store.
func buildIndex(ctx context.Context, path string, cfg *config.Config, showProgress bool) (*memstore.MemoryStore, *usecase.IndexResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := memstore.Options{
		Fields:       cfg.Index.Fields,
		DefaultField: cfg.Index.DefaultField,
		Multifield:   cfg.Index.Multifield,
		Positional:   cfg.Index.Positional,
	}
	if cfg.Index.Stemming {
		stemmer, err := analyzer.NewSnowballStemmer(cfg.Index.Language)
		if err != nil {
			return nil, nil, err
		}
		opts.Stemmer = stemmer
	}
	st := memstore.NewMemoryStore(opts)

	walker := fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes)
	loader := corpus.NewLoader(cfg.Index.Workers)
	indexUC := usecase.NewIndexUseCase(st, walker, loader, cfg.Index.Strict)

	var progress usecase.ProgressFunc
	if showProgress {
		progress = progressBar()
	}

	result, err := indexUC.Index(ctx, path, cfg.Index.Stemming, progress)
	if err != nil {
		return nil, nil, fmt.Errorf("indexing failed: %w", err)
	}
	return st, result, nil
}

// progressBar returns a progress callback drawing a bar on stderr. The bar
// is created on the first call, once the number of files is known.
func progressBar() usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 && processed < total {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-processed)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Indexing[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

func printWarnings(cmd *cobra.Command, result *usecase.IndexResult) {
	if len(result.Errors) == 0 {
		return
	}
	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\nWarnings:\n")
	for _, e := range result.Errors {
		fmt.Fprintf(errOut, "  - %s\n", e)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
