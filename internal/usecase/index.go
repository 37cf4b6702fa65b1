package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"newsir/internal/adapter/corpus"
	"newsir/internal/adapter/memstore"
	"newsir/internal/domain"
	"newsir/internal/logger"
	"newsir/internal/port"
)

// ProgressFunc is called after each corpus file has been ingested.
type ProgressFunc func(processed, total int, currentFile string)

// IndexUseCase handles corpus ingestion.
type IndexUseCase struct {
	store  *memstore.MemoryStore
	walker port.FileWalker
	loader *corpus.Loader
	strict bool
	logger *slog.Logger
}

// NewIndexUseCase creates a new index use case. With strict set the first
// file that cannot be ingested aborts the whole run.
func NewIndexUseCase(
	store *memstore.MemoryStore,
	walker port.FileWalker,
	loader *corpus.Loader,
	strict bool,
) *IndexUseCase {
	return &IndexUseCase{
		store:  store,
		walker: walker,
		loader: loader,
		strict: strict,
		logger: logger.WithComponent("ingest"),
	}
}

// IndexResult contains the results of an ingestion run.
type IndexResult struct {
	FilesIndexed int
	FilesSkipped int
	NewsIndexed  int
	Errors       []string
}

// Index ingests every corpus file under root in path order and, when stems
// is set, builds the stem indexes afterwards. progress may be nil.
func (u *IndexUseCase) Index(ctx context.Context, root string, stems bool, progress ProgressFunc) (*IndexResult, error) {
	result := &IndexResult{}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	decoded, err := u.loader.Load(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	for i, file := range decoded {
		if err := u.indexFile(file, result); err != nil {
			// An out-of-order append leaves the store half-built.
			if u.strict || errors.Is(err, domain.ErrOutOfOrder) {
				return nil, err
			}
			u.logger.Warn("file skipped", "path", file.Path, "error", err)
			result.FilesSkipped++
			result.Errors = append(result.Errors, err.Error())
		}
		if progress != nil {
			progress(i+1, len(decoded), file.Path)
		}
	}

	if stems {
		if err := u.store.BuildStems(); err != nil {
			return nil, fmt.Errorf("failed to build stem index: %w", err)
		}
	}

	u.logger.Info("ingestion finished",
		"files", result.FilesIndexed,
		"skipped", result.FilesSkipped,
		"news", result.NewsIndexed,
	)
	return result, nil
}

// indexFile adds one decoded file to the store. Files with a missing field
// are rejected before any of their news receive ids.
func (u *IndexUseCase) indexFile(file corpus.File, result *IndexResult) error {
	if file.Err != nil {
		return fmt.Errorf("failed to read %s: %w", file.Path, file.Err)
	}

	news := make([]domain.News, len(file.Items))
	for i, item := range file.Items {
		news[i] = domain.News{Key: item.Key, Fields: item.Fields}
	}

	docID, err := u.store.AddFile(file.Path, news)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", file.Path, err)
	}

	result.FilesIndexed++
	result.NewsIndexed += len(news)
	u.logger.Debug("file indexed", "path", file.Path, "doc", docID, "news", len(news))
	return nil
}
