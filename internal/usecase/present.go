package usecase

import (
	"fmt"
	"io"

	"newsir/internal/adapter/memstore"
	"newsir/internal/domain"
	"newsir/internal/port"
)

// Hit is one result of a query prepared for display.
type Hit struct {
	Rank     int    `json:"rank"`
	NewsID   int    `json:"news_id"`
	Path     string `json:"path"`
	Key      string `json:"key"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Keywords string `json:"keywords"`
	Text     string `json:"text"`
}

// PresentOptions controls how many hits are shown and what text they carry.
type PresentOptions struct {
	ShowAll bool
	ShowMax int
	Snippet bool
	// TextField is the field the snippet or opening is taken from.
	TextField string
}

// PresentUseCase turns solved results into hits using the corpus registry.
type PresentUseCase struct {
	store     *memstore.MemoryStore
	snippeter port.Snippeter
	opts      PresentOptions
}

// NewPresentUseCase creates a new present use case.
func NewPresentUseCase(store *memstore.MemoryStore, snippeter port.Snippeter, opts PresentOptions) *PresentUseCase {
	if opts.TextField == "" {
		opts.TextField = "article"
	}
	return &PresentUseCase{
		store:     store,
		snippeter: snippeter,
		opts:      opts,
	}
}

// Hits returns the displayed hits of result, in result order.
func (u *PresentUseCase) Hits(result domain.Result) []Hit {
	list := result.Postings
	if !u.opts.ShowAll && u.opts.ShowMax > 0 && len(list) > u.opts.ShowMax {
		list = list[:u.opts.ShowMax]
	}

	// Without snippets the opening of the text is shown.
	var terms []string
	if u.opts.Snippet {
		terms = result.Terms
	}

	hits := make([]Hit, 0, len(list))
	for i, posting := range list {
		news, ok := u.store.News(posting.NewsID)
		if !ok {
			continue
		}
		hit := Hit{
			Rank:     i + 1,
			NewsID:   news.ID,
			Path:     news.Path,
			Key:      news.Key,
			Date:     news.Fields["date"],
			Title:    news.Fields["title"],
			Keywords: news.Fields["keywords"],
		}
		if text, ok := news.Field(u.opts.TextField); ok && u.snippeter != nil {
			hit.Text = u.snippeter.Snippet(text, terms)
		}
		hits = append(hits, hit)
	}
	return hits
}

// Show writes the hits of result and its total count to w.
func (u *PresentUseCase) Show(w io.Writer, result domain.Result) {
	fmt.Fprintf(w, "Query: %s\n", result.Query)
	for _, h := range u.Hits(result) {
		fmt.Fprintf(w, "#%d\n", h.Rank)
		fmt.Fprintf(w, "  news:     %d (%s, %s)\n", h.NewsID, h.Path, h.Key)
		fmt.Fprintf(w, "  date:     %s\n", h.Date)
		fmt.Fprintf(w, "  title:    %s\n", h.Title)
		fmt.Fprintf(w, "  keywords: %s\n", h.Keywords)
		if h.Text != "" {
			fmt.Fprintf(w, "  %s\n", h.Text)
		}
	}
	fmt.Fprintf(w, "Number of results: %d\n", result.Count())
}

// ShowStats writes index statistics to w.
func ShowStats(w io.Writer, stats domain.Stats) {
	fmt.Fprintf(w, "Indexed files: %d\n", stats.Files)
	fmt.Fprintf(w, "Indexed news:  %d\n", stats.News)
	fmt.Fprintln(w, "Terms per field:")
	for _, f := range stats.Fields {
		fmt.Fprintf(w, "  %-10s %d\n", f.Field, f.Terms)
	}
	if stats.Stemming {
		fmt.Fprintln(w, "Stems per field:")
		for _, f := range stats.Fields {
			fmt.Fprintf(w, "  %-10s %d\n", f.Field, f.Stems)
		}
	}
	if stats.Positional {
		fmt.Fprintln(w, "Positional queries are allowed.")
	} else {
		fmt.Fprintln(w, "Positional queries are NOT allowed.")
	}
}
