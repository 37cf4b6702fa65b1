// Package corpus reads news collections stored as JSON arrays.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"newsir/internal/port"
)

// KeyField names the attribute holding a news item's identifier within its
// source file.
const KeyField = "id"

// Item is one decoded news object: its source key and the text of every
// other attribute.
type Item struct {
	Key    string
	Fields map[string]string
}

// File is the decoded content of one corpus file. Err is set when the file
// could not be read or decoded, in which case Items is empty.
type File struct {
	Path  string
	Items []Item
	Err   error
}

// Loader decodes corpus files concurrently.
type Loader struct {
	workers int
}

// NewLoader creates a loader decoding up to workers files at a time.
func NewLoader(workers int) *Loader {
	if workers <= 0 {
		workers = 1
	}
	return &Loader{workers: workers}
}

// Load decodes files and returns them in the same order. A file that fails
// to decode does not stop the others; its error is reported in File.Err.
func (l *Loader) Load(ctx context.Context, files []port.FileInfo) ([]File, error) {
	out := make([]File, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items, err := ReadFile(f.Path)
			out[i] = File{Path: f.Path, Items: items, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadFile decodes a single JSON array of news objects.
func ReadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data)
}

// Decode parses a JSON array of news objects. Non-string attribute values
// are rendered as text; arrays are joined with spaces.
func Decode(data []byte) ([]Item, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode news array: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for i, obj := range raw {
		item := Item{Fields: make(map[string]string, len(obj))}
		for name, value := range obj {
			text := stringify(value)
			if name == KeyField {
				item.Key = text
				continue
			}
			item.Fields[name] = text
		}
		if item.Key == "" {
			item.Key = fmt.Sprintf("#%d", i)
		}
		items = append(items, item)
	}
	return items, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, elem := range val {
			parts = append(parts, stringify(elem))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(val)
	}
}
