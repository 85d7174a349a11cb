// Package jsonfile implements the source.Connector seam over a directory
// of JSON files: each <sourceType>.json holds an array of raw documents.
// It exists so the pipeline can run end to end without a database.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vburojevic/errlens/internal/domain"
	"github.com/vburojevic/errlens/internal/source"
)

// Connector reads document batches from a directory.
type Connector struct {
	dir string
}

// New returns a connector rooted at dir.
func New(dir string) *Connector {
	return &Connector{dir: dir}
}

var _ source.Connector = (*Connector)(nil)

// Fetch reads <sourceType>.json and returns its documents in file order.
func (c *Connector) Fetch(ctx context.Context, sourceType string, opts source.FetchOptions) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(c.dir, sourceType+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source %q: %w", sourceType, err)
	}

	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode source %q: %w", sourceType, err)
	}

	docs = filterDocs(docs, opts.Filter)
	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

// SourceTypes lists the .json files in the directory, sorted.
func (c *Connector) SourceTypes(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list sources in %q: %w", c.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// filterDocs keeps documents whose top-level fields equal every filter
// value. Nested matching is left to richer connectors.
func filterDocs(docs []domain.Document, filter map[string]any) []domain.Document {
	if len(filter) == 0 {
		return docs
	}
	var out []domain.Document
	for _, doc := range docs {
		match := true
		for k, want := range filter {
			if doc[k] != want {
				match = false
				break
			}
		}
		if match {
			out = append(out, doc)
		}
	}
	return out
}
