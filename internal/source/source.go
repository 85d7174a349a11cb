// Package source defines the document-connector seam. How documents are
// fetched (database, API, file) is a collaborator's concern; the engine
// only sees a source-type name and an ordered batch of raw documents.
package source

import (
	"context"

	"github.com/vburojevic/errlens/internal/domain"
)

// FetchOptions narrows a fetch. Both fields are connector concerns,
// invisible to the normalization engine.
type FetchOptions struct {
	// Limit caps the number of documents; zero means no cap.
	Limit int

	// Filter is a connector-specific match expression on raw documents.
	Filter map[string]any
}

// Connector fetches raw documents for a source type.
type Connector interface {
	// Fetch returns the documents for one source type in source order.
	Fetch(ctx context.Context, sourceType string, opts FetchOptions) ([]domain.Document, error)

	// SourceTypes lists the source types this connector can serve.
	SourceTypes(ctx context.Context) ([]string, error)
}
