// Package source provides the catalog's data origins: a remote HTTP source
// with a categorized error taxonomy and retry policy, and a bundled fallback
// that can never fail.
package source

import (
	"context"

	"atlas/internal/catalog/models"
)

// Remote is a single network fetch of the full country list. One round trip
// per call, no caching; failures carry a *FetchError category.
type Remote interface {
	Fetch(ctx context.Context) ([]models.Country, error)
}

// Fallback serves the bundled static dataset. Total from the caller's
// perspective: when the underlying data is missing or malformed it returns
// the sentinel entry, never an empty slice or an error.
type Fallback interface {
	Load(ctx context.Context) []models.Country
}
