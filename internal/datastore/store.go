// Package datastore reads unit records from and writes enrichment results
// back to the hosted table that owns them.
package datastore

import (
	"context"

	"multi-unit-enrichment/internal/models"
)

// Store is the record source and write-back sink for the enrichment job.
type Store interface {
	// List returns every record in the configured view, in view order.
	List(ctx context.Context) ([]models.UnitRecord, error)
	// Sample returns up to max records from the view, cheap enough to call
	// before deciding whether a scheduled run is worthwhile.
	Sample(ctx context.Context, max int) ([]models.UnitRecord, error)
	// Get fetches a single record by its datastore id.
	Get(ctx context.Context, id string) (models.UnitRecord, error)
	// Update writes the merged columns onto an existing record.
	Update(ctx context.Context, id string, fields map[string]any) error
}
