package pgstore

import (
	"context"

	"github.com/noah-isme/school-data-api/internal/models"
	"github.com/noah-isme/school-data-api/internal/store/bulkops"
)

// Bulk runs a batched mutation through the shared per-item dispatcher.
func (s *Store) Bulk(ctx context.Context, op *models.BulkOperation) (*models.BulkResult, error) {
	return bulkops.Run(ctx, s, op)
}
