package service

import (
	"context"
	"fmt"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// BulkRequest describes one batched mutation.
type BulkRequest struct {
	OperationType string                   `json:"operation_type" validate:"required"`
	EntityType    string                   `json:"entity_type" validate:"required"`
	Data          []map[string]interface{} `json:"data" validate:"required,min=1"`
	BatchSize     int                      `json:"batch_size" validate:"omitempty,min=1,max=1000"`
}

// Bulk validates the descriptor and hands it to the backend.
func (s *DataService) Bulk(ctx context.Context, req BulkRequest) (*models.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	op := &models.BulkOperation{
		OperationType: req.OperationType,
		EntityType:    models.EntityKind(req.EntityType),
		Data:          req.Data,
		BatchSize:     req.BatchSize,
	}
	if err := op.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	result, err := s.store.Bulk(ctx, op)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return result, nil
}

func errUnknownSubject(subject string) error {
	return fmt.Errorf("unknown subject %q", subject)
}
