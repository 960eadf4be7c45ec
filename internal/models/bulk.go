package models

import "fmt"

// Bulk operation kinds.
const (
	BulkCreate = "create"
	BulkUpdate = "update"
	BulkDelete = "delete"
)

// DefaultBatchSize is applied when a bulk request does not set one.
const DefaultBatchSize = 100

const maxBatchSize = 1000

// BulkOperation describes one batched mutation over a single entity kind.
type BulkOperation struct {
	OperationType string                   `json:"operation_type"`
	EntityType    EntityKind               `json:"entity_type"`
	Data          []map[string]interface{} `json:"data"`
	BatchSize     int                      `json:"batch_size"`
}

// Normalize applies defaults and validates the operation descriptor.
func (b *BulkOperation) Normalize() error {
	switch b.OperationType {
	case BulkCreate, BulkUpdate, BulkDelete:
	default:
		return fmt.Errorf("unknown bulk operation type %q", b.OperationType)
	}
	if !b.EntityType.Valid() {
		return fmt.Errorf("unknown entity type %q", b.EntityType)
	}
	if len(b.Data) == 0 {
		return fmt.Errorf("bulk operation requires at least one item")
	}
	if b.BatchSize == 0 {
		b.BatchSize = DefaultBatchSize
	}
	if b.BatchSize < 1 || b.BatchSize > maxBatchSize {
		return fmt.Errorf("batch size must be between 1 and %d, got %d", maxBatchSize, b.BatchSize)
	}
	return nil
}

// Batches splits the payload into chunks of at most BatchSize items.
func (b *BulkOperation) Batches() [][]map[string]interface{} {
	size := b.BatchSize
	if size < 1 {
		size = DefaultBatchSize
	}
	var out [][]map[string]interface{}
	for start := 0; start < len(b.Data); start += size {
		end := start + size
		if end > len(b.Data) {
			end = len(b.Data)
		}
		out = append(out, b.Data[start:end])
	}
	return out
}

// BulkResult reports the outcome of a bulk or relationship operation.
// Partial failure is data, not an error: Failed counts items that were
// rejected while the rest of the batch proceeded.
type BulkResult struct {
	TotalProcessed int      `json:"total_processed"`
	Successful     int      `json:"successful"`
	Failed         int      `json:"failed"`
	Errors         []string `json:"errors,omitempty"`
}

// OK reports whether every item succeeded.
func (r *BulkResult) OK() bool {
	return r.Failed == 0
}

// Add merges one item outcome into the counters.
func (r *BulkResult) Add(err error) {
	r.TotalProcessed++
	if err != nil {
		r.Failed++
		r.Errors = append(r.Errors, err.Error())
		return
	}
	r.Successful++
}
