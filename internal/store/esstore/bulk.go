package esstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/google/uuid"

	"github.com/noah-isme/school-data-api/internal/models"
	"github.com/noah-isme/school-data-api/internal/store/bulkops"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// uniqueSeen tracks unique field values already accepted within one bulk
// request. Buffered indexer items are not searchable yet, so the index-level
// uniqueness check alone would let in-request duplicates through.
type uniqueSeen map[string]map[string]struct{}

func (u uniqueSeen) claim(entity, field, value string) error {
	values, ok := u[field]
	if !ok {
		values = map[string]struct{}{}
		u[field] = values
	}
	if _, dup := values[value]; dup {
		return appErrors.Conflict(nil, fmt.Sprintf("%s with %s %v already exists", entity, field, value))
	}
	values[value] = struct{}{}
	return nil
}

// Bulk routes creates through the native bulk API and the other operation
// types through the shared per-item dispatcher.
func (s *Store) Bulk(ctx context.Context, op *models.BulkOperation) (*models.BulkResult, error) {
	if op.OperationType == models.BulkCreate {
		return s.bulkCreate(ctx, op)
	}
	return bulkops.Run(ctx, s, op)
}

// bulkCreate streams pre-validated documents through a BulkIndexer. Items
// that fail validation or a uniqueness check never reach the indexer.
func (s *Store) bulkCreate(ctx context.Context, op *models.BulkOperation) (*models.BulkResult, error) {
	storage, err := op.EntityType.StorageName()
	if err != nil {
		return nil, err
	}
	if err := s.ensureIndex(ctx, storage); err != nil {
		return nil, err
	}

	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        s.client,
		Index:         s.indexFor(storage),
		Refresh:       "true",
		FlushInterval: time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("build bulk indexer: %w", err)
	}

	var mu sync.Mutex
	result := &models.BulkResult{}
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		result.Add(err)
	}

	seen := uniqueSeen{}
	for _, batch := range op.Batches() {
		if err := ctx.Err(); err != nil {
			_ = indexer.Close(context.Background())
			return nil, err
		}
		for _, item := range batch {
			id, doc, err := s.prepareCreate(ctx, op.EntityType, item, seen)
			if err != nil {
				record(err)
				continue
			}
			raw, err := json.Marshal(doc)
			if err != nil {
				record(fmt.Errorf("encode bulk item: %w", err))
				continue
			}
			err = indexer.Add(ctx, esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: id,
				Body:       bytes.NewReader(raw),
				OnSuccess: func(context.Context, esutil.BulkIndexerItem, esutil.BulkIndexerResponseItem) {
					record(nil)
				},
				OnFailure: func(_ context.Context, _ esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					if err == nil {
						err = fmt.Errorf("index item: %s", res.Error.Reason)
					}
					record(err)
				},
			})
			if err != nil {
				record(fmt.Errorf("enqueue bulk item: %w", err))
			}
		}
	}

	if err := indexer.Close(ctx); err != nil {
		return nil, fmt.Errorf("flush bulk indexer: %w", err)
	}
	return result, nil
}

// prepareCreate decodes, validates and stamps one item, including the
// uniqueness checks single-document creates perform. seen guards against
// duplicates within the same request that the index cannot see yet.
func (s *Store) prepareCreate(ctx context.Context, kind models.EntityKind, item map[string]interface{}, seen uniqueSeen) (string, interface{}, error) {
	now := time.Now().UTC()
	switch kind {
	case models.KindPerson:
		var person models.Person
		if err := models.DecodeItem(item, &person); err != nil {
			return "", nil, err
		}
		if err := person.Normalize(); err != nil {
			return "", nil, err
		}
		person.Stamp(uuid.NewString(), now)
		if err := s.requireUnique(ctx, "persons", "person", "email", person.Email, ""); err != nil {
			return "", nil, err
		}
		if err := seen.claim("person", "email", person.Email); err != nil {
			return "", nil, err
		}
		return person.ID, &person, nil
	case models.KindStudent:
		var student models.Student
		if err := models.DecodeItem(item, &student); err != nil {
			return "", nil, err
		}
		if err := student.Normalize(); err != nil {
			return "", nil, err
		}
		student.Stamp(uuid.NewString(), now)
		if err := s.requireUnique(ctx, "students", "student", "email", student.Email, ""); err != nil {
			return "", nil, err
		}
		if err := seen.claim("student", "email", student.Email); err != nil {
			return "", nil, err
		}
		return student.ID, &student, nil
	case models.KindTeacher:
		var teacher models.Teacher
		if err := models.DecodeItem(item, &teacher); err != nil {
			return "", nil, err
		}
		if err := teacher.Normalize(); err != nil {
			return "", nil, err
		}
		teacher.Stamp(uuid.NewString(), now)
		if err := s.requireUnique(ctx, "teachers", "teacher", "email", teacher.Email, ""); err != nil {
			return "", nil, err
		}
		if err := seen.claim("teacher", "email", teacher.Email); err != nil {
			return "", nil, err
		}
		return teacher.ID, &teacher, nil
	case models.KindClass:
		var class models.Class
		if err := models.DecodeItem(item, &class); err != nil {
			return "", nil, err
		}
		if err := class.Normalize(); err != nil {
			return "", nil, err
		}
		class.Stamp(uuid.NewString(), now)
		if class.ClassCode != nil {
			if err := s.requireUnique(ctx, "classes", "class", "class_code", *class.ClassCode, ""); err != nil {
				return "", nil, err
			}
			if err := seen.claim("class", "class_code", *class.ClassCode); err != nil {
				return "", nil, err
			}
		}
		return class.ID, &class, nil
	}
	return "", nil, fmt.Errorf("unknown entity type %q", kind)
}
