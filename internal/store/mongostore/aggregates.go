package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/school-data-api/internal/models"
)

func (s *Store) runPipeline(ctx context.Context, coll string, pipeline mongo.Pipeline) (*models.AggregateResult, error) {
	cursor, err := s.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode aggregate rows: %w", err)
	}

	results := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		results = append(results, normalizeDoc(doc))
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// normalizeDoc flattens driver types into plain Go values so rows look the
// same as the other adapters'.
func normalizeDoc(doc bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case int32:
		return int(t)
	case bson.A:
		arr := make([]interface{}, len(t))
		for i, item := range t {
			arr[i] = normalizeValue(item)
		}
		return arr
	case bson.M:
		return normalizeDoc(t)
	default:
		return v
	}
}

// StudentsPerClass counts active enrollments per class.
func (s *Store) StudentsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	if err := s.scopeExists(ctx, classID); err != nil {
		return nil, err
	}
	return s.runPipeline(ctx, collClasses, studentsPerClassPipeline(classID))
}

// AverageScorePerClass averages assessment scores per class.
func (s *Store) AverageScorePerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	if err := s.scopeExists(ctx, classID); err != nil {
		return nil, err
	}
	return s.runPipeline(ctx, collClasses, averageScorePerClassPipeline(classID))
}

// TeachersPerClass counts distinct actively assigned teachers per class.
func (s *Store) TeachersPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	if err := s.scopeExists(ctx, classID); err != nil {
		return nil, err
	}
	return s.runPipeline(ctx, collClasses, teachersPerClassPipeline(classID))
}

// SubjectsPerClass lists the distinct subjects taught in each class.
func (s *Store) SubjectsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	if err := s.scopeExists(ctx, classID); err != nil {
		return nil, err
	}
	return s.runPipeline(ctx, collClasses, subjectsPerClassPipeline(classID))
}

// Aggregate runs a whitelisted group-and-count pipeline against the query's
// target collection.
func (s *Store) Aggregate(ctx context.Context, query *models.AggregateQuery) (*models.AggregateResult, error) {
	pipeline := genericAggregatePipeline(query.Filters, query.GroupBy, query.SortBy, query.SortOrder, query.Limit)
	return s.runPipeline(ctx, query.Storage(), pipeline)
}

func (s *Store) scopeExists(ctx context.Context, classID string) error {
	if classID == "" {
		return nil
	}
	return s.exists(ctx, collClasses, "class", classID)
}
