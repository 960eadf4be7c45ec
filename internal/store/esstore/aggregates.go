package esstore

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/noah-isme/school-data-api/internal/models"
)

type classRef struct {
	ID   string
	Name string
}

// listClasses returns classes ordered by name, optionally scoped to one id.
func (s *Store) listClasses(ctx context.Context, classID string) ([]classRef, error) {
	if classID != "" {
		if err := s.requireExists(ctx, "classes", "class", classID); err != nil {
			return nil, err
		}
		class, err := s.GetClass(ctx, classID)
		if err != nil {
			return nil, err
		}
		return []classRef{{ID: class.ID, Name: class.Name}}, nil
	}

	res, err := s.search(ctx, "classes", allClassesBody())
	if err != nil {
		return nil, err
	}
	var refs []classRef
	for _, hit := range searchHits(res) {
		source, _ := hit["_source"].(map[string]interface{})
		id, _ := source["id"].(string)
		name, _ := source["name"].(string)
		refs = append(refs, classRef{ID: id, Name: name})
	}
	return refs, nil
}

func searchHits(res map[string]interface{}) []map[string]interface{} {
	outer, _ := res["hits"].(map[string]interface{})
	inner, _ := outer["hits"].([]interface{})
	hits := make([]map[string]interface{}, 0, len(inner))
	for _, h := range inner {
		if hit, ok := h.(map[string]interface{}); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

// aggBuckets extracts the named terms-aggregation buckets.
func aggBuckets(res map[string]interface{}, name string) []map[string]interface{} {
	aggs, _ := res["aggregations"].(map[string]interface{})
	agg, _ := aggs[name].(map[string]interface{})
	raw, _ := agg["buckets"].([]interface{})
	buckets := make([]map[string]interface{}, 0, len(raw))
	for _, b := range raw {
		if bucket, ok := b.(map[string]interface{}); ok {
			buckets = append(buckets, bucket)
		}
	}
	return buckets
}

func bucketMetric(bucket map[string]interface{}, name string) float64 {
	metric, _ := bucket[name].(map[string]interface{})
	value, _ := metric["value"].(float64)
	return value
}

// StudentsPerClass counts active enrollments per class, including classes
// with none.
func (s *Store) StudentsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	classes, err := s.listClasses(ctx, classID)
	if err != nil {
		return nil, err
	}
	res, err := s.search(ctx, "class_enrollments", studentsPerClassBody(classID))
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, bucket := range aggBuckets(res, "by_class") {
		key, _ := bucket["key"].(string)
		docCount, _ := bucket["doc_count"].(float64)
		counts[key] = int(docCount)
	}

	results := make([]map[string]interface{}, 0, len(classes))
	for _, class := range classes {
		results = append(results, map[string]interface{}{
			"class_id":      class.ID,
			"class_name":    class.Name,
			"student_count": counts[class.ID],
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// AverageScorePerClass averages assessment scores per class.
func (s *Store) AverageScorePerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	classes, err := s.listClasses(ctx, classID)
	if err != nil {
		return nil, err
	}
	res, err := s.search(ctx, "scores", averageScorePerClassBody(classID))
	if err != nil {
		return nil, err
	}

	type scoreAgg struct {
		average float64
		total   int
	}
	byClass := map[string]scoreAgg{}
	for _, bucket := range aggBuckets(res, "by_class") {
		key, _ := bucket["key"].(string)
		byClass[key] = scoreAgg{
			average: roundTo2(bucketMetric(bucket, "average_score")),
			total:   int(bucketMetric(bucket, "total_scores")),
		}
	}

	results := make([]map[string]interface{}, 0, len(classes))
	for _, class := range classes {
		agg := byClass[class.ID]
		results = append(results, map[string]interface{}{
			"class_id":      class.ID,
			"class_name":    class.Name,
			"average_score": agg.average,
			"total_scores":  agg.total,
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// TeachersPerClass counts distinct actively assigned teachers per class.
func (s *Store) TeachersPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	classes, err := s.listClasses(ctx, classID)
	if err != nil {
		return nil, err
	}
	res, err := s.search(ctx, "teacher_assignments", teachersPerClassBody(classID))
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, bucket := range aggBuckets(res, "by_class") {
		key, _ := bucket["key"].(string)
		counts[key] = int(bucketMetric(bucket, "teacher_count"))
	}

	results := make([]map[string]interface{}, 0, len(classes))
	for _, class := range classes {
		results = append(results, map[string]interface{}{
			"class_id":      class.ID,
			"class_name":    class.Name,
			"teacher_count": counts[class.ID],
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// SubjectsPerClass lists the distinct subjects taught in each class.
func (s *Store) SubjectsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	classes, err := s.listClasses(ctx, classID)
	if err != nil {
		return nil, err
	}
	res, err := s.search(ctx, "teacher_assignments", subjectsPerClassBody(classID))
	if err != nil {
		return nil, err
	}
	subjects := map[string][]string{}
	for _, bucket := range aggBuckets(res, "by_class") {
		key, _ := bucket["key"].(string)
		var values []string
		for _, sub := range aggBuckets(bucket, "subjects") {
			if v, ok := sub["key"].(string); ok {
				values = append(values, v)
			}
		}
		sort.Strings(values)
		subjects[key] = values
	}

	results := make([]map[string]interface{}, 0, len(classes))
	for _, class := range classes {
		values := subjects[class.ID]
		if values == nil {
			values = []string{}
		}
		results = append(results, map[string]interface{}{
			"class_id":      class.ID,
			"class_name":    class.Name,
			"subjects":      values,
			"subject_count": len(values),
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// Aggregate runs a whitelisted group-and-count query through a composite
// aggregation, sorting and truncating client-side.
func (s *Store) Aggregate(ctx context.Context, query *models.AggregateQuery) (*models.AggregateResult, error) {
	storage := query.Storage()

	if len(query.GroupBy) == 0 {
		count, err := s.countDocs(ctx, storage, countBody(query.Filters))
		if err != nil {
			return nil, err
		}
		results := []map[string]interface{}{{"count": count}}
		return &models.AggregateResult{Results: results, Count: len(results)}, nil
	}

	var results []map[string]interface{}
	var after map[string]interface{}
	for {
		res, err := s.search(ctx, storage, compositeAggBody(query.Filters, query.GroupBy, after))
		if err != nil {
			return nil, err
		}
		aggs, _ := res["aggregations"].(map[string]interface{})
		groups, _ := aggs["groups"].(map[string]interface{})
		raw, _ := groups["buckets"].([]interface{})
		for _, b := range raw {
			bucket, ok := b.(map[string]interface{})
			if !ok {
				continue
			}
			key, _ := bucket["key"].(map[string]interface{})
			docCount, _ := bucket["doc_count"].(float64)
			row := make(map[string]interface{}, len(key)+1)
			for k, v := range key {
				row[k] = v
			}
			row["count"] = int(docCount)
			results = append(results, row)
		}
		next, _ := groups["after_key"].(map[string]interface{})
		if next == nil || len(raw) == 0 {
			break
		}
		after = next
	}

	sortRows(results, query.SortBy, query.SortOrder)
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

func sortRows(rows []map[string]interface{}, sortBy, sortOrder string) {
	if sortBy == "" {
		sortBy = "count"
	}
	desc := sortOrder == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		less := compareValues(rows[i][sortBy], rows[j][sortBy])
		if desc {
			return !less && !equalValues(rows[i][sortBy], rows[j][sortBy])
		}
		return less
	})
}

func compareValues(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func equalValues(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
