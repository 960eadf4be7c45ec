package esstore

// Query and aggregation bodies are plain maps built by pure functions, so
// shapes are assertable without a cluster.

func termQuery(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{field: value},
		},
	}
}

func boolFilterQuery(filters map[string]interface{}) map[string]interface{} {
	terms := make([]interface{}, 0, len(filters))
	for field, value := range filters {
		terms = append(terms, map[string]interface{}{
			"term": map[string]interface{}{field: value},
		})
	}
	if len(terms) == 0 {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}
	return map[string]interface{}{
		"bool": map[string]interface{}{"filter": terms},
	}
}

// uniqueBody matches documents holding the given field value, minus the
// record being updated.
func uniqueBody(field string, value interface{}, excludeID string) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"filter": []interface{}{
			map[string]interface{}{"term": map[string]interface{}{field: value}},
		},
	}
	if excludeID != "" {
		boolQuery["must_not"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"id": excludeID}},
		}
	}
	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}

// perClassAggBody groups documents of a join index by class_id with one
// optional sub-aggregation per bucket.
func perClassAggBody(classID string, onlyActive bool, subAggs map[string]interface{}) map[string]interface{} {
	filters := map[string]interface{}{}
	if classID != "" {
		filters["class_id"] = classID
	}
	if onlyActive {
		filters["is_active"] = true
	}

	byClass := map[string]interface{}{
		"terms": map[string]interface{}{
			"field": "class_id",
			"size":  10000,
		},
	}
	if len(subAggs) > 0 {
		byClass["aggs"] = subAggs
	}

	return map[string]interface{}{
		"size":  0,
		"query": boolFilterQuery(filters),
		"aggs":  map[string]interface{}{"by_class": byClass},
	}
}

func studentsPerClassBody(classID string) map[string]interface{} {
	return perClassAggBody(classID, true, nil)
}

func averageScorePerClassBody(classID string) map[string]interface{} {
	return perClassAggBody(classID, false, map[string]interface{}{
		"average_score": map[string]interface{}{
			"avg": map[string]interface{}{"field": "score"},
		},
		"total_scores": map[string]interface{}{
			"value_count": map[string]interface{}{"field": "id"},
		},
	})
}

func teachersPerClassBody(classID string) map[string]interface{} {
	return perClassAggBody(classID, true, map[string]interface{}{
		"teacher_count": map[string]interface{}{
			"cardinality": map[string]interface{}{"field": "teacher_id"},
		},
	})
}

func subjectsPerClassBody(classID string) map[string]interface{} {
	return perClassAggBody(classID, true, map[string]interface{}{
		"subjects": map[string]interface{}{
			"terms": map[string]interface{}{
				"field": "subject",
				"size":  100,
			},
		},
	})
}

// compositeAggBody pages through group-by buckets with one source per field.
func compositeAggBody(filters map[string]interface{}, groupBy []string, after map[string]interface{}) map[string]interface{} {
	sources := make([]interface{}, 0, len(groupBy))
	for _, field := range groupBy {
		sources = append(sources, map[string]interface{}{
			field: map[string]interface{}{
				"terms": map[string]interface{}{"field": field},
			},
		})
	}
	composite := map[string]interface{}{
		"size":    1000,
		"sources": sources,
	}
	if after != nil {
		composite["after"] = after
	}
	return map[string]interface{}{
		"size":  0,
		"query": boolFilterQuery(filters),
		"aggs": map[string]interface{}{
			"groups": map[string]interface{}{"composite": composite},
		},
	}
}

func countBody(filters map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"query": boolFilterQuery(filters)}
}

func allClassesBody() map[string]interface{} {
	return map[string]interface{}{
		"size":    10000,
		"query":   map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":    []interface{}{map[string]interface{}{"name.raw": "asc"}},
		"_source": []string{"id", "name"},
	}
}
