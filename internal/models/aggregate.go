package models

import "fmt"

// Aggregate query types understood by AggregateQuery. The four canonical
// per-class breakdowns have dedicated operations; this generic descriptor
// covers parameterised grouping over one entity kind.
type AggregateQuery struct {
	QueryType string                 `json:"query_type"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
	GroupBy   []string               `json:"group_by,omitempty"`
	SortBy    string                 `json:"sort_by,omitempty"`
	SortOrder string                 `json:"sort_order,omitempty"`
	Limit     int                    `json:"limit,omitempty"`
}

// aggregateTargets maps query types to the entity storage they run against,
// together with the fields callers may filter, group, or sort on. Field
// whitelisting keeps caller input out of query text on every backend.
var aggregateTargets = map[string]struct {
	storage string
	fields  map[string]struct{}
}{
	"students": {"students", fieldSet("grade_level", "is_active", "email", "student_code")},
	"teachers": {"teachers", fieldSet("department", "is_active", "email", "employee_code")},
	"classes":  {"classes", fieldSet("grade_level", "academic_year", "semester", "gathering_type")},
	"scores":   {"scores", fieldSet("class_id", "student_id", "subject", "assessment_type")},
	"enrollments": {"class_enrollments", fieldSet("class_id", "student_id", "is_active")},
	"assignments": {"teacher_assignments", fieldSet("class_id", "teacher_id", "subject", "is_active")},
}

func fieldSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Normalize validates the descriptor against the target whitelist.
func (q *AggregateQuery) Normalize() error {
	target, ok := aggregateTargets[q.QueryType]
	if !ok {
		return fmt.Errorf("unknown aggregate query type %q", q.QueryType)
	}
	for field := range q.Filters {
		if _, ok := target.fields[field]; !ok {
			return fmt.Errorf("field %q is not filterable for %q", field, q.QueryType)
		}
	}
	for _, field := range q.GroupBy {
		if _, ok := target.fields[field]; !ok {
			return fmt.Errorf("field %q is not groupable for %q", field, q.QueryType)
		}
	}
	if q.SortBy != "" {
		if _, ok := target.fields[q.SortBy]; !ok && q.SortBy != "count" {
			return fmt.Errorf("field %q is not sortable for %q", q.SortBy, q.QueryType)
		}
	}
	switch q.SortOrder {
	case "":
		q.SortOrder = "asc"
	case "asc", "desc":
	default:
		return fmt.Errorf("sort order must be asc or desc, got %q", q.SortOrder)
	}
	if q.Limit < 0 {
		return fmt.Errorf("limit must be positive, got %d", q.Limit)
	}
	return nil
}

// Storage returns the storage name the query runs against. Normalize must
// have succeeded.
func (q *AggregateQuery) Storage() string {
	return aggregateTargets[q.QueryType].storage
}

// AggregateResult carries grouped rows in a backend-neutral shape. Row keys
// are fixed per query type so the three adapters stay comparable.
type AggregateResult struct {
	Results []map[string]interface{} `json:"results"`
	Count   int                      `json:"count"`
}
