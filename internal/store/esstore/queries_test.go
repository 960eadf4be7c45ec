package esstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolFilterQueryEmpty(t *testing.T) {
	q := boolFilterQuery(nil)
	assert.Contains(t, q, "match_all")
}

func TestBoolFilterQueryTerms(t *testing.T) {
	q := boolFilterQuery(map[string]interface{}{"is_active": true, "grade_level": 10})
	boolQuery, ok := q["bool"].(map[string]interface{})
	require.True(t, ok)
	filters, ok := boolQuery["filter"].([]interface{})
	require.True(t, ok)
	assert.Len(t, filters, 2)
}

func TestUniqueBodyExcludesSelf(t *testing.T) {
	body := uniqueBody("email", "ada@school.edu", "per-1")
	query, ok := body["query"].(map[string]interface{})
	require.True(t, ok)
	boolQuery, ok := query["bool"].(map[string]interface{})
	require.True(t, ok)
	mustNot, ok := boolQuery["must_not"].([]interface{})
	require.True(t, ok)
	require.Len(t, mustNot, 1)
	term := mustNot[0].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "per-1", term["id"])
}

func TestUniqueBodyNoExclusion(t *testing.T) {
	body := uniqueBody("email", "ada@school.edu", "")
	query := body["query"].(map[string]interface{})
	boolQuery := query["bool"].(map[string]interface{})
	assert.NotContains(t, boolQuery, "must_not")
}

func TestStudentsPerClassBodyScoped(t *testing.T) {
	body := studentsPerClassBody("class-1")
	assert.Equal(t, 0, body["size"])

	query := body["query"].(map[string]interface{})
	boolQuery := query["bool"].(map[string]interface{})
	filters := boolQuery["filter"].([]interface{})
	assert.Len(t, filters, 2)

	aggs := body["aggs"].(map[string]interface{})
	byClass := aggs["by_class"].(map[string]interface{})
	terms := byClass["terms"].(map[string]interface{})
	assert.Equal(t, "class_id", terms["field"])
}

func TestAverageScorePerClassBodySubAggs(t *testing.T) {
	body := averageScorePerClassBody("")
	aggs := body["aggs"].(map[string]interface{})
	byClass := aggs["by_class"].(map[string]interface{})
	subAggs, ok := byClass["aggs"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, subAggs, "average_score")
	assert.Contains(t, subAggs, "total_scores")
}

func TestTeachersPerClassBodyCardinality(t *testing.T) {
	body := teachersPerClassBody("")
	aggs := body["aggs"].(map[string]interface{})
	byClass := aggs["by_class"].(map[string]interface{})
	subAggs := byClass["aggs"].(map[string]interface{})
	teacherCount := subAggs["teacher_count"].(map[string]interface{})
	cardinality := teacherCount["cardinality"].(map[string]interface{})
	assert.Equal(t, "teacher_id", cardinality["field"])
}

func TestCompositeAggBodySources(t *testing.T) {
	body := compositeAggBody(map[string]interface{}{"is_active": true}, []string{"grade_level", "department"}, nil)
	aggs := body["aggs"].(map[string]interface{})
	groups := aggs["groups"].(map[string]interface{})
	composite := groups["composite"].(map[string]interface{})
	sources := composite["sources"].([]interface{})
	require.Len(t, sources, 2)
	assert.NotContains(t, composite, "after")
}

func TestCompositeAggBodyAfterKey(t *testing.T) {
	after := map[string]interface{}{"grade_level": 10}
	body := compositeAggBody(nil, []string{"grade_level"}, after)
	aggs := body["aggs"].(map[string]interface{})
	groups := aggs["groups"].(map[string]interface{})
	composite := groups["composite"].(map[string]interface{})
	assert.Equal(t, after, composite["after"])
}

func TestSortRows(t *testing.T) {
	rows := []map[string]interface{}{
		{"grade_level": 11, "count": 5},
		{"grade_level": 10, "count": 9},
		{"grade_level": 12, "count": 2},
	}
	sortRows(rows, "", "desc")
	assert.Equal(t, 9, rows[0]["count"])
	assert.Equal(t, 2, rows[2]["count"])

	sortRows(rows, "grade_level", "asc")
	assert.Equal(t, 10, rows[0]["grade_level"])
}

func TestAggBucketsParsing(t *testing.T) {
	res := map[string]interface{}{
		"aggregations": map[string]interface{}{
			"by_class": map[string]interface{}{
				"buckets": []interface{}{
					map[string]interface{}{"key": "class-1", "doc_count": float64(28)},
				},
			},
		},
	}
	buckets := aggBuckets(res, "by_class")
	require.Len(t, buckets, 1)
	assert.Equal(t, "class-1", buckets[0]["key"])
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 83.46, roundTo2(83.456789))
	assert.Equal(t, 0.0, roundTo2(0))
}
