package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func stageKeys(t *testing.T, pipeline []bson.D) []string {
	t.Helper()
	keys := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		require.Len(t, stage, 1)
		keys = append(keys, stage[0].Key)
	}
	return keys
}

func TestStudentsPerClassPipelineAllClasses(t *testing.T) {
	pipeline := studentsPerClassPipeline("")
	assert.Equal(t, []string{"$lookup", "$project", "$sort"}, stageKeys(t, pipeline))
}

func TestStudentsPerClassPipelineScoped(t *testing.T) {
	pipeline := studentsPerClassPipeline("class-1")
	require.Equal(t, []string{"$match", "$lookup", "$project", "$sort"}, stageKeys(t, pipeline))

	match, ok := pipeline[0][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "class-1", match["id"])

	lookup, ok := pipeline[1][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, collEnrollments, lookup["from"])
	assert.Equal(t, "class_id", lookup["foreignField"])
}

func TestAverageScorePerClassPipelineProjection(t *testing.T) {
	pipeline := averageScorePerClassPipeline("")
	require.Equal(t, []string{"$lookup", "$project", "$sort"}, stageKeys(t, pipeline))

	project, ok := pipeline[1][0].Value.(bson.M)
	require.True(t, ok)
	assert.Contains(t, project, "average_score")
	assert.Contains(t, project, "total_scores")
	assert.Equal(t, "$id", project["class_id"])
}

func TestTeachersPerClassPipelineLookup(t *testing.T) {
	pipeline := teachersPerClassPipeline("")
	require.Equal(t, []string{"$lookup", "$project", "$sort"}, stageKeys(t, pipeline))

	lookup, ok := pipeline[0][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, collAssignments, lookup["from"])
}

func TestSubjectsPerClassPipelineAddsCount(t *testing.T) {
	pipeline := subjectsPerClassPipeline("class-1")
	assert.Equal(t, []string{"$match", "$lookup", "$project", "$addFields", "$sort"}, stageKeys(t, pipeline))
}

func TestGenericAggregatePipelineCountOnly(t *testing.T) {
	pipeline := genericAggregatePipeline(nil, nil, "", "asc", 0)
	require.Equal(t, []string{"$count"}, stageKeys(t, pipeline))
}

func TestGenericAggregatePipelineGroupSortLimit(t *testing.T) {
	filters := map[string]interface{}{"is_active": true}
	pipeline := genericAggregatePipeline(filters, []string{"grade_level"}, "", "desc", 5)
	require.Equal(t, []string{"$match", "$group", "$project", "$sort", "$limit"}, stageKeys(t, pipeline))

	group, ok := pipeline[1][0].Value.(bson.M)
	require.True(t, ok)
	groupID, ok := group["_id"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$grade_level", groupID["grade_level"])

	sortStage, ok := pipeline[3][0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, "count", sortStage[0].Key)
	assert.Equal(t, -1, sortStage[0].Value)

	assert.Equal(t, 5, pipeline[4][0].Value)
}

func TestNormalizeValue(t *testing.T) {
	doc := bson.M{
		"count":    int32(3),
		"subjects": bson.A{"physics", "music"},
		"nested":   bson.M{"inner": int32(1)},
	}
	out := normalizeDoc(doc)
	assert.Equal(t, 3, out["count"])
	assert.Equal(t, []interface{}{"physics", "music"}, out["subjects"])
	assert.Equal(t, map[string]interface{}{"inner": 1}, out["nested"])
}

func TestToDocumentPinsID(t *testing.T) {
	type sample struct {
		ID   string `bson:"id"`
		Name string `bson:"name"`
	}
	doc, err := toDocument(sample{ID: "abc", Name: "x"}, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", doc["_id"])
	assert.Equal(t, "abc", doc["id"])
}
