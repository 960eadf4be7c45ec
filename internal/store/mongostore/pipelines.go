package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Pipeline builders are pure functions so the aggregation shapes can be
// asserted without a server.

func classScopeStage(classID string) mongo.Pipeline {
	if classID == "" {
		return mongo.Pipeline{}
	}
	return mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{"id": classID}}}}
}

// studentsPerClassPipeline joins active enrollments onto classes and counts
// them per class.
func studentsPerClassPipeline(classID string) mongo.Pipeline {
	pipeline := classScopeStage(classID)
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collEnrollments,
			"localField":   "id",
			"foreignField": "class_id",
			"as":           "enrollments",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":        0,
			"class_id":   "$id",
			"class_name": "$name",
			"student_count": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$enrollments",
				"as":    "e",
				"cond":  "$$e.is_active",
			}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"class_name": 1}}},
	)
	return pipeline
}

// averageScorePerClassPipeline joins scores onto classes and averages them.
func averageScorePerClassPipeline(classID string) mongo.Pipeline {
	pipeline := classScopeStage(classID)
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collScores,
			"localField":   "id",
			"foreignField": "class_id",
			"as":           "scores",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":        0,
			"class_id":   "$id",
			"class_name": "$name",
			"average_score": bson.M{"$round": bson.A{
				bson.M{"$ifNull": bson.A{bson.M{"$avg": "$scores.score"}, 0}}, 2,
			}},
			"total_scores": bson.M{"$size": "$scores"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"class_name": 1}}},
	)
	return pipeline
}

// teachersPerClassPipeline counts distinct actively assigned teachers.
func teachersPerClassPipeline(classID string) mongo.Pipeline {
	pipeline := classScopeStage(classID)
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collAssignments,
			"localField":   "id",
			"foreignField": "class_id",
			"as":           "assignments",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":        0,
			"class_id":   "$id",
			"class_name": "$name",
			"teacher_count": bson.M{"$size": bson.M{"$setUnion": bson.A{
				bson.M{"$map": bson.M{
					"input": bson.M{"$filter": bson.M{
						"input": "$assignments",
						"as":    "a",
						"cond":  "$$a.is_active",
					}},
					"as": "a",
					"in": "$$a.teacher_id",
				}},
				bson.A{},
			}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"class_name": 1}}},
	)
	return pipeline
}

// subjectsPerClassPipeline collects the distinct subjects taught per class.
func subjectsPerClassPipeline(classID string) mongo.Pipeline {
	pipeline := classScopeStage(classID)
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         collAssignments,
			"localField":   "id",
			"foreignField": "class_id",
			"as":           "assignments",
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":        0,
			"class_id":   "$id",
			"class_name": "$name",
			"subjects": bson.M{"$setUnion": bson.A{
				bson.M{"$map": bson.M{
					"input": bson.M{"$filter": bson.M{
						"input": "$assignments",
						"as":    "a",
						"cond":  "$$a.is_active",
					}},
					"as": "a",
					"in": "$$a.subject",
				}},
				bson.A{},
			}},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"subject_count": bson.M{"$size": "$subjects"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"class_name": 1}}},
	)
	return pipeline
}

// genericAggregatePipeline groups documents by whitelisted fields and counts
// group members. With no grouping it reduces to a total count.
func genericAggregatePipeline(filters map[string]interface{}, groupBy []string, sortBy, sortOrder string, limit int) mongo.Pipeline {
	pipeline := mongo.Pipeline{}

	if len(filters) > 0 {
		match := bson.M{}
		for field, value := range filters {
			match[field] = value
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	if len(groupBy) == 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$count", Value: "count"}},
		)
		return pipeline
	}

	groupID := bson.M{}
	for _, field := range groupBy {
		groupID[field] = "$" + field
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":   groupID,
		"count": bson.M{"$sum": 1},
	}}})

	project := bson.M{"_id": 0, "count": 1}
	for _, field := range groupBy {
		project[field] = "$_id." + field
	}
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: project}})

	if sortBy == "" {
		sortBy = "count"
	}
	order := 1
	if sortOrder == "desc" {
		order = -1
	}
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: sortBy, Value: order}}}})

	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	return pipeline
}
