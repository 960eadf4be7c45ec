package memstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-data-api/internal/models"
)

func seedClassWithStudents(t *testing.T, s *Store, classID, name string, students int) {
	t.Helper()
	ctx := context.Background()

	_, err := s.CreateClass(ctx, &models.Class{
		Gathering:    models.Gathering{ID: classID, Name: name, GatheringType: models.GatheringClass},
		AcademicYear: "2026",
	})
	require.NoError(t, err)

	ids := make([]string, 0, students)
	for i := 0; i < students; i++ {
		id := fmt.Sprintf("%s-s%d", classID, i)
		_, err := s.CreateStudent(ctx, &models.Student{
			Person: models.Person{
				ID:        id,
				FirstName: "Stu",
				LastName:  "Dent",
				Email:     fmt.Sprintf("%s@example.com", id),
			},
			IsActive: true,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	result, err := s.AddStudentsToClass(ctx, classID, ids)
	require.NoError(t, err)
	require.Equal(t, students, result.Successful)
}

func TestAggregateSortsCountNumerically(t *testing.T) {
	s := New()
	seedClassWithStudents(t, s, "class-big", "Big", 10)
	seedClassWithStudents(t, s, "class-small", "Small", 9)

	query := &models.AggregateQuery{
		QueryType: "enrollments",
		GroupBy:   []string{"class_id"},
		SortBy:    "count",
		SortOrder: "desc",
	}
	require.NoError(t, query.Normalize())

	result, err := s.Aggregate(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	// 10 must rank above 9; a lexicographic comparison would invert them.
	assert.Equal(t, "class-big", result.Results[0]["class_id"])
	assert.Equal(t, 10, result.Results[0]["count"])
	assert.Equal(t, "class-small", result.Results[1]["class_id"])
	assert.Equal(t, 9, result.Results[1]["count"])
}
