package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPersonNormalize(t *testing.T) {
	p := &Person{FirstName: "Ana", LastName: "Souza", Email: "  Ana@Example.COM "}
	require.NoError(t, p.Normalize())
	assert.Equal(t, "ana@example.com", p.Email)

	p = &Person{FirstName: "Ana", LastName: "Souza", Email: "nope"}
	require.Error(t, p.Normalize())

	p = &Person{FirstName: "", LastName: "Souza", Email: "a@b.c"}
	require.Error(t, p.Normalize())
}

func TestPersonStampPreservesExistingID(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &Person{ID: "keep", CreatedAt: now.Add(-time.Hour)}
	p.Stamp("replace", now)
	assert.Equal(t, "keep", p.ID)
	assert.Equal(t, now.Add(-time.Hour), p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestStudentNormalizeGradeBounds(t *testing.T) {
	s := &Student{Person: Person{FirstName: "Bia", LastName: "Melo", Email: "bia@x.io"}}
	s.GradeLevel = intPtr(13)
	require.Error(t, s.Normalize())

	s.GradeLevel = intPtr(7)
	require.NoError(t, s.Normalize())
}

func TestStudentStampDefaultsEnrollmentDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Student{}
	s.Stamp("s-1", now)
	assert.Equal(t, now, s.EnrollmentDate)
}

func TestTeacherNormalizeRejectsUnknownSubject(t *testing.T) {
	tr := &Teacher{Person: Person{FirstName: "Caio", LastName: "Dias", Email: "caio@x.io"}}
	tr.Subjects = SubjectList{SubjectPhysics, "alchemy"}
	require.Error(t, tr.Normalize())

	tr.Subjects = SubjectList{SubjectPhysics, SubjectChemistry}
	require.NoError(t, tr.Normalize())
}

func TestClassNormalizeDefaultsGatheringType(t *testing.T) {
	c := &Class{Gathering: Gathering{Name: "9A"}, AcademicYear: "2026"}
	require.NoError(t, c.Normalize())
	assert.Equal(t, GatheringClass, c.GatheringType)

	c.GatheringType = "party"
	require.Error(t, c.Normalize())

	c = &Class{Gathering: Gathering{Name: "9A", Capacity: intPtr(0)}, AcademicYear: "2026"}
	require.Error(t, c.Normalize())

	c = &Class{Gathering: Gathering{Name: "9A"}}
	require.Error(t, c.Normalize())
}

func TestScoreNormalize(t *testing.T) {
	sc := &Score{StudentID: "s", ClassID: "c", Subject: SubjectBiology, Score: 88, AssessmentType: "exam"}
	require.NoError(t, sc.Normalize())
	assert.Equal(t, float64(100), sc.MaxScore)

	sc = &Score{StudentID: "s", ClassID: "c", Subject: SubjectBiology, Score: 101, AssessmentType: "exam"}
	require.Error(t, sc.Normalize())

	sc = &Score{StudentID: "s", ClassID: "c", Subject: "alchemy", Score: 50, AssessmentType: "exam"}
	require.Error(t, sc.Normalize())

	sc = &Score{StudentID: "s", ClassID: "c", Subject: SubjectBiology, Score: 50}
	require.Error(t, sc.Normalize())
}

func TestSubjectListValueScan(t *testing.T) {
	list := SubjectList{SubjectMathematics, SubjectArt}
	v, err := list.Value()
	require.NoError(t, err)

	var scanned SubjectList
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, list, scanned)
}

func TestScheduleMapValueScan(t *testing.T) {
	m := ScheduleMap{"monday": []interface{}{"08:00-09:00"}}
	v, err := m.Value()
	require.NoError(t, err)

	var scanned ScheduleMap
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, m, scanned)

	var nilMap ScheduleMap
	v, err = nilMap.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}

func TestBulkOperationNormalize(t *testing.T) {
	op := &BulkOperation{OperationType: BulkCreate, EntityType: KindStudent, Data: []map[string]interface{}{{}}}
	require.NoError(t, op.Normalize())
	assert.Equal(t, DefaultBatchSize, op.BatchSize)

	op = &BulkOperation{OperationType: "merge", EntityType: KindStudent, Data: []map[string]interface{}{{}}}
	require.Error(t, op.Normalize())

	op = &BulkOperation{OperationType: BulkDelete, EntityType: "invoice", Data: []map[string]interface{}{{}}}
	require.Error(t, op.Normalize())

	op = &BulkOperation{OperationType: BulkDelete, EntityType: KindClass}
	require.Error(t, op.Normalize())

	op = &BulkOperation{OperationType: BulkCreate, EntityType: KindClass, Data: []map[string]interface{}{{}}, BatchSize: 5000}
	require.Error(t, op.Normalize())
}

func TestBulkOperationBatches(t *testing.T) {
	data := make([]map[string]interface{}, 5)
	for i := range data {
		data[i] = map[string]interface{}{"n": i}
	}
	op := &BulkOperation{Data: data, BatchSize: 2}
	batches := op.Batches()
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[2], 1)
}

func TestAggregateQueryNormalize(t *testing.T) {
	q := &AggregateQuery{QueryType: "students", GroupBy: []string{"grade_level"}}
	require.NoError(t, q.Normalize())
	assert.Equal(t, "asc", q.SortOrder)
	assert.Equal(t, "students", q.Storage())

	q = &AggregateQuery{QueryType: "students", GroupBy: []string{"password"}}
	require.Error(t, q.Normalize())

	q = &AggregateQuery{QueryType: "students", Filters: map[string]interface{}{"ssn": "x"}}
	require.Error(t, q.Normalize())

	q = &AggregateQuery{QueryType: "ledger"}
	require.Error(t, q.Normalize())

	q = &AggregateQuery{QueryType: "scores", SortBy: "count", SortOrder: "desc"}
	require.NoError(t, q.Normalize())

	q = &AggregateQuery{QueryType: "scores", SortOrder: "sideways"}
	require.Error(t, q.Normalize())

	q = &AggregateQuery{QueryType: "enrollments", Limit: -1}
	require.Error(t, q.Normalize())
}

func TestEntityKindStorageName(t *testing.T) {
	name, err := KindTeacher.StorageName()
	require.NoError(t, err)
	assert.Equal(t, "teachers", name)

	_, err = EntityKind("invoice").StorageName()
	require.Error(t, err)
	assert.False(t, EntityKind("invoice").Valid())
}

func TestDecodeItem(t *testing.T) {
	item := map[string]interface{}{"first_name": "Eva", "grade_level": 8}
	var s Student
	require.NoError(t, DecodeItem(item, &s))
	assert.Equal(t, "Eva", s.FirstName)
	require.NotNil(t, s.GradeLevel)
	assert.Equal(t, 8, *s.GradeLevel)
}

func TestItemID(t *testing.T) {
	id, err := ItemID(map[string]interface{}{"id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = ItemID(map[string]interface{}{})
	require.Error(t, err)

	_, err = ItemID(map[string]interface{}{"id": 7})
	require.Error(t, err)
}

func TestNewClassEnrollmentDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewClassEnrollment("e-1", "s-1", "c-1", now)
	assert.True(t, e.IsActive)
	assert.Equal(t, now, e.EnrollmentDate)

	a := NewTeacherAssignment("a-1", "t-1", "c-1", SubjectMusic, now)
	assert.True(t, a.IsActive)
	assert.Equal(t, SubjectMusic, a.Subject)
}
