package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// fakeStore is an in-memory backend for exercising the service layer.
type fakeStore struct {
	persons  map[string]*models.Person
	students map[string]*models.Student
	teachers map[string]*models.Teacher
	classes  map[string]*models.Class

	enrollCalls    int
	lastAggQuery   *models.AggregateQuery
	breakdownCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		persons:  map[string]*models.Person{},
		students: map[string]*models.Student{},
		teachers: map[string]*models.Teacher{},
		classes:  map[string]*models.Class{},
	}
}

func (f *fakeStore) Connect(context.Context) error    { return nil }
func (f *fakeStore) Disconnect(context.Context) error { return nil }
func (f *fakeStore) Ping(context.Context) error       { return nil }

func (f *fakeStore) CreatePerson(_ context.Context, p *models.Person) (*models.Person, error) {
	for _, existing := range f.persons {
		if existing.Email == p.Email {
			return nil, appErrors.Conflict(nil, "email already used")
		}
	}
	f.persons[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetPerson(_ context.Context, id string) (*models.Person, error) {
	p, ok := f.persons[id]
	if !ok {
		return nil, appErrors.NotFound("person")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdatePerson(_ context.Context, p *models.Person) (*models.Person, error) {
	if _, ok := f.persons[p.ID]; !ok {
		return nil, appErrors.NotFound("person")
	}
	f.persons[p.ID] = p
	return p, nil
}

func (f *fakeStore) DeletePerson(_ context.Context, id string) error {
	if _, ok := f.persons[id]; !ok {
		return appErrors.NotFound("person")
	}
	delete(f.persons, id)
	return nil
}

func (f *fakeStore) CreateStudent(_ context.Context, s *models.Student) (*models.Student, error) {
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetStudent(_ context.Context, id string) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, appErrors.NotFound("student")
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) UpdateStudent(_ context.Context, s *models.Student) (*models.Student, error) {
	if _, ok := f.students[s.ID]; !ok {
		return nil, appErrors.NotFound("student")
	}
	f.students[s.ID] = s
	return s, nil
}

func (f *fakeStore) DeleteStudent(_ context.Context, id string) error {
	if _, ok := f.students[id]; !ok {
		return appErrors.NotFound("student")
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStore) CreateTeacher(_ context.Context, t *models.Teacher) (*models.Teacher, error) {
	f.teachers[t.ID] = t
	return t, nil
}

func (f *fakeStore) GetTeacher(_ context.Context, id string) (*models.Teacher, error) {
	t, ok := f.teachers[id]
	if !ok {
		return nil, appErrors.NotFound("teacher")
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) UpdateTeacher(_ context.Context, t *models.Teacher) (*models.Teacher, error) {
	if _, ok := f.teachers[t.ID]; !ok {
		return nil, appErrors.NotFound("teacher")
	}
	f.teachers[t.ID] = t
	return t, nil
}

func (f *fakeStore) DeleteTeacher(_ context.Context, id string) error {
	if _, ok := f.teachers[id]; !ok {
		return appErrors.NotFound("teacher")
	}
	delete(f.teachers, id)
	return nil
}

func (f *fakeStore) CreateClass(_ context.Context, c *models.Class) (*models.Class, error) {
	f.classes[c.ID] = c
	return c, nil
}

func (f *fakeStore) GetClass(_ context.Context, id string) (*models.Class, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, appErrors.NotFound("class")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) UpdateClass(_ context.Context, c *models.Class) (*models.Class, error) {
	if _, ok := f.classes[c.ID]; !ok {
		return nil, appErrors.NotFound("class")
	}
	f.classes[c.ID] = c
	return c, nil
}

func (f *fakeStore) DeleteClass(_ context.Context, id string) error {
	if _, ok := f.classes[id]; !ok {
		return appErrors.NotFound("class")
	}
	delete(f.classes, id)
	return nil
}

func (f *fakeStore) AddStudentsToClass(_ context.Context, classID string, studentIDs []string) (*models.BulkResult, error) {
	if _, ok := f.classes[classID]; !ok {
		return nil, appErrors.NotFound("class")
	}
	f.enrollCalls++
	result := &models.BulkResult{}
	for _, id := range studentIDs {
		if _, ok := f.students[id]; !ok {
			result.Add(appErrors.NotFound("student"))
			continue
		}
		result.Add(nil)
	}
	return result, nil
}

func (f *fakeStore) AddTeacherToClass(_ context.Context, classID, teacherID string, _ models.Subject) error {
	if _, ok := f.classes[classID]; !ok {
		return appErrors.NotFound("class")
	}
	if _, ok := f.teachers[teacherID]; !ok {
		return appErrors.NotFound("teacher")
	}
	return nil
}

func (f *fakeStore) AddScores(_ context.Context, scores []models.Score) (*models.BulkResult, error) {
	result := &models.BulkResult{}
	for i := range scores {
		score := scores[i]
		result.Add(score.Normalize())
	}
	return result, nil
}

func (f *fakeStore) Bulk(_ context.Context, op *models.BulkOperation) (*models.BulkResult, error) {
	result := &models.BulkResult{}
	for range op.Data {
		result.Add(nil)
	}
	return result, nil
}

func (f *fakeStore) Aggregate(_ context.Context, query *models.AggregateQuery) (*models.AggregateResult, error) {
	f.lastAggQuery = query
	return &models.AggregateResult{Results: []map[string]interface{}{{"count": 3}}, Count: 1}, nil
}

func (f *fakeStore) breakdownResult() (*models.AggregateResult, error) {
	f.breakdownCalls++
	return &models.AggregateResult{
		Results: []map[string]interface{}{{"class_id": "class-1", "class_name": "Grade 10A"}},
		Count:   1,
	}, nil
}

func (f *fakeStore) StudentsPerClass(context.Context, string) (*models.AggregateResult, error) {
	return f.breakdownResult()
}

func (f *fakeStore) AverageScorePerClass(context.Context, string) (*models.AggregateResult, error) {
	return f.breakdownResult()
}

func (f *fakeStore) TeachersPerClass(context.Context, string) (*models.AggregateResult, error) {
	return f.breakdownResult()
}

func (f *fakeStore) SubjectsPerClass(context.Context, string) (*models.AggregateResult, error) {
	return f.breakdownResult()
}

func newTestService(store *fakeStore) *DataService {
	svc := New(store, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	counter := 0
	svc.newID = func() string {
		counter++
		return "id-" + string(rune('0'+counter))
	}
	return svc
}

func TestCreatePersonNormalizesEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	person, err := svc.CreatePerson(context.Background(), CreatePersonRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@School.EDU",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@school.edu", person.Email)
	assert.NotEmpty(t, person.ID)
	assert.False(t, person.CreatedAt.IsZero())
}

func TestCreatePersonRejectsBadEmail(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.CreatePerson(context.Background(), CreatePersonRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "not-an-email",
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUpdatePersonMergesPartialFields(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	created, err := svc.CreatePerson(context.Background(), CreatePersonRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@school.edu",
	})
	require.NoError(t, err)

	newLast := "Byron"
	updated, err := svc.UpdatePerson(context.Background(), created.ID, UpdatePersonRequest{
		LastName: &newLast,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Byron", updated.LastName)
	assert.Equal(t, "ada@school.edu", updated.Email)
}

func TestUpdatePersonNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())
	name := "Grace"
	_, err := svc.UpdatePerson(context.Background(), "ghost", UpdatePersonRequest{FirstName: &name})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestCreateStudentDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	grade := 10
	student, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		FirstName:  "Alan",
		LastName:   "Turing",
		Email:      "alan@school.edu",
		GradeLevel: &grade,
	})
	require.NoError(t, err)
	assert.True(t, student.IsActive)
	assert.False(t, student.EnrollmentDate.IsZero())
}

func TestCreateStudentGradeOutOfRange(t *testing.T) {
	svc := newTestService(newFakeStore())
	grade := 13
	_, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		FirstName:  "Alan",
		LastName:   "Turing",
		Email:      "alan@school.edu",
		GradeLevel: &grade,
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestCreateTeacherRejectsUnknownSubject(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.CreateTeacher(context.Background(), CreateTeacherRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@school.edu",
		Subjects:  models.SubjectList{"alchemy"},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestCreateClassDefaultsGatheringType(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	class, err := svc.CreateClass(context.Background(), CreateClassRequest{
		Name:         "Grade 10A",
		AcademicYear: "2026-2027",
	})
	require.NoError(t, err)
	assert.Equal(t, models.GatheringClass, class.GatheringType)
}

func TestEnrollStudentsPartialFailure(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	class, err := svc.CreateClass(context.Background(), CreateClassRequest{
		Name:         "Grade 10A",
		AcademicYear: "2026-2027",
	})
	require.NoError(t, err)

	student, err := svc.CreateStudent(context.Background(), CreateStudentRequest{
		FirstName: "Alan",
		LastName:  "Turing",
		Email:     "alan@school.edu",
	})
	require.NoError(t, err)

	result, err := svc.EnrollStudents(context.Background(), class.ID, EnrollStudentsRequest{
		StudentIDs: []string{student.ID, "ghost"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
}

func TestAssignTeacherUnknownSubject(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	err := svc.AssignTeacher(context.Background(), "class-1", AssignTeacherRequest{
		TeacherID: "tch-1",
		Subject:   "alchemy",
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAddScoresValidation(t *testing.T) {
	svc := newTestService(newFakeStore())

	result, err := svc.AddScores(context.Background(), AddScoresRequest{
		Scores: []ScoreRequest{
			{StudentID: "stu-1", ClassID: "class-1", Subject: "mathematics", Score: 88, AssessmentType: "exam"},
			{StudentID: "stu-2", ClassID: "class-1", Subject: "alchemy", Score: 70, AssessmentType: "exam"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
}

func TestBulkRejectsUnknownEntity(t *testing.T) {
	svc := newTestService(newFakeStore())
	_, err := svc.Bulk(context.Background(), BulkRequest{
		OperationType: "create",
		EntityType:    "spaceship",
		Data:          []map[string]interface{}{{"a": 1}},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAggregateWhitelistsFields(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Aggregate(context.Background(), AggregateRequest{
		QueryType: "students",
		Filters:   map[string]interface{}{"password": "x"},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	result, err := svc.Aggregate(context.Background(), AggregateRequest{
		QueryType: "students",
		Filters:   map[string]interface{}{"is_active": true},
		GroupBy:   []string{"grade_level"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	require.NotNil(t, store.lastAggQuery)
	assert.Equal(t, "asc", store.lastAggQuery.SortOrder)
}

func TestBreakdownDispatch(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	for _, name := range []string{BreakdownStudents, BreakdownScores, BreakdownTeachers, BreakdownSubjects} {
		result, err := svc.Breakdown(context.Background(), name, "")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
	}
	assert.Equal(t, 4, store.breakdownCalls)

	_, err := svc.Breakdown(context.Background(), "nonsense", "")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
