package pgstore

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

func newStoreMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	store := NewWithDB(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	return store, mock, func() { db.Close() }
}

func personRows(id string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone", "date_of_birth", "address", "created_at", "updated_at",
	}).AddRow(id, "Ada", "Lovelace", "ada@school.edu", nil, nil, nil, now, now)
}

func TestCreatePerson(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectPrepare("INSERT INTO persons").
		ExpectQuery().
		WillReturnRows(personRows("per-1", now))

	person := &models.Person{
		ID:        "per-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@school.edu",
		CreatedAt: now,
		UpdatedAt: now,
	}
	out, err := store.CreatePerson(context.Background(), person)
	require.NoError(t, err)
	require.Equal(t, "per-1", out.ID)
	require.Equal(t, "ada@school.edu", out.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePersonDuplicateEmail(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectPrepare("INSERT INTO persons").
		ExpectQuery().
		WillReturnError(&pq.Error{Code: "23505", Constraint: "persons_email_key"})

	_, err := store.CreatePerson(context.Background(), &models.Person{
		ID:        "per-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@school.edu",
	})
	require.ErrorIs(t, err, appErrors.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPersonNotFound(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM persons WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetPerson(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentNotFound(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.DeleteStudent(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddStudentsToClassPartialFailure(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM classes WHERE id = \\$1").
		WithArgs("class-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectExec("INSERT INTO class_enrollments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO class_enrollments").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "class_enrollments_student_id_fkey"})

	result, err := store.AddStudentsToClass(context.Background(), "class-1", []string{"stu-1", "ghost"})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalProcessed)
	require.Equal(t, 1, result.Successful)
	require.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "ghost")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddStudentsToClassMissingClass(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM classes WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := store.AddStudentsToClass(context.Background(), "missing", []string{"stu-1"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddTeacherToClassDuplicate(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM classes WHERE id = \\$1").
		WithArgs("class-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM teachers WHERE id = \\$1").
		WithArgs("tch-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO teacher_assignments").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "teacher_assignments_teacher_id_class_id_subject_key"})

	err := store.AddTeacherToClass(context.Background(), "class-1", "tch-1", models.SubjectPhysics)
	require.ErrorIs(t, err, appErrors.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddScoresValidatesBeforeInsert(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO scores").
		WillReturnResult(sqlmock.NewResult(0, 1))

	scores := []models.Score{
		{StudentID: "stu-1", ClassID: "class-1", Subject: models.SubjectMathematics, Score: 91, AssessmentType: "exam"},
		{StudentID: "stu-2", ClassID: "class-1", Subject: models.SubjectMathematics, Score: 150, AssessmentType: "exam"},
	}
	result, err := store.AddScores(context.Background(), scores)
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalProcessed)
	require.Equal(t, 1, result.Successful)
	require.Equal(t, 1, result.Failed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentsPerClass(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"class_id", "class_name", "count"}).
		AddRow("class-1", "Grade 10A", 28).
		AddRow("class-2", "Grade 11B", 31)
	mock.ExpectQuery("SELECT c.id AS class_id, c.name AS class_name, COUNT\\(e.id\\) AS count").
		WillReturnRows(rows)

	result, err := store.StudentsPerClass(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	require.Equal(t, "Grade 10A", result.Results[0]["class_name"])
	require.Equal(t, 28, result.Results[0]["student_count"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAverageScorePerClassScoped(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"class_id", "class_name", "average_score", "total_scores"}).
		AddRow("class-1", "Grade 10A", 83.46, 56)
	mock.ExpectQuery("SELECT c.id AS class_id, c.name AS class_name").
		WithArgs("class-1").
		WillReturnRows(rows)

	result, err := store.AverageScorePerClass(context.Background(), "class-1")
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Equal(t, 83.46, result.Results[0]["average_score"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAggregateGrouped(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"grade_level", "count"}).
		AddRow(int64(10), int64(42)).
		AddRow(int64(11), int64(35))
	mock.ExpectQuery("SELECT grade_level, COUNT\\(\\*\\) AS count FROM students WHERE is_active = \\$1 GROUP BY grade_level").
		WithArgs(true).
		WillReturnRows(rows)

	query := &models.AggregateQuery{
		QueryType: "students",
		Filters:   map[string]interface{}{"is_active": true},
		GroupBy:   []string{"grade_level"},
	}
	require.NoError(t, query.Normalize())

	result, err := store.Aggregate(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	require.Equal(t, int64(42), result.Results[0]["count"])
	require.NoError(t, mock.ExpectationsWereMet())
}
