package store

import (
	"context"

	"github.com/noah-isme/school-data-api/internal/models"
)

// Store is the uniform contract every backend adapter satisfies. Callers pick
// an implementation through New and never touch driver types directly.
//
// Single-entity reads return ErrNotFound from pkg/errors when no record
// matches; writes that violate a uniqueness rule return ErrConflict. Bulk and
// score ingestion never fail wholesale on per-item errors: the BulkResult
// carries the per-item breakdown.
type Store interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	CreatePerson(ctx context.Context, person *models.Person) (*models.Person, error)
	GetPerson(ctx context.Context, id string) (*models.Person, error)
	UpdatePerson(ctx context.Context, person *models.Person) (*models.Person, error)
	DeletePerson(ctx context.Context, id string) error

	CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error

	CreateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	GetTeacher(ctx context.Context, id string) (*models.Teacher, error)
	UpdateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error

	CreateClass(ctx context.Context, class *models.Class) (*models.Class, error)
	GetClass(ctx context.Context, id string) (*models.Class, error)
	UpdateClass(ctx context.Context, class *models.Class) (*models.Class, error)
	DeleteClass(ctx context.Context, id string) error

	AddStudentsToClass(ctx context.Context, classID string, studentIDs []string) (*models.BulkResult, error)
	AddTeacherToClass(ctx context.Context, classID, teacherID string, subject models.Subject) error
	AddScores(ctx context.Context, scores []models.Score) (*models.BulkResult, error)

	Bulk(ctx context.Context, op *models.BulkOperation) (*models.BulkResult, error)

	Aggregate(ctx context.Context, query *models.AggregateQuery) (*models.AggregateResult, error)
	StudentsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error)
	AverageScorePerClass(ctx context.Context, classID string) (*models.AggregateResult, error)
	TeachersPerClass(ctx context.Context, classID string) (*models.AggregateResult, error)
	SubjectsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error)
}
