package store

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/noah-isme/school-data-api/internal/models"
)

// Store-call collectors live on the default registry; the /metrics endpoint
// gathers it alongside the router's own.
var (
	storeCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_call_duration_seconds",
		Help:    "Duration of storage backend calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation", "status"})

	storeCallTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_calls_total",
		Help: "Total number of storage backend calls",
	}, []string{"backend", "operation", "status"})
)

// WithMetrics wraps a Store so every call is timed and counted per
// operation and outcome.
func WithMetrics(st Store, backend string) Store {
	return &instrumentedStore{next: st, backend: backend}
}

type instrumentedStore struct {
	next    Store
	backend string
}

func (s *instrumentedStore) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	storeCallDuration.WithLabelValues(s.backend, operation, status).Observe(time.Since(start).Seconds())
	storeCallTotal.WithLabelValues(s.backend, operation, status).Inc()
}

func (s *instrumentedStore) Connect(ctx context.Context) error {
	start := time.Now()
	err := s.next.Connect(ctx)
	s.observe("connect", start, err)
	return err
}

func (s *instrumentedStore) Disconnect(ctx context.Context) error {
	start := time.Now()
	err := s.next.Disconnect(ctx)
	s.observe("disconnect", start, err)
	return err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

func (s *instrumentedStore) CreatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	start := time.Now()
	out, err := s.next.CreatePerson(ctx, person)
	s.observe("create_person", start, err)
	return out, err
}

func (s *instrumentedStore) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	start := time.Now()
	out, err := s.next.GetPerson(ctx, id)
	s.observe("get_person", start, err)
	return out, err
}

func (s *instrumentedStore) UpdatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	start := time.Now()
	out, err := s.next.UpdatePerson(ctx, person)
	s.observe("update_person", start, err)
	return out, err
}

func (s *instrumentedStore) DeletePerson(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.DeletePerson(ctx, id)
	s.observe("delete_person", start, err)
	return err
}

func (s *instrumentedStore) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	start := time.Now()
	out, err := s.next.CreateStudent(ctx, student)
	s.observe("create_student", start, err)
	return out, err
}

func (s *instrumentedStore) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	start := time.Now()
	out, err := s.next.GetStudent(ctx, id)
	s.observe("get_student", start, err)
	return out, err
}

func (s *instrumentedStore) UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	start := time.Now()
	out, err := s.next.UpdateStudent(ctx, student)
	s.observe("update_student", start, err)
	return out, err
}

func (s *instrumentedStore) DeleteStudent(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.DeleteStudent(ctx, id)
	s.observe("delete_student", start, err)
	return err
}

func (s *instrumentedStore) CreateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	start := time.Now()
	out, err := s.next.CreateTeacher(ctx, teacher)
	s.observe("create_teacher", start, err)
	return out, err
}

func (s *instrumentedStore) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	start := time.Now()
	out, err := s.next.GetTeacher(ctx, id)
	s.observe("get_teacher", start, err)
	return out, err
}

func (s *instrumentedStore) UpdateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	start := time.Now()
	out, err := s.next.UpdateTeacher(ctx, teacher)
	s.observe("update_teacher", start, err)
	return out, err
}

func (s *instrumentedStore) DeleteTeacher(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.DeleteTeacher(ctx, id)
	s.observe("delete_teacher", start, err)
	return err
}

func (s *instrumentedStore) CreateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	start := time.Now()
	out, err := s.next.CreateClass(ctx, class)
	s.observe("create_class", start, err)
	return out, err
}

func (s *instrumentedStore) GetClass(ctx context.Context, id string) (*models.Class, error) {
	start := time.Now()
	out, err := s.next.GetClass(ctx, id)
	s.observe("get_class", start, err)
	return out, err
}

func (s *instrumentedStore) UpdateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	start := time.Now()
	out, err := s.next.UpdateClass(ctx, class)
	s.observe("update_class", start, err)
	return out, err
}

func (s *instrumentedStore) DeleteClass(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.DeleteClass(ctx, id)
	s.observe("delete_class", start, err)
	return err
}

func (s *instrumentedStore) AddStudentsToClass(ctx context.Context, classID string, studentIDs []string) (*models.BulkResult, error) {
	start := time.Now()
	out, err := s.next.AddStudentsToClass(ctx, classID, studentIDs)
	s.observe("add_students_to_class", start, err)
	return out, err
}

func (s *instrumentedStore) AddTeacherToClass(ctx context.Context, classID, teacherID string, subject models.Subject) error {
	start := time.Now()
	err := s.next.AddTeacherToClass(ctx, classID, teacherID, subject)
	s.observe("add_teacher_to_class", start, err)
	return err
}

func (s *instrumentedStore) AddScores(ctx context.Context, scores []models.Score) (*models.BulkResult, error) {
	start := time.Now()
	out, err := s.next.AddScores(ctx, scores)
	s.observe("add_scores", start, err)
	return out, err
}

func (s *instrumentedStore) Bulk(ctx context.Context, op *models.BulkOperation) (*models.BulkResult, error) {
	start := time.Now()
	out, err := s.next.Bulk(ctx, op)
	s.observe("bulk", start, err)
	return out, err
}

func (s *instrumentedStore) Aggregate(ctx context.Context, query *models.AggregateQuery) (*models.AggregateResult, error) {
	start := time.Now()
	out, err := s.next.Aggregate(ctx, query)
	s.observe("aggregate", start, err)
	return out, err
}

func (s *instrumentedStore) StudentsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	start := time.Now()
	out, err := s.next.StudentsPerClass(ctx, classID)
	s.observe("students_per_class", start, err)
	return out, err
}

func (s *instrumentedStore) AverageScorePerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	start := time.Now()
	out, err := s.next.AverageScorePerClass(ctx, classID)
	s.observe("average_score_per_class", start, err)
	return out, err
}

func (s *instrumentedStore) TeachersPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	start := time.Now()
	out, err := s.next.TeachersPerClass(ctx, classID)
	s.observe("teachers_per_class", start, err)
	return out, err
}

func (s *instrumentedStore) SubjectsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	start := time.Now()
	out, err := s.next.SubjectsPerClass(ctx, classID)
	s.observe("subjects_per_class", start, err)
	return out, err
}
