// Package esstore is the search-index adapter backed by Elasticsearch.
//
// The cluster has no unique constraints or foreign keys, so the adapter
// replays the other backends' integrity rules with explicit term-query
// checks before every write.
package esstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/models"
	"github.com/noah-isme/school-data-api/pkg/config"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// Store is the search-index adapter.
type Store struct {
	cfg    config.ElasticConfig
	log    *zap.Logger
	client *elasticsearch.Client

	mu      sync.Mutex
	ensured map[string]bool
}

// New returns an unconnected search-index adapter.
func New(cfg *config.Config, log *zap.Logger) *Store {
	return &Store{cfg: cfg.Elastic, log: log, ensured: map[string]bool{}}
}

// Connect builds the client and verifies the cluster responds.
func (s *Store) Connect(ctx context.Context) error {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: s.cfg.Addresses})
	if err != nil {
		return fmt.Errorf("build elasticsearch client: %w", err)
	}
	s.client = client
	if err := s.Ping(ctx); err != nil {
		return err
	}
	s.log.Info("connected to elasticsearch", zap.Strings("addresses", s.cfg.Addresses))
	return nil
}

// Disconnect releases nothing; the HTTP client holds no server state.
func (s *Store) Disconnect(_ context.Context) error {
	return nil
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("ping elasticsearch: %s", res.Status())
	}
	return nil
}

func (s *Store) indexFor(storage string) string {
	return s.cfg.IndexPrefix + "_" + storage
}

// ensureIndex creates the index with its mapping on first use.
func (s *Store) ensureIndex(ctx context.Context, storage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured[storage] {
		return nil
	}

	index := s.indexFor(storage)
	res, err := s.client.Indices.Exists([]string{index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	res.Body.Close()

	if res.StatusCode == 404 {
		mapping, ok := indexMappings[storage]
		if !ok {
			return fmt.Errorf("no mapping for storage %q", storage)
		}
		createRes, err := s.client.Indices.Create(index,
			s.client.Indices.Create.WithContext(ctx),
			s.client.Indices.Create.WithBody(strings.NewReader(mapping)))
		if err != nil {
			return fmt.Errorf("create index %s: %w", index, err)
		}
		defer createRes.Body.Close()
		if createRes.IsError() && !strings.Contains(readBody(createRes), "resource_already_exists_exception") {
			return fmt.Errorf("create index %s: %s", index, createRes.Status())
		}
	}

	s.ensured[storage] = true
	return nil
}

func readBody(res *esapi.Response) string {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return ""
	}
	return string(raw)
}

func encodeBody(body map[string]interface{}) (*bytes.Reader, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode query body: %w", err)
	}
	return bytes.NewReader(raw), nil
}

// indexDoc indexes one document with an immediate refresh so follow-up term
// queries see it.
func (s *Store) indexDoc(ctx context.Context, storage, entity, id string, doc interface{}) error {
	if err := s.ensureIndex(ctx, storage); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", entity, err)
	}
	res, err := s.client.Index(s.indexFor(storage),
		bytes.NewReader(raw),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id),
		s.client.Index.WithRefresh("true"))
	if err != nil {
		return fmt.Errorf("index %s: %w", entity, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index %s: %s", entity, res.Status())
	}
	return nil
}

func (s *Store) getDoc(ctx context.Context, storage, entity, id string, dest interface{}) error {
	if err := s.ensureIndex(ctx, storage); err != nil {
		return err
	}
	res, err := s.client.Get(s.indexFor(storage), id, s.client.Get.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("get %s: %w", entity, err)
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return appErrors.NotFound(entity)
	}
	if res.IsError() {
		return fmt.Errorf("get %s: %s", entity, res.Status())
	}
	var envelope struct {
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s: %w", entity, err)
	}
	if err := json.Unmarshal(envelope.Source, dest); err != nil {
		return fmt.Errorf("decode %s: %w", entity, err)
	}
	return nil
}

func (s *Store) deleteDoc(ctx context.Context, storage, entity, id string) error {
	if err := s.ensureIndex(ctx, storage); err != nil {
		return err
	}
	res, err := s.client.Delete(s.indexFor(storage), id,
		s.client.Delete.WithContext(ctx),
		s.client.Delete.WithRefresh("true"))
	if err != nil {
		return fmt.Errorf("delete %s: %w", entity, err)
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return appErrors.NotFound(entity)
	}
	if res.IsError() {
		return fmt.Errorf("delete %s: %s", entity, res.Status())
	}
	return nil
}

func (s *Store) search(ctx context.Context, storage string, body map[string]interface{}) (map[string]interface{}, error) {
	if err := s.ensureIndex(ctx, storage); err != nil {
		return nil, err
	}
	reader, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.indexFor(storage)),
		s.client.Search.WithBody(reader))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", storage, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", storage, res.Status())
	}
	out := map[string]interface{}{}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return out, nil
}

func (s *Store) countDocs(ctx context.Context, storage string, body map[string]interface{}) (int, error) {
	if err := s.ensureIndex(ctx, storage); err != nil {
		return 0, err
	}
	reader, err := encodeBody(body)
	if err != nil {
		return 0, err
	}
	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(s.indexFor(storage)),
		s.client.Count.WithBody(reader))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", storage, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("count %s: %s", storage, res.Status())
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return out.Count, nil
}

// requireUnique rejects the write when another document already holds the
// field value.
func (s *Store) requireUnique(ctx context.Context, storage, entity, field string, value interface{}, excludeID string) error {
	count, err := s.countDocs(ctx, storage, uniqueBody(field, value, excludeID))
	if err != nil {
		return err
	}
	if count > 0 {
		return appErrors.Conflict(nil, fmt.Sprintf("%s with %s %v already exists", entity, field, value))
	}
	return nil
}

func (s *Store) requireExists(ctx context.Context, storage, entity, id string) error {
	count, err := s.countDocs(ctx, storage, termQuery("id", id))
	if err != nil {
		return err
	}
	if count == 0 {
		return appErrors.NotFound(entity)
	}
	return nil
}

// CreatePerson indexes a person after an email uniqueness check.
func (s *Store) CreatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	if err := s.requireUnique(ctx, "persons", "person", "email", person.Email, ""); err != nil {
		return nil, err
	}
	if err := s.indexDoc(ctx, "persons", "person", person.ID, person); err != nil {
		return nil, err
	}
	return person, nil
}

// GetPerson fetches a person by id.
func (s *Store) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	var out models.Person
	if err := s.getDoc(ctx, "persons", "person", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePerson replaces a person document; missing documents are an error,
// never an upsert.
func (s *Store) UpdatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	if err := s.requireExists(ctx, "persons", "person", person.ID); err != nil {
		return nil, err
	}
	if err := s.requireUnique(ctx, "persons", "person", "email", person.Email, person.ID); err != nil {
		return nil, err
	}
	if err := s.indexDoc(ctx, "persons", "person", person.ID, person); err != nil {
		return nil, err
	}
	return person, nil
}

// DeletePerson removes a person document.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "persons", "person", id)
}

// CreateStudent indexes a student after email and code uniqueness checks.
func (s *Store) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := s.requireUnique(ctx, "students", "student", "email", student.Email, ""); err != nil {
		return nil, err
	}
	if student.StudentCode != nil {
		if err := s.requireUnique(ctx, "students", "student", "student_code", *student.StudentCode, ""); err != nil {
			return nil, err
		}
	}
	if err := s.indexDoc(ctx, "students", "student", student.ID, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudent fetches a student by id.
func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var out models.Student
	if err := s.getDoc(ctx, "students", "student", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent replaces a student document.
func (s *Store) UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := s.requireExists(ctx, "students", "student", student.ID); err != nil {
		return nil, err
	}
	if err := s.requireUnique(ctx, "students", "student", "email", student.Email, student.ID); err != nil {
		return nil, err
	}
	if student.StudentCode != nil {
		if err := s.requireUnique(ctx, "students", "student", "student_code", *student.StudentCode, student.ID); err != nil {
			return nil, err
		}
	}
	if err := s.indexDoc(ctx, "students", "student", student.ID, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes a student and its dependent documents.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	if err := s.deleteDoc(ctx, "students", "student", id); err != nil {
		return err
	}
	if err := s.deleteByTerm(ctx, "class_enrollments", "student_id", id); err != nil {
		return err
	}
	return s.deleteByTerm(ctx, "scores", "student_id", id)
}

// CreateTeacher indexes a teacher after email and code uniqueness checks.
func (s *Store) CreateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	if err := s.requireUnique(ctx, "teachers", "teacher", "email", teacher.Email, ""); err != nil {
		return nil, err
	}
	if teacher.EmployeeCode != nil {
		if err := s.requireUnique(ctx, "teachers", "teacher", "employee_code", *teacher.EmployeeCode, ""); err != nil {
			return nil, err
		}
	}
	if err := s.indexDoc(ctx, "teachers", "teacher", teacher.ID, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// GetTeacher fetches a teacher by id.
func (s *Store) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	var out models.Teacher
	if err := s.getDoc(ctx, "teachers", "teacher", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTeacher replaces a teacher document.
func (s *Store) UpdateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	if err := s.requireExists(ctx, "teachers", "teacher", teacher.ID); err != nil {
		return nil, err
	}
	if err := s.requireUnique(ctx, "teachers", "teacher", "email", teacher.Email, teacher.ID); err != nil {
		return nil, err
	}
	if teacher.EmployeeCode != nil {
		if err := s.requireUnique(ctx, "teachers", "teacher", "employee_code", *teacher.EmployeeCode, teacher.ID); err != nil {
			return nil, err
		}
	}
	if err := s.indexDoc(ctx, "teachers", "teacher", teacher.ID, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// DeleteTeacher removes a teacher and its assignments.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	if err := s.deleteDoc(ctx, "teachers", "teacher", id); err != nil {
		return err
	}
	return s.deleteByTerm(ctx, "teacher_assignments", "teacher_id", id)
}

// CreateClass indexes a class after a class code uniqueness check.
func (s *Store) CreateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	if class.ClassCode != nil {
		if err := s.requireUnique(ctx, "classes", "class", "class_code", *class.ClassCode, ""); err != nil {
			return nil, err
		}
	}
	if err := s.indexDoc(ctx, "classes", "class", class.ID, class); err != nil {
		return nil, err
	}
	return class, nil
}

// GetClass fetches a class by id.
func (s *Store) GetClass(ctx context.Context, id string) (*models.Class, error) {
	var out models.Class
	if err := s.getDoc(ctx, "classes", "class", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClass replaces a class document.
func (s *Store) UpdateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	if err := s.requireExists(ctx, "classes", "class", class.ID); err != nil {
		return nil, err
	}
	if class.ClassCode != nil {
		if err := s.requireUnique(ctx, "classes", "class", "class_code", *class.ClassCode, class.ID); err != nil {
			return nil, err
		}
	}
	if err := s.indexDoc(ctx, "classes", "class", class.ID, class); err != nil {
		return nil, err
	}
	return class, nil
}

// DeleteClass removes a class and its dependent documents.
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	if err := s.deleteDoc(ctx, "classes", "class", id); err != nil {
		return err
	}
	for _, storage := range []string{"class_enrollments", "teacher_assignments", "scores"} {
		if err := s.deleteByTerm(ctx, storage, "class_id", id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) deleteByTerm(ctx context.Context, storage, field, value string) error {
	if err := s.ensureIndex(ctx, storage); err != nil {
		return err
	}
	reader, err := encodeBody(termQuery(field, value))
	if err != nil {
		return err
	}
	res, err := s.client.DeleteByQuery([]string{s.indexFor(storage)}, reader,
		s.client.DeleteByQuery.WithContext(ctx),
		s.client.DeleteByQuery.WithRefresh(true))
	if err != nil {
		return fmt.Errorf("delete by query %s: %w", storage, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("delete by query %s: %s", storage, res.Status())
	}
	return nil
}
