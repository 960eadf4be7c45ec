// Package mongostore is the document-store adapter backed by MongoDB.
//
// Documents carry the entity UUID both as the driver's _id and as the id
// field the rest of the system addresses, so lookups never touch ObjectIDs.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/models"
	"github.com/noah-isme/school-data-api/pkg/config"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// Collection names shared with the other adapters' storage naming.
const (
	collPersons     = "persons"
	collStudents    = "students"
	collTeachers    = "teachers"
	collClasses     = "classes"
	collEnrollments = "class_enrollments"
	collAssignments = "teacher_assignments"
	collScores      = "scores"
)

// Store is the document-store adapter.
type Store struct {
	cfg    config.MongoConfig
	log    *zap.Logger
	client *mongo.Client
	db     *mongo.Database
}

// New returns an unconnected document-store adapter.
func New(cfg *config.Config, log *zap.Logger) *Store {
	return &Store{cfg: cfg.Mongo, log: log}
}

// Connect dials the server and ensures the collection indexes.
func (s *Store) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.cfg.URI))
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("ping mongodb: %w", err)
	}

	s.client = client
	s.db = client.Database(s.cfg.Database)

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	s.log.Info("connected to mongodb", zap.String("database", s.cfg.Database))
	return nil
}

// Disconnect closes the client. Safe to call repeatedly.
func (s *Store) Disconnect(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	client := s.client
	s.client = nil
	s.db = nil
	if err := client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// ensureIndexes replicates the uniqueness rules the relational schema gets
// from its constraints.
func (s *Store) ensureIndexes(ctx context.Context) error {
	activeOnly := options.Index().SetPartialFilterExpression(bson.M{"is_active": true})

	byCollection := map[string][]mongo.IndexModel{
		collPersons: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collStudents: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "student_code", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		collTeachers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "employee_code", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		collClasses: {
			{Keys: bson.D{{Key: "class_code", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		collEnrollments: {
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "class_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"is_active": true})},
			{Keys: bson.D{{Key: "class_id", Value: 1}}, Options: activeOnly},
		},
		collAssignments: {
			{Keys: bson.D{{Key: "teacher_id", Value: 1}, {Key: "class_id", Value: 1}, {Key: "subject", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"is_active": true})},
		},
		collScores: {
			{Keys: bson.D{{Key: "class_id", Value: 1}}},
			{Keys: bson.D{{Key: "student_id", Value: 1}}},
		},
	}

	for name, indexes := range byCollection {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}

// toDocument marshals an entity and pins its UUID as the document _id.
func toDocument(entity interface{}, id string) (bson.M, error) {
	raw, err := bson.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc["_id"] = id
	return doc, nil
}

func mapMongoErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return appErrors.NotFound(entity)
	}
	if mongo.IsDuplicateKeyError(err) {
		return appErrors.Conflict(err, fmt.Sprintf("%s violates a uniqueness constraint", entity))
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func (s *Store) insertOne(ctx context.Context, coll, entity string, model interface{}, id string) error {
	doc, err := toDocument(model, id)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		return mapMongoErr(err, entity)
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, coll, entity, id string, dest interface{}) error {
	err := s.db.Collection(coll).FindOne(ctx, bson.M{"id": id}).Decode(dest)
	return mapMongoErr(err, entity)
}

func (s *Store) replaceOne(ctx context.Context, coll, entity string, model interface{}, id string) error {
	doc, err := toDocument(model, id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(coll).ReplaceOne(ctx, bson.M{"id": id}, doc)
	if err != nil {
		return mapMongoErr(err, entity)
	}
	if res.MatchedCount == 0 {
		return appErrors.NotFound(entity)
	}
	return nil
}

func (s *Store) deleteOne(ctx context.Context, coll, entity, id string) error {
	res, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return mapMongoErr(err, entity)
	}
	if res.DeletedCount == 0 {
		return appErrors.NotFound(entity)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, coll, entity, id string) error {
	count, err := s.db.Collection(coll).CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return mapMongoErr(err, entity)
	}
	if count == 0 {
		return appErrors.NotFound(entity)
	}
	return nil
}

// CreatePerson inserts a person document.
func (s *Store) CreatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	if err := s.insertOne(ctx, collPersons, "person", person, person.ID); err != nil {
		return nil, err
	}
	return person, nil
}

// GetPerson fetches a person by id.
func (s *Store) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	var out models.Person
	if err := s.findOne(ctx, collPersons, "person", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePerson replaces a person document.
func (s *Store) UpdatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	if err := s.replaceOne(ctx, collPersons, "person", person, person.ID); err != nil {
		return nil, err
	}
	return person, nil
}

// DeletePerson removes a person document.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	return s.deleteOne(ctx, collPersons, "person", id)
}

// CreateStudent inserts a student document.
func (s *Store) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := s.insertOne(ctx, collStudents, "student", student, student.ID); err != nil {
		return nil, err
	}
	return student, nil
}

// GetStudent fetches a student by id.
func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var out models.Student
	if err := s.findOne(ctx, collStudents, "student", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent replaces a student document.
func (s *Store) UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := s.replaceOne(ctx, collStudents, "student", student, student.ID); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes a student document together with its enrollments and
// scores, mirroring the relational cascade.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	if err := s.deleteOne(ctx, collStudents, "student", id); err != nil {
		return err
	}
	if _, err := s.db.Collection(collEnrollments).DeleteMany(ctx, bson.M{"student_id": id}); err != nil {
		return mapMongoErr(err, "enrollment")
	}
	if _, err := s.db.Collection(collScores).DeleteMany(ctx, bson.M{"student_id": id}); err != nil {
		return mapMongoErr(err, "score")
	}
	return nil
}

// CreateTeacher inserts a teacher document.
func (s *Store) CreateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	if err := s.insertOne(ctx, collTeachers, "teacher", teacher, teacher.ID); err != nil {
		return nil, err
	}
	return teacher, nil
}

// GetTeacher fetches a teacher by id.
func (s *Store) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	var out models.Teacher
	if err := s.findOne(ctx, collTeachers, "teacher", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTeacher replaces a teacher document.
func (s *Store) UpdateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	if err := s.replaceOne(ctx, collTeachers, "teacher", teacher, teacher.ID); err != nil {
		return nil, err
	}
	return teacher, nil
}

// DeleteTeacher removes a teacher document and its assignments.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	if err := s.deleteOne(ctx, collTeachers, "teacher", id); err != nil {
		return err
	}
	if _, err := s.db.Collection(collAssignments).DeleteMany(ctx, bson.M{"teacher_id": id}); err != nil {
		return mapMongoErr(err, "teacher assignment")
	}
	return nil
}

// CreateClass inserts a class document.
func (s *Store) CreateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	if err := s.insertOne(ctx, collClasses, "class", class, class.ID); err != nil {
		return nil, err
	}
	return class, nil
}

// GetClass fetches a class by id.
func (s *Store) GetClass(ctx context.Context, id string) (*models.Class, error) {
	var out models.Class
	if err := s.findOne(ctx, collClasses, "class", id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClass replaces a class document.
func (s *Store) UpdateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	if err := s.replaceOne(ctx, collClasses, "class", class, class.ID); err != nil {
		return nil, err
	}
	return class, nil
}

// DeleteClass removes a class document and its enrollments, assignments and
// scores.
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	if err := s.deleteOne(ctx, collClasses, "class", id); err != nil {
		return err
	}
	for _, coll := range []string{collEnrollments, collAssignments, collScores} {
		if _, err := s.db.Collection(coll).DeleteMany(ctx, bson.M{"class_id": id}); err != nil {
			return mapMongoErr(err, coll)
		}
	}
	return nil
}
