package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/models"
	"github.com/noah-isme/school-data-api/pkg/config"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// pq error classes mapped to domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// Store is the relational adapter backed by PostgreSQL through sqlx.
type Store struct {
	cfg config.DatabaseConfig
	log *zap.Logger
	db  *sqlx.DB
}

// New returns an unconnected relational adapter.
func New(cfg *config.Config, log *zap.Logger) *Store {
	return &Store{cfg: cfg.Database, log: log}
}

// NewWithDB wraps an existing connection, bypassing Connect.
func NewWithDB(db *sqlx.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// Connect opens the pool and applies the schema.
func (s *Store) Connect(ctx context.Context) error {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.cfg.Host,
		s.cfg.Port,
		s.cfg.User,
		s.cfg.Password,
		s.cfg.Name,
		s.cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}

	if s.cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	}
	if s.cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	s.db = db
	s.log.Info("connected to postgres", zap.String("database", s.cfg.Name))
	return nil
}

// Disconnect closes the pool.
func (s *Store) Disconnect(_ context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mapError converts driver errors into the domain error vocabulary.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.NotFound(entity)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return appErrors.Conflict(err, fmt.Sprintf("%s violates a uniqueness constraint", entity))
		case pqForeignKeyViolation:
			return appErrors.Validation(fmt.Errorf("%s references a record that does not exist", entity))
		case pqCheckViolation:
			return appErrors.Validation(fmt.Errorf("%s violates constraint %s", entity, pqErr.Constraint))
		}
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func getNamed(ctx context.Context, db *sqlx.DB, dest interface{}, query string, arg interface{}) error {
	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	return stmt.GetContext(ctx, dest, arg)
}

const personColumns = `id, first_name, last_name, email, phone, date_of_birth, address, created_at, updated_at`

// CreatePerson inserts a person row.
func (s *Store) CreatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	const query = `INSERT INTO persons (id, first_name, last_name, email, phone, date_of_birth, address, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :email, :phone, :date_of_birth, :address, :created_at, :updated_at)
		RETURNING ` + personColumns
	var out models.Person
	if err := getNamed(ctx, s.db, &out, query, person); err != nil {
		return nil, mapError(err, "person")
	}
	return &out, nil
}

// GetPerson fetches a person by id.
func (s *Store) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	const query = `SELECT ` + personColumns + ` FROM persons WHERE id = $1 LIMIT 1`
	var out models.Person
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, mapError(err, "person")
	}
	return &out, nil
}

// UpdatePerson replaces a person row.
func (s *Store) UpdatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	const query = `UPDATE persons
		SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
		    date_of_birth = :date_of_birth, address = :address, updated_at = :updated_at
		WHERE id = :id
		RETURNING ` + personColumns
	var out models.Person
	if err := getNamed(ctx, s.db, &out, query, person); err != nil {
		return nil, mapError(err, "person")
	}
	return &out, nil
}

// DeletePerson removes a person row.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "persons", "person", id)
}

const studentColumns = `id, first_name, last_name, email, phone, date_of_birth, address,
		student_code, grade_level, enrollment_date, is_active, guardian_contact, created_at, updated_at`

// CreateStudent inserts a student row.
func (s *Store) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	const query = `INSERT INTO students (id, first_name, last_name, email, phone, date_of_birth, address,
			student_code, grade_level, enrollment_date, is_active, guardian_contact, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :email, :phone, :date_of_birth, :address,
			:student_code, :grade_level, :enrollment_date, :is_active, :guardian_contact, :created_at, :updated_at)
		RETURNING ` + studentColumns
	var out models.Student
	if err := getNamed(ctx, s.db, &out, query, student); err != nil {
		return nil, mapError(err, "student")
	}
	return &out, nil
}

// GetStudent fetches a student by id.
func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT ` + studentColumns + ` FROM students WHERE id = $1 LIMIT 1`
	var out models.Student
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, mapError(err, "student")
	}
	return &out, nil
}

// UpdateStudent replaces a student row.
func (s *Store) UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	const query = `UPDATE students
		SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
		    date_of_birth = :date_of_birth, address = :address, student_code = :student_code,
		    grade_level = :grade_level, enrollment_date = :enrollment_date, is_active = :is_active,
		    guardian_contact = :guardian_contact, updated_at = :updated_at
		WHERE id = :id
		RETURNING ` + studentColumns
	var out models.Student
	if err := getNamed(ctx, s.db, &out, query, student); err != nil {
		return nil, mapError(err, "student")
	}
	return &out, nil
}

// DeleteStudent removes a student row and, through cascades, its enrollments
// and scores.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "students", "student", id)
}

const teacherColumns = `id, first_name, last_name, email, phone, date_of_birth, address,
		employee_code, subjects, hire_date, is_active, department, qualification, created_at, updated_at`

// CreateTeacher inserts a teacher row.
func (s *Store) CreateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	const query = `INSERT INTO teachers (id, first_name, last_name, email, phone, date_of_birth, address,
			employee_code, subjects, hire_date, is_active, department, qualification, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :email, :phone, :date_of_birth, :address,
			:employee_code, :subjects, :hire_date, :is_active, :department, :qualification, :created_at, :updated_at)
		RETURNING ` + teacherColumns
	var out models.Teacher
	if err := getNamed(ctx, s.db, &out, query, teacher); err != nil {
		return nil, mapError(err, "teacher")
	}
	return &out, nil
}

// GetTeacher fetches a teacher by id.
func (s *Store) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1 LIMIT 1`
	var out models.Teacher
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, mapError(err, "teacher")
	}
	return &out, nil
}

// UpdateTeacher replaces a teacher row.
func (s *Store) UpdateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	const query = `UPDATE teachers
		SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
		    date_of_birth = :date_of_birth, address = :address, employee_code = :employee_code,
		    subjects = :subjects, hire_date = :hire_date, is_active = :is_active,
		    department = :department, qualification = :qualification, updated_at = :updated_at
		WHERE id = :id
		RETURNING ` + teacherColumns
	var out models.Teacher
	if err := getNamed(ctx, s.db, &out, query, teacher); err != nil {
		return nil, mapError(err, "teacher")
	}
	return &out, nil
}

// DeleteTeacher removes a teacher row.
func (s *Store) DeleteTeacher(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "teachers", "teacher", id)
}

const classColumns = `id, name, description, gathering_type, capacity, location,
		class_code, grade_level, academic_year, semester, schedule, created_at, updated_at`

// CreateClass inserts a class row.
func (s *Store) CreateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	const query = `INSERT INTO classes (id, name, description, gathering_type, capacity, location,
			class_code, grade_level, academic_year, semester, schedule, created_at, updated_at)
		VALUES (:id, :name, :description, :gathering_type, :capacity, :location,
			:class_code, :grade_level, :academic_year, :semester, :schedule, :created_at, :updated_at)
		RETURNING ` + classColumns
	var out models.Class
	if err := getNamed(ctx, s.db, &out, query, class); err != nil {
		return nil, mapError(err, "class")
	}
	return &out, nil
}

// GetClass fetches a class by id.
func (s *Store) GetClass(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT ` + classColumns + ` FROM classes WHERE id = $1 LIMIT 1`
	var out models.Class
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, mapError(err, "class")
	}
	return &out, nil
}

// UpdateClass replaces a class row.
func (s *Store) UpdateClass(ctx context.Context, class *models.Class) (*models.Class, error) {
	const query = `UPDATE classes
		SET name = :name, description = :description, gathering_type = :gathering_type,
		    capacity = :capacity, location = :location, class_code = :class_code,
		    grade_level = :grade_level, academic_year = :academic_year, semester = :semester,
		    schedule = :schedule, updated_at = :updated_at
		WHERE id = :id
		RETURNING ` + classColumns
	var out models.Class
	if err := getNamed(ctx, s.db, &out, query, class); err != nil {
		return nil, mapError(err, "class")
	}
	return &out, nil
}

// DeleteClass removes a class row and its enrollments, assignments and scores.
func (s *Store) DeleteClass(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "classes", "class", id)
}

func (s *Store) deleteByID(ctx context.Context, table, entity, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err, entity)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", entity, err)
	}
	if affected == 0 {
		return appErrors.NotFound(entity)
	}
	return nil
}
