package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// AddStudentsToClass enrolls each student, recording per-item failures for
// unknown students and duplicate enrollments.
func (s *Store) AddStudentsToClass(ctx context.Context, classID string, studentIDs []string) (*models.BulkResult, error) {
	if err := s.requireExists(ctx, "classes", "class", classID); err != nil {
		return nil, err
	}

	const query = `INSERT INTO class_enrollments (id, student_id, class_id, enrollment_date, is_active)
		VALUES ($1, $2, $3, $4, $5)`

	result := &models.BulkResult{}
	now := time.Now().UTC()
	for _, studentID := range studentIDs {
		enrollment := models.NewClassEnrollment(uuid.NewString(), studentID, classID, now)
		_, err := s.db.ExecContext(ctx, query,
			enrollment.ID, enrollment.StudentID, enrollment.ClassID, enrollment.EnrollmentDate, enrollment.IsActive)
		if err != nil {
			result.Add(fmt.Errorf("student %s: %w", studentID, mapError(err, "enrollment")))
			continue
		}
		result.Add(nil)
	}
	return result, nil
}

// AddTeacherToClass records one teacher assignment for a subject.
func (s *Store) AddTeacherToClass(ctx context.Context, classID, teacherID string, subject models.Subject) error {
	if err := s.requireExists(ctx, "classes", "class", classID); err != nil {
		return err
	}
	if err := s.requireExists(ctx, "teachers", "teacher", teacherID); err != nil {
		return err
	}

	const query = `INSERT INTO teacher_assignments (id, teacher_id, class_id, subject, assignment_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)`
	assignment := models.NewTeacherAssignment(uuid.NewString(), teacherID, classID, subject, time.Now().UTC())
	if _, err := s.db.ExecContext(ctx, query,
		assignment.ID, assignment.TeacherID, assignment.ClassID, assignment.Subject,
		assignment.AssignmentDate, assignment.IsActive); err != nil {
		return mapError(err, "teacher assignment")
	}
	return nil
}

// AddScores inserts assessment results one by one so a bad row does not block
// the rest of the batch.
func (s *Store) AddScores(ctx context.Context, scores []models.Score) (*models.BulkResult, error) {
	const query = `INSERT INTO scores (id, student_id, class_id, subject, score, max_score,
			assessment_type, assessment_date, teacher_id, comments)
		VALUES (:id, :student_id, :class_id, :subject, :score, :max_score,
			:assessment_type, :assessment_date, :teacher_id, :comments)`

	result := &models.BulkResult{}
	now := time.Now().UTC()
	for i := range scores {
		score := scores[i]
		if err := score.Normalize(); err != nil {
			result.Add(err)
			continue
		}
		score.Stamp(uuid.NewString(), now)
		if _, err := s.db.NamedExecContext(ctx, query, score); err != nil {
			result.Add(fmt.Errorf("student %s: %w", score.StudentID, mapError(err, "score")))
			continue
		}
		result.Add(nil)
	}
	return result, nil
}

func (s *Store) requireExists(ctx context.Context, table, entity, id string) error {
	query := fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE id = $1`, table)
	var count int
	if err := s.db.GetContext(ctx, &count, query, id); err != nil {
		return mapError(err, entity)
	}
	if count == 0 {
		return appErrors.NotFound(entity)
	}
	return nil
}
