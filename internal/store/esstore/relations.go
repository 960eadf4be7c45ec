package esstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// AddStudentsToClass enrolls each student, replaying the duplicate and
// referential checks other backends get from constraints.
func (s *Store) AddStudentsToClass(ctx context.Context, classID string, studentIDs []string) (*models.BulkResult, error) {
	if err := s.requireExists(ctx, "classes", "class", classID); err != nil {
		return nil, err
	}

	result := &models.BulkResult{}
	now := time.Now().UTC()
	for _, studentID := range studentIDs {
		if err := s.enrollStudent(ctx, classID, studentID, now); err != nil {
			result.Add(fmt.Errorf("student %s: %w", studentID, err))
			continue
		}
		result.Add(nil)
	}
	return result, nil
}

func (s *Store) enrollStudent(ctx context.Context, classID, studentID string, now time.Time) error {
	if err := s.requireExists(ctx, "students", "student", studentID); err != nil {
		return err
	}
	count, err := s.countDocs(ctx, "class_enrollments", countBody(map[string]interface{}{
		"student_id": studentID,
		"class_id":   classID,
		"is_active":  true,
	}))
	if err != nil {
		return err
	}
	if count > 0 {
		return appErrors.Conflict(nil, "student is already enrolled in this class")
	}
	enrollment := models.NewClassEnrollment(uuid.NewString(), studentID, classID, now)
	return s.indexDoc(ctx, "class_enrollments", "enrollment", enrollment.ID, enrollment)
}

// AddTeacherToClass records one teacher assignment for a subject.
func (s *Store) AddTeacherToClass(ctx context.Context, classID, teacherID string, subject models.Subject) error {
	if err := s.requireExists(ctx, "classes", "class", classID); err != nil {
		return err
	}
	if err := s.requireExists(ctx, "teachers", "teacher", teacherID); err != nil {
		return err
	}
	count, err := s.countDocs(ctx, "teacher_assignments", countBody(map[string]interface{}{
		"teacher_id": teacherID,
		"class_id":   classID,
		"subject":    string(subject),
		"is_active":  true,
	}))
	if err != nil {
		return err
	}
	if count > 0 {
		return appErrors.Conflict(nil, "teacher is already assigned to this class for this subject")
	}
	assignment := models.NewTeacherAssignment(uuid.NewString(), teacherID, classID, subject, time.Now().UTC())
	return s.indexDoc(ctx, "teacher_assignments", "teacher assignment", assignment.ID, assignment)
}

// AddScores validates and indexes assessment results one by one.
func (s *Store) AddScores(ctx context.Context, scores []models.Score) (*models.BulkResult, error) {
	result := &models.BulkResult{}
	now := time.Now().UTC()
	for i := range scores {
		score := scores[i]
		if err := score.Normalize(); err != nil {
			result.Add(err)
			continue
		}
		if err := s.requireExists(ctx, "students", "student", score.StudentID); err != nil {
			result.Add(fmt.Errorf("student %s: %w", score.StudentID, err))
			continue
		}
		if err := s.requireExists(ctx, "classes", "class", score.ClassID); err != nil {
			result.Add(fmt.Errorf("class %s: %w", score.ClassID, err))
			continue
		}
		score.Stamp(uuid.NewString(), now)
		if err := s.indexDoc(ctx, "scores", "score", score.ID, score); err != nil {
			result.Add(fmt.Errorf("student %s: %w", score.StudentID, err))
			continue
		}
		result.Add(nil)
	}
	return result, nil
}
