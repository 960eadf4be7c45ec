package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/school-data-api/internal/models"
)

// AddStudentsToClass enrolls each student. Unknown students and duplicate
// active enrollments fail per item without aborting the batch.
func (s *Store) AddStudentsToClass(ctx context.Context, classID string, studentIDs []string) (*models.BulkResult, error) {
	if err := s.exists(ctx, collClasses, "class", classID); err != nil {
		return nil, err
	}

	result := &models.BulkResult{}
	now := time.Now().UTC()
	for _, studentID := range studentIDs {
		if err := s.exists(ctx, collStudents, "student", studentID); err != nil {
			result.Add(fmt.Errorf("student %s: %w", studentID, err))
			continue
		}
		enrollment := models.NewClassEnrollment(uuid.NewString(), studentID, classID, now)
		if err := s.insertOne(ctx, collEnrollments, "enrollment", enrollment, enrollment.ID); err != nil {
			result.Add(fmt.Errorf("student %s: %w", studentID, err))
			continue
		}
		result.Add(nil)
	}
	return result, nil
}

// AddTeacherToClass records one teacher assignment for a subject.
func (s *Store) AddTeacherToClass(ctx context.Context, classID, teacherID string, subject models.Subject) error {
	if err := s.exists(ctx, collClasses, "class", classID); err != nil {
		return err
	}
	if err := s.exists(ctx, collTeachers, "teacher", teacherID); err != nil {
		return err
	}
	assignment := models.NewTeacherAssignment(uuid.NewString(), teacherID, classID, subject, time.Now().UTC())
	return s.insertOne(ctx, collAssignments, "teacher assignment", assignment, assignment.ID)
}

// AddScores validates and inserts assessment results one by one.
func (s *Store) AddScores(ctx context.Context, scores []models.Score) (*models.BulkResult, error) {
	result := &models.BulkResult{}
	now := time.Now().UTC()
	for i := range scores {
		score := scores[i]
		if err := score.Normalize(); err != nil {
			result.Add(err)
			continue
		}
		if err := s.exists(ctx, collStudents, "student", score.StudentID); err != nil {
			result.Add(fmt.Errorf("student %s: %w", score.StudentID, err))
			continue
		}
		if err := s.exists(ctx, collClasses, "class", score.ClassID); err != nil {
			result.Add(fmt.Errorf("class %s: %w", score.ClassID, err))
			continue
		}
		score.Stamp(uuid.NewString(), now)
		if err := s.insertOne(ctx, collScores, "score", score, score.ID); err != nil {
			result.Add(fmt.Errorf("student %s: %w", score.StudentID, err))
			continue
		}
		result.Add(nil)
	}
	return result, nil
}
