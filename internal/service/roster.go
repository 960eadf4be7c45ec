package service

import (
	"context"
	"time"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// EnrollStudentsRequest lists students to add to one class.
type EnrollStudentsRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,required"`
}

// AssignTeacherRequest names the teacher and subject for one class.
type AssignTeacherRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
}

// ScoreRequest is one assessment result in a batch submission.
type ScoreRequest struct {
	StudentID      string     `json:"student_id" validate:"required"`
	ClassID        string     `json:"class_id" validate:"required"`
	Subject        string     `json:"subject" validate:"required"`
	Score          float64    `json:"score" validate:"min=0,max=100"`
	MaxScore       float64    `json:"max_score" validate:"omitempty,gt=0"`
	AssessmentType string     `json:"assessment_type" validate:"required"`
	AssessmentDate *time.Time `json:"assessment_date"`
	TeacherID      *string    `json:"teacher_id"`
	Comments       *string    `json:"comments"`
}

// AddScoresRequest wraps a batch of assessment results.
type AddScoresRequest struct {
	Scores []ScoreRequest `json:"scores" validate:"required,min=1,dive"`
}

// EnrollStudents adds students to a class, reporting per-student outcomes.
func (s *DataService) EnrollStudents(ctx context.Context, classID string, req EnrollStudentsRequest) (*models.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	result, err := s.store.AddStudentsToClass(ctx, classID, req.StudentIDs)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return result, nil
}

// AssignTeacher assigns a teacher to a class for one subject.
func (s *DataService) AssignTeacher(ctx context.Context, classID string, req AssignTeacherRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err)
	}
	subject := models.Subject(req.Subject)
	if !subject.Valid() {
		return appErrors.Validation(errUnknownSubject(req.Subject))
	}
	if err := s.store.AddTeacherToClass(ctx, classID, req.TeacherID, subject); err != nil {
		return err
	}
	s.cache.invalidate(ctx)
	return nil
}

// AddScores records a batch of assessment results.
func (s *DataService) AddScores(ctx context.Context, req AddScoresRequest) (*models.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	scores := make([]models.Score, len(req.Scores))
	for i, item := range req.Scores {
		scores[i] = models.Score{
			StudentID:      item.StudentID,
			ClassID:        item.ClassID,
			Subject:        models.Subject(item.Subject),
			Score:          item.Score,
			MaxScore:       item.MaxScore,
			AssessmentType: item.AssessmentType,
			TeacherID:      item.TeacherID,
			Comments:       item.Comments,
		}
		if item.AssessmentDate != nil {
			scores[i].AssessmentDate = *item.AssessmentDate
		}
	}
	result, err := s.store.AddScores(ctx, scores)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return result, nil
}
