package models

import (
	"fmt"
	"time"
)

// Score records one assessment result for a student in a class.
type Score struct {
	ID             string    `db:"id" json:"id" bson:"id"`
	StudentID      string    `db:"student_id" json:"student_id" bson:"student_id"`
	ClassID        string    `db:"class_id" json:"class_id" bson:"class_id"`
	Subject        Subject   `db:"subject" json:"subject" bson:"subject"`
	Score          float64   `db:"score" json:"score" bson:"score"`
	MaxScore       float64   `db:"max_score" json:"max_score" bson:"max_score"`
	AssessmentType string    `db:"assessment_type" json:"assessment_type" bson:"assessment_type"`
	AssessmentDate time.Time `db:"assessment_date" json:"assessment_date" bson:"assessment_date"`
	TeacherID      *string   `db:"teacher_id" json:"teacher_id,omitempty" bson:"teacher_id,omitempty"`
	Comments       *string   `db:"comments" json:"comments,omitempty" bson:"comments,omitempty"`
}

// Normalize applies defaults and validates score invariants.
func (s *Score) Normalize() error {
	if s.StudentID == "" || s.ClassID == "" {
		return fmt.Errorf("student_id and class_id are required")
	}
	if !s.Subject.Valid() {
		return fmt.Errorf("unknown subject %q", s.Subject)
	}
	if s.MaxScore == 0 {
		s.MaxScore = 100
	}
	if s.MaxScore <= 0 {
		return fmt.Errorf("max score must be positive, got %v", s.MaxScore)
	}
	if s.Score < 0 || s.Score > 100 {
		return fmt.Errorf("score must be between 0 and 100, got %v", s.Score)
	}
	if s.AssessmentType == "" {
		return fmt.Errorf("assessment type is required")
	}
	return nil
}

// Stamp fills the identifier and assessment date default.
func (s *Score) Stamp(id string, now time.Time) {
	if s.ID == "" {
		s.ID = id
	}
	if s.AssessmentDate.IsZero() {
		s.AssessmentDate = now
	}
}
