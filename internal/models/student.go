package models

import (
	"fmt"
	"time"
)

// Student extends Person with enrollment attributes.
type Student struct {
	Person          `bson:",inline"`
	StudentCode     *string   `db:"student_code" json:"student_code,omitempty" bson:"student_code,omitempty"`
	GradeLevel      *int      `db:"grade_level" json:"grade_level,omitempty" bson:"grade_level,omitempty"`
	EnrollmentDate  time.Time `db:"enrollment_date" json:"enrollment_date" bson:"enrollment_date"`
	IsActive        bool      `db:"is_active" json:"is_active" bson:"is_active"`
	GuardianContact *string   `db:"guardian_contact" json:"guardian_contact,omitempty" bson:"guardian_contact,omitempty"`
}

// Normalize validates student fields on top of the person base.
func (s *Student) Normalize() error {
	if err := s.Person.Normalize(); err != nil {
		return err
	}
	if s.GradeLevel != nil && (*s.GradeLevel < 1 || *s.GradeLevel > 12) {
		return fmt.Errorf("grade level must be between 1 and 12, got %d", *s.GradeLevel)
	}
	return nil
}

// Stamp fills identifier, timestamps and the enrollment date default.
func (s *Student) Stamp(id string, now time.Time) {
	s.Person.Stamp(id, now)
	if s.EnrollmentDate.IsZero() {
		s.EnrollmentDate = now
	}
}
