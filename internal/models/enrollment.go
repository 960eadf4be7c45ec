package models

import "time"

// ClassEnrollment links a student to a class. Enrollments are append-only;
// deactivation happens through IsActive rather than deletion.
type ClassEnrollment struct {
	ID             string    `db:"id" json:"id" bson:"id"`
	StudentID      string    `db:"student_id" json:"student_id" bson:"student_id"`
	ClassID        string    `db:"class_id" json:"class_id" bson:"class_id"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date" bson:"enrollment_date"`
	IsActive       bool      `db:"is_active" json:"is_active" bson:"is_active"`
}

// NewClassEnrollment builds an active enrollment for the given pair.
func NewClassEnrollment(id, studentID, classID string, now time.Time) ClassEnrollment {
	return ClassEnrollment{
		ID:             id,
		StudentID:      studentID,
		ClassID:        classID,
		EnrollmentDate: now,
		IsActive:       true,
	}
}
