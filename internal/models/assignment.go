package models

import "time"

// TeacherAssignment links a teacher to a class for one subject. Unique per
// (teacher, class, subject); append-only like enrollments.
type TeacherAssignment struct {
	ID             string    `db:"id" json:"id" bson:"id"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id" bson:"teacher_id"`
	ClassID        string    `db:"class_id" json:"class_id" bson:"class_id"`
	Subject        Subject   `db:"subject" json:"subject" bson:"subject"`
	AssignmentDate time.Time `db:"assignment_date" json:"assignment_date" bson:"assignment_date"`
	IsActive       bool      `db:"is_active" json:"is_active" bson:"is_active"`
}

// NewTeacherAssignment builds an active assignment for the tuple.
func NewTeacherAssignment(id, teacherID, classID string, subject Subject, now time.Time) TeacherAssignment {
	return TeacherAssignment{
		ID:             id,
		TeacherID:      teacherID,
		ClassID:        classID,
		Subject:        subject,
		AssignmentDate: now,
		IsActive:       true,
	}
}
