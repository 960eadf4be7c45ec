package models

import "time"

// Teacher extends Person with employment attributes.
type Teacher struct {
	Person        `bson:",inline"`
	EmployeeCode  *string     `db:"employee_code" json:"employee_code,omitempty" bson:"employee_code,omitempty"`
	Subjects      SubjectList `db:"subjects" json:"subjects" bson:"subjects"`
	HireDate      time.Time   `db:"hire_date" json:"hire_date" bson:"hire_date"`
	IsActive      bool        `db:"is_active" json:"is_active" bson:"is_active"`
	Department    *string     `db:"department" json:"department,omitempty" bson:"department,omitempty"`
	Qualification *string     `db:"qualification" json:"qualification,omitempty" bson:"qualification,omitempty"`
}

// Normalize validates teacher fields on top of the person base.
func (t *Teacher) Normalize() error {
	if err := t.Person.Normalize(); err != nil {
		return err
	}
	return t.Subjects.Validate()
}

// Stamp fills identifier, timestamps and the hire date default.
func (t *Teacher) Stamp(id string, now time.Time) {
	t.Person.Stamp(id, now)
	if t.HireDate.IsZero() {
		t.HireDate = now
	}
}
