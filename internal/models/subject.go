package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

// Subject identifies a taught discipline.
type Subject string

// Supported subjects.
const (
	SubjectMathematics       Subject = "mathematics"
	SubjectScience           Subject = "science"
	SubjectEnglish           Subject = "english"
	SubjectHistory           Subject = "history"
	SubjectGeography         Subject = "geography"
	SubjectPhysics           Subject = "physics"
	SubjectChemistry         Subject = "chemistry"
	SubjectBiology           Subject = "biology"
	SubjectComputerScience   Subject = "computer_science"
	SubjectArt               Subject = "art"
	SubjectMusic             Subject = "music"
	SubjectPhysicalEducation Subject = "physical_education"
)

var subjectSet = map[Subject]struct{}{
	SubjectMathematics:       {},
	SubjectScience:           {},
	SubjectEnglish:           {},
	SubjectHistory:           {},
	SubjectGeography:         {},
	SubjectPhysics:           {},
	SubjectChemistry:         {},
	SubjectBiology:           {},
	SubjectComputerScience:   {},
	SubjectArt:               {},
	SubjectMusic:             {},
	SubjectPhysicalEducation: {},
}

// Valid reports whether the subject is one of the supported values.
func (s Subject) Valid() bool {
	_, ok := subjectSet[s]
	return ok
}

// SubjectList is a set of subjects stored as a text array in PostgreSQL.
type SubjectList []Subject

// Value implements driver.Valuer.
func (l SubjectList) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(l))
	for i, s := range l {
		arr[i] = string(s)
	}
	return arr.Value()
}

// Scan implements sql.Scanner.
func (l *SubjectList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan subject list: %w", err)
	}
	out := make(SubjectList, len(arr))
	for i, s := range arr {
		out[i] = Subject(s)
	}
	*l = out
	return nil
}

// Validate returns an error when any member is not a supported subject.
func (l SubjectList) Validate() error {
	for _, s := range l {
		if !s.Valid() {
			return fmt.Errorf("unknown subject %q", s)
		}
	}
	return nil
}
