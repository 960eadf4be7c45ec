package models

import "fmt"

// EntityKind names an entity family addressable by bulk operations. The
// storage name (table, collection, index suffix) is shared by all adapters.
type EntityKind string

// Entity kinds accepted by bulk operations. Join entities (enrollments,
// assignments, scores) are append-only and only reachable through the
// relationship operations, so they are not listed here.
const (
	KindPerson  EntityKind = "person"
	KindStudent EntityKind = "student"
	KindTeacher EntityKind = "teacher"
	KindClass   EntityKind = "class"
)

var kindStorage = map[EntityKind]string{
	KindPerson:  "persons",
	KindStudent: "students",
	KindTeacher: "teachers",
	KindClass:   "classes",
}

// Valid reports whether the kind is addressable by bulk operations.
func (k EntityKind) Valid() bool {
	_, ok := kindStorage[k]
	return ok
}

// StorageName returns the table/collection/index-suffix for the kind.
func (k EntityKind) StorageName() (string, error) {
	name, ok := kindStorage[k]
	if !ok {
		return "", fmt.Errorf("unknown entity type %q", k)
	}
	return name, nil
}
