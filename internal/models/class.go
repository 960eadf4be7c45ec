package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// GatheringType categorises a gathering record.
type GatheringType string

// Supported gathering types.
const (
	GatheringClass      GatheringType = "class"
	GatheringWorkshop   GatheringType = "workshop"
	GatheringSeminar    GatheringType = "seminar"
	GatheringConference GatheringType = "conference"
)

// Valid reports whether the gathering type is supported.
func (g GatheringType) Valid() bool {
	switch g {
	case GatheringClass, GatheringWorkshop, GatheringSeminar, GatheringConference:
		return true
	}
	return false
}

// ScheduleMap is a free-form weekly schedule stored as JSONB in PostgreSQL.
type ScheduleMap map[string]interface{}

// Value implements driver.Valuer.
func (m ScheduleMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *ScheduleMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan schedule: unsupported type %T", src)
	}
	return json.Unmarshal(raw, m)
}

// Gathering is the shared base for scheduled group records.
type Gathering struct {
	ID            string        `db:"id" json:"id" bson:"id"`
	Name          string        `db:"name" json:"name" bson:"name"`
	Description   *string       `db:"description" json:"description,omitempty" bson:"description,omitempty"`
	GatheringType GatheringType `db:"gathering_type" json:"gathering_type" bson:"gathering_type"`
	Capacity      *int          `db:"capacity" json:"capacity,omitempty" bson:"capacity,omitempty"`
	Location      *string       `db:"location" json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at" bson:"updated_at"`
}

// Class extends Gathering with academic attributes. GatheringType defaults to
// "class" when left empty.
type Class struct {
	Gathering    `bson:",inline"`
	ClassCode    *string     `db:"class_code" json:"class_code,omitempty" bson:"class_code,omitempty"`
	GradeLevel   *int        `db:"grade_level" json:"grade_level,omitempty" bson:"grade_level,omitempty"`
	AcademicYear string      `db:"academic_year" json:"academic_year" bson:"academic_year"`
	Semester     *string     `db:"semester" json:"semester,omitempty" bson:"semester,omitempty"`
	Schedule     ScheduleMap `db:"schedule" json:"schedule,omitempty" bson:"schedule,omitempty"`
}

// Normalize applies defaults and validates class invariants.
func (c *Class) Normalize() error {
	if c.GatheringType == "" {
		c.GatheringType = GatheringClass
	}
	if !c.GatheringType.Valid() {
		return fmt.Errorf("unknown gathering type %q", c.GatheringType)
	}
	if c.Name == "" {
		return fmt.Errorf("class name is required")
	}
	if c.AcademicYear == "" {
		return fmt.Errorf("academic year is required")
	}
	if c.Capacity != nil && *c.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", *c.Capacity)
	}
	if c.GradeLevel != nil && (*c.GradeLevel < 1 || *c.GradeLevel > 12) {
		return fmt.Errorf("grade level must be between 1 and 12, got %d", *c.GradeLevel)
	}
	return nil
}

// Stamp fills the identifier and timestamps ahead of persistence.
func (c *Class) Stamp(id string, now time.Time) {
	if c.ID == "" {
		c.ID = id
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}
