package models

import (
	"fmt"
	"strings"
	"time"
)

// Person is the shared identity record embedded by Student and Teacher.
type Person struct {
	ID          string     `db:"id" json:"id" bson:"id"`
	FirstName   string     `db:"first_name" json:"first_name" bson:"first_name"`
	LastName    string     `db:"last_name" json:"last_name" bson:"last_name"`
	Email       string     `db:"email" json:"email" bson:"email"`
	Phone       *string    `db:"phone" json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at" bson:"updated_at"`
}

// Normalize lower-cases the email and validates its shape.
func (p *Person) Normalize() error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("invalid email format: %q", p.Email)
	}
	return nil
}

// Stamp fills the identifier and timestamps ahead of persistence.
func (p *Person) Stamp(id string, now time.Time) {
	if p.ID == "" {
		p.ID = id
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
