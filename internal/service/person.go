package service

import (
	"context"
	"time"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// CreatePersonRequest holds payload for creating persons.
type CreatePersonRequest struct {
	FirstName   string     `json:"first_name" validate:"required"`
	LastName    string     `json:"last_name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     *string    `json:"address"`
}

// UpdatePersonRequest holds a partial update; nil fields keep their stored
// value.
type UpdatePersonRequest struct {
	FirstName   *string    `json:"first_name" validate:"omitempty,min=1"`
	LastName    *string    `json:"last_name" validate:"omitempty,min=1"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     *string    `json:"address"`
}

// CreatePerson registers a new person record.
func (s *DataService) CreatePerson(ctx context.Context, req CreatePersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	person := &models.Person{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	}
	if err := person.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	person.Stamp(s.newID(), s.now())

	out, err := s.store.CreatePerson(ctx, person)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return out, nil
}

// GetPerson returns one person by id.
func (s *DataService) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	return s.store.GetPerson(ctx, id)
}

// UpdatePerson merges the request onto the stored record and persists the
// result.
func (s *DataService) UpdatePerson(ctx context.Context, id string, req UpdatePersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	person, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPersonUpdate(person, req)
	if err := person.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	person.UpdatedAt = s.now()

	out, err := s.store.UpdatePerson(ctx, person)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return out, nil
}

// DeletePerson removes one person by id.
func (s *DataService) DeletePerson(ctx context.Context, id string) error {
	if err := s.store.DeletePerson(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate(ctx)
	return nil
}

func applyPersonUpdate(person *models.Person, req UpdatePersonRequest) {
	if req.FirstName != nil {
		person.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		person.LastName = *req.LastName
	}
	if req.Email != nil {
		person.Email = *req.Email
	}
	if req.Phone != nil {
		person.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		person.DateOfBirth = req.DateOfBirth
	}
	if req.Address != nil {
		person.Address = req.Address
	}
}
