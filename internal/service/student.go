package service

import (
	"context"
	"time"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	FirstName       string     `json:"first_name" validate:"required"`
	LastName        string     `json:"last_name" validate:"required"`
	Email           string     `json:"email" validate:"required,email"`
	Phone           *string    `json:"phone"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Address         *string    `json:"address"`
	StudentCode     *string    `json:"student_code"`
	GradeLevel      *int       `json:"grade_level" validate:"omitempty,min=1,max=12"`
	EnrollmentDate  *time.Time `json:"enrollment_date"`
	GuardianContact *string    `json:"guardian_contact"`
}

// UpdateStudentRequest holds a partial student update.
type UpdateStudentRequest struct {
	FirstName       *string    `json:"first_name" validate:"omitempty,min=1"`
	LastName        *string    `json:"last_name" validate:"omitempty,min=1"`
	Email           *string    `json:"email" validate:"omitempty,email"`
	Phone           *string    `json:"phone"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Address         *string    `json:"address"`
	StudentCode     *string    `json:"student_code"`
	GradeLevel      *int       `json:"grade_level" validate:"omitempty,min=1,max=12"`
	EnrollmentDate  *time.Time `json:"enrollment_date"`
	IsActive        *bool      `json:"is_active"`
	GuardianContact *string    `json:"guardian_contact"`
}

// CreateStudent registers a new student. Students start active.
func (s *DataService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	student := &models.Student{
		Person: models.Person{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			DateOfBirth: req.DateOfBirth,
			Address:     req.Address,
		},
		StudentCode:     req.StudentCode,
		GradeLevel:      req.GradeLevel,
		GuardianContact: req.GuardianContact,
		IsActive:        true,
	}
	if req.EnrollmentDate != nil {
		student.EnrollmentDate = *req.EnrollmentDate
	}
	if err := student.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	student.Stamp(s.newID(), s.now())

	out, err := s.store.CreateStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return out, nil
}

// GetStudent returns one student by id.
func (s *DataService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	return s.store.GetStudent(ctx, id)
}

// UpdateStudent merges the request onto the stored record.
func (s *DataService) UpdateStudent(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	student, err := s.store.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPersonUpdate(&student.Person, UpdatePersonRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	})
	if req.StudentCode != nil {
		student.StudentCode = req.StudentCode
	}
	if req.GradeLevel != nil {
		student.GradeLevel = req.GradeLevel
	}
	if req.EnrollmentDate != nil {
		student.EnrollmentDate = *req.EnrollmentDate
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}
	if req.GuardianContact != nil {
		student.GuardianContact = req.GuardianContact
	}
	if err := student.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	student.UpdatedAt = s.now()

	out, err := s.store.UpdateStudent(ctx, student)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return out, nil
}

// DeleteStudent removes one student by id.
func (s *DataService) DeleteStudent(ctx context.Context, id string) error {
	if err := s.store.DeleteStudent(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate(ctx)
	return nil
}
