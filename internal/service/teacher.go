package service

import (
	"context"
	"time"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// CreateTeacherRequest holds payload for creating teachers.
type CreateTeacherRequest struct {
	FirstName     string             `json:"first_name" validate:"required"`
	LastName      string             `json:"last_name" validate:"required"`
	Email         string             `json:"email" validate:"required,email"`
	Phone         *string            `json:"phone"`
	DateOfBirth   *time.Time         `json:"date_of_birth"`
	Address       *string            `json:"address"`
	EmployeeCode  *string            `json:"employee_code"`
	Subjects      models.SubjectList `json:"subjects"`
	HireDate      *time.Time         `json:"hire_date"`
	Department    *string            `json:"department"`
	Qualification *string            `json:"qualification"`
}

// UpdateTeacherRequest holds a partial teacher update.
type UpdateTeacherRequest struct {
	FirstName     *string            `json:"first_name" validate:"omitempty,min=1"`
	LastName      *string            `json:"last_name" validate:"omitempty,min=1"`
	Email         *string            `json:"email" validate:"omitempty,email"`
	Phone         *string            `json:"phone"`
	DateOfBirth   *time.Time         `json:"date_of_birth"`
	Address       *string            `json:"address"`
	EmployeeCode  *string            `json:"employee_code"`
	Subjects      models.SubjectList `json:"subjects"`
	HireDate      *time.Time         `json:"hire_date"`
	IsActive      *bool              `json:"is_active"`
	Department    *string            `json:"department"`
	Qualification *string            `json:"qualification"`
}

// CreateTeacher registers a new teacher. Teachers start active.
func (s *DataService) CreateTeacher(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	teacher := &models.Teacher{
		Person: models.Person{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			DateOfBirth: req.DateOfBirth,
			Address:     req.Address,
		},
		EmployeeCode:  req.EmployeeCode,
		Subjects:      req.Subjects,
		Department:    req.Department,
		Qualification: req.Qualification,
		IsActive:      true,
	}
	if req.HireDate != nil {
		teacher.HireDate = *req.HireDate
	}
	if err := teacher.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	teacher.Stamp(s.newID(), s.now())

	out, err := s.store.CreateTeacher(ctx, teacher)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return out, nil
}

// GetTeacher returns one teacher by id.
func (s *DataService) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	return s.store.GetTeacher(ctx, id)
}

// UpdateTeacher merges the request onto the stored record.
func (s *DataService) UpdateTeacher(ctx context.Context, id string, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	teacher, err := s.store.GetTeacher(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPersonUpdate(&teacher.Person, UpdatePersonRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
	})
	if req.EmployeeCode != nil {
		teacher.EmployeeCode = req.EmployeeCode
	}
	if req.Subjects != nil {
		teacher.Subjects = req.Subjects
	}
	if req.HireDate != nil {
		teacher.HireDate = *req.HireDate
	}
	if req.IsActive != nil {
		teacher.IsActive = *req.IsActive
	}
	if req.Department != nil {
		teacher.Department = req.Department
	}
	if req.Qualification != nil {
		teacher.Qualification = req.Qualification
	}
	if err := teacher.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	teacher.UpdatedAt = s.now()

	out, err := s.store.UpdateTeacher(ctx, teacher)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return out, nil
}

// DeleteTeacher removes one teacher by id.
func (s *DataService) DeleteTeacher(ctx context.Context, id string) error {
	if err := s.store.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate(ctx)
	return nil
}
