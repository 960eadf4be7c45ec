package service

import (
	"context"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// CreateClassRequest holds payload for creating classes.
type CreateClassRequest struct {
	Name          string             `json:"name" validate:"required"`
	Description   *string            `json:"description"`
	GatheringType string             `json:"gathering_type"`
	Capacity      *int               `json:"capacity" validate:"omitempty,min=1"`
	Location      *string            `json:"location"`
	ClassCode     *string            `json:"class_code"`
	GradeLevel    *int               `json:"grade_level" validate:"omitempty,min=1,max=12"`
	AcademicYear  string             `json:"academic_year" validate:"required"`
	Semester      *string            `json:"semester"`
	Schedule      models.ScheduleMap `json:"schedule"`
}

// UpdateClassRequest holds a partial class update.
type UpdateClassRequest struct {
	Name          *string            `json:"name" validate:"omitempty,min=1"`
	Description   *string            `json:"description"`
	GatheringType *string            `json:"gathering_type"`
	Capacity      *int               `json:"capacity" validate:"omitempty,min=1"`
	Location      *string            `json:"location"`
	ClassCode     *string            `json:"class_code"`
	GradeLevel    *int               `json:"grade_level" validate:"omitempty,min=1,max=12"`
	AcademicYear  *string            `json:"academic_year" validate:"omitempty,min=1"`
	Semester      *string            `json:"semester"`
	Schedule      models.ScheduleMap `json:"schedule"`
}

// CreateClass registers a new class.
func (s *DataService) CreateClass(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	class := &models.Class{
		Gathering: models.Gathering{
			Name:          req.Name,
			Description:   req.Description,
			GatheringType: models.GatheringType(req.GatheringType),
			Capacity:      req.Capacity,
			Location:      req.Location,
		},
		ClassCode:    req.ClassCode,
		GradeLevel:   req.GradeLevel,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		Schedule:     req.Schedule,
	}
	if err := class.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	class.Stamp(s.newID(), s.now())

	out, err := s.store.CreateClass(ctx, class)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return out, nil
}

// GetClass returns one class by id.
func (s *DataService) GetClass(ctx context.Context, id string) (*models.Class, error) {
	return s.store.GetClass(ctx, id)
}

// UpdateClass merges the request onto the stored record.
func (s *DataService) UpdateClass(ctx context.Context, id string, req UpdateClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	class, err := s.store.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.Description != nil {
		class.Description = req.Description
	}
	if req.GatheringType != nil {
		class.GatheringType = models.GatheringType(*req.GatheringType)
	}
	if req.Capacity != nil {
		class.Capacity = req.Capacity
	}
	if req.Location != nil {
		class.Location = req.Location
	}
	if req.ClassCode != nil {
		class.ClassCode = req.ClassCode
	}
	if req.GradeLevel != nil {
		class.GradeLevel = req.GradeLevel
	}
	if req.AcademicYear != nil {
		class.AcademicYear = *req.AcademicYear
	}
	if req.Semester != nil {
		class.Semester = req.Semester
	}
	if req.Schedule != nil {
		class.Schedule = req.Schedule
	}
	if err := class.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}
	class.UpdatedAt = s.now()

	out, err := s.store.UpdateClass(ctx, class)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(ctx)
	return out, nil
}

// DeleteClass removes one class by id.
func (s *DataService) DeleteClass(ctx context.Context, id string) error {
	if err := s.store.DeleteClass(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate(ctx)
	return nil
}
