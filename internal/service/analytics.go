package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/models"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// Breakdown names for the canonical per-class analytics.
const (
	BreakdownStudents = "students-per-class"
	BreakdownScores   = "average-score-per-class"
	BreakdownTeachers = "teachers-per-class"
	BreakdownSubjects = "subjects-per-class"
)

// AggregateRequest is the caller-facing shape of a generic aggregate query.
type AggregateRequest struct {
	QueryType string                 `json:"query_type" validate:"required"`
	Filters   map[string]interface{} `json:"filters"`
	GroupBy   []string               `json:"group_by"`
	SortBy    string                 `json:"sort_by"`
	SortOrder string                 `json:"sort_order"`
	Limit     int                    `json:"limit" validate:"omitempty,min=1"`
}

// Breakdown runs one of the canonical per-class analytics, serving repeats
// from cache when enabled.
func (s *DataService) Breakdown(ctx context.Context, name, classID string) (*models.AggregateResult, error) {
	key := fmt.Sprintf("%s%s:%s", aggregateKeyPrefix, name, classID)

	var cached models.AggregateResult
	if err := s.cache.get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("aggregate cache read", zap.String("key", key), zap.Error(err))
	}

	var (
		result *models.AggregateResult
		err    error
	)
	switch name {
	case BreakdownStudents:
		result, err = s.store.StudentsPerClass(ctx, classID)
	case BreakdownScores:
		result, err = s.store.AverageScorePerClass(ctx, classID)
	case BreakdownTeachers:
		result, err = s.store.TeachersPerClass(ctx, classID)
	case BreakdownSubjects:
		result, err = s.store.SubjectsPerClass(ctx, classID)
	default:
		return nil, appErrors.Validation(fmt.Errorf("unknown breakdown %q", name))
	}
	if err != nil {
		return nil, err
	}

	s.cache.set(ctx, key, result)
	return result, nil
}

// Aggregate runs a generic whitelisted aggregate query.
func (s *DataService) Aggregate(ctx context.Context, req AggregateRequest) (*models.AggregateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err)
	}
	query := &models.AggregateQuery{
		QueryType: req.QueryType,
		Filters:   req.Filters,
		GroupBy:   req.GroupBy,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Limit:     req.Limit,
	}
	if err := query.Normalize(); err != nil {
		return nil, appErrors.Validation(err)
	}

	key := aggregateKeyPrefix + "query:" + queryFingerprint(query)
	var cached models.AggregateResult
	if err := s.cache.get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	result, err := s.store.Aggregate(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, key, result)
	return result, nil
}

func queryFingerprint(query *models.AggregateQuery) string {
	raw, err := json.Marshal(query)
	if err != nil {
		return "unhashable"
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
