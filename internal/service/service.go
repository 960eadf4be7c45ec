// Package service owns the storage-agnostic use-cases. Every operation talks
// to the active backend through the store contract and returns typed domain
// errors for the handlers to translate.
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/school-data-api/internal/store"
)

// DataService is the facade over the selected storage backend.
type DataService struct {
	store     store.Store
	validator *validator.Validate
	logger    *zap.Logger
	cache     *aggregateCache

	now   func() time.Time
	newID func() string
}

// Option customises service construction.
type Option func(*DataService)

// WithCache enables the Redis read-through cache for aggregate queries.
func WithCache(client *redis.Client, ttl time.Duration) Option {
	return func(s *DataService) {
		s.cache = newAggregateCache(client, ttl, s.logger)
	}
}

// New constructs the service facade.
func New(st store.Store, validate *validator.Validate, logger *zap.Logger, opts ...Option) *DataService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DataService{
		store:     st,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping reports whether the active backend is reachable.
func (s *DataService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
