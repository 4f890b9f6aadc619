package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/metrics"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/models"
)

// FallbackStore composes the primary store with the flat-catalog fallback.
// Every call tries the primary first and demotes to the fallback only when
// the primary fails; the demotion is per call, so the next call retries the
// primary. A NotFound from the primary is a normal negative result and is
// never retried against the fallback.
type FallbackStore struct {
	primary  Store
	fallback Store
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewFallbackStore wires the primary store in front of the fallback.
func NewFallbackStore(primary, fallback Store, log logger.Logger, m *metrics.Metrics) *FallbackStore {
	return &FallbackStore{
		primary:  primary,
		fallback: fallback,
		logger:   log,
		metrics:  m,
	}
}

func (s *FallbackStore) ListIcons(ctx context.Context, query ListQuery) (*models.PaginatedIcons, error) {
	result, err := s.primary.ListIcons(ctx, query)
	if err == nil || errors.Is(err, models.ErrNotFound) {
		return result, err
	}
	s.logDemotion("list_icons", err)

	result, fallbackErr := s.fallback.ListIcons(ctx, query)
	if fallbackErr != nil {
		return nil, s.bothFailed(err, fallbackErr)
	}
	return result, nil
}

func (s *FallbackStore) GetIcon(ctx context.Context, provider, id string) (*models.Icon, error) {
	icon, err := s.primary.GetIcon(ctx, provider, id)
	if err == nil || errors.Is(err, models.ErrNotFound) {
		return icon, err
	}
	s.logDemotion("get_icon", err)

	icon, fallbackErr := s.fallback.GetIcon(ctx, provider, id)
	if fallbackErr != nil && !errors.Is(fallbackErr, models.ErrNotFound) {
		return nil, s.bothFailed(err, fallbackErr)
	}
	return icon, fallbackErr
}

func (s *FallbackStore) ListProviders(ctx context.Context) ([]string, error) {
	providers, err := s.primary.ListProviders(ctx)
	if err == nil {
		return providers, nil
	}
	s.logDemotion("list_providers", err)

	providers, fallbackErr := s.fallback.ListProviders(ctx)
	if fallbackErr != nil {
		return nil, s.bothFailed(err, fallbackErr)
	}
	return providers, nil
}

func (s *FallbackStore) ListTags(ctx context.Context) ([]string, error) {
	tags, err := s.primary.ListTags(ctx)
	if err == nil {
		return tags, nil
	}
	s.logDemotion("list_tags", err)

	tags, fallbackErr := s.fallback.ListTags(ctx)
	if fallbackErr != nil {
		return nil, s.bothFailed(err, fallbackErr)
	}
	return tags, nil
}

func (s *FallbackStore) Health(ctx context.Context) (*models.HealthStatus, error) {
	status, err := s.primary.Health(ctx)
	if err == nil {
		return status, nil
	}
	s.logDemotion("health", err)

	status, fallbackErr := s.fallback.Health(ctx)
	if fallbackErr != nil {
		return nil, s.bothFailed(err, fallbackErr)
	}
	return status, nil
}

func (s *FallbackStore) logDemotion(operation string, err error) {
	s.metrics.RecordStoreDemotion()
	s.logger.Warn("Primary metadata store failed, demoting to catalog fallback",
		logger.String("operation", operation),
		logger.Error(err),
	)
}

func (s *FallbackStore) bothFailed(primaryErr, fallbackErr error) error {
	s.logger.Error("Both metadata stores failed",
		logger.NamedError("primary_error", primaryErr),
		logger.NamedError("fallback_error", fallbackErr),
	)
	return fmt.Errorf("%w: primary: %v; fallback: %v", models.ErrDataUnavailable, primaryErr, fallbackErr)
}
