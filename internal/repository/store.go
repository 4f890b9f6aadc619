// Package repository persists and queries icon catalog metadata. The
// primary implementation runs against PostgreSQL; a flat-file catalog
// serves as a read-only fallback when the database is unreachable.
package repository

import (
	"context"
	"strings"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/models"
)

const (
	// DefaultPageSize matches the web client's grid page.
	DefaultPageSize = 24

	// MaxPageSize bounds a single listing request.
	MaxPageSize = 100
)

// ListQuery holds filter and pagination parameters for ListIcons.
type ListQuery struct {
	Provider string
	Search   string
	Tags     []string
	Page     int
	PageSize int
}

// Normalize applies pagination bounds and canonical casing. Provider and
// tag matching is case-insensitive throughout, so both are lowered here.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Provider = strings.ToLower(strings.TrimSpace(q.Provider))
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))

	tags := make([]string, 0, len(q.Tags))
	for _, tag := range models.NormalizeTags(q.Tags) {
		tags = append(tags, strings.ToLower(tag))
	}
	q.Tags = tags
	return q
}

// Offset returns the row offset for the normalized page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// wantsAllProviders reports whether the provider filter is the "all"
// sentinel (or empty, which listing treats the same way).
func (q ListQuery) wantsAllProviders() bool {
	return q.Provider == "" || q.Provider == models.ProviderAll
}

// Store abstracts icon metadata persistence. The PostgreSQL repository and
// the flat-catalog fallback are interchangeable behind this contract.
type Store interface {
	// ListIcons returns one page of icons matching the query, plus the
	// total match count, sorted by provider then name.
	ListIcons(ctx context.Context, query ListQuery) (*models.PaginatedIcons, error)

	// GetIcon returns the icon for (provider, id), matched
	// case-insensitively. Returns models.ErrNotFound when absent.
	GetIcon(ctx context.Context, provider, id string) (*models.Icon, error)

	// ListProviders returns all distinct providers, sorted.
	ListProviders(ctx context.Context) ([]string, error)

	// ListTags returns all distinct tag names, sorted.
	ListTags(ctx context.Context) ([]string, error)

	// Health reports whether the store can answer queries, and how many
	// icons it holds.
	Health(ctx context.Context) (*models.HealthStatus, error)
}
