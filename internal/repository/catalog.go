package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/models"
)

// CatalogStore is the flat-file fallback Store. It parses the JSON catalog
// from the first readable path among an ordered candidate list and applies
// the same filter/search/sort/paginate semantics as the database store, in
// memory. The file is re-read on every call; the tiered cache above this
// layer absorbs the cost for hot lookups.
type CatalogStore struct {
	paths  []string
	logger logger.Logger
}

// NewCatalogStore creates a CatalogStore over the candidate paths, tried in
// order.
func NewCatalogStore(paths []string, log logger.Logger) *CatalogStore {
	return &CatalogStore{
		paths:  paths,
		logger: log,
	}
}

// load reads and parses the catalog from the first readable candidate.
// A readable but unparseable file is models.ErrMalformedCatalog; trying
// later candidates would hide a corrupt deployment.
func (s *CatalogStore) load() ([]models.Icon, error) {
	var lastErr error

	for _, path := range s.paths {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied catalog path
		if err != nil {
			lastErr = err
			s.logger.Debug("Catalog not readable at candidate path, trying next",
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}

		var icons []models.Icon
		if unmarshalErr := json.Unmarshal(data, &icons); unmarshalErr != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrMalformedCatalog, path, unmarshalErr)
		}

		for i := range icons {
			icons[i].Tags = models.NormalizeTags(icons[i].Tags)
		}

		s.logger.Debug("Catalog loaded",
			logger.String("path", path),
			logger.Int("count", len(icons)),
		)
		return icons, nil
	}

	return nil, fmt.Errorf("no readable catalog file: %w", lastErr)
}

// ListIcons filters, sorts, and pages the catalog in memory.
func (s *CatalogStore) ListIcons(_ context.Context, query ListQuery) (*models.PaginatedIcons, error) {
	icons, err := s.load()
	if err != nil {
		return nil, err
	}

	query = query.Normalize()

	matched := make([]models.Icon, 0, len(icons))
	for i := range icons {
		if matchesQuery(&icons[i], query) {
			matched = append(matched, icons[i])
		}
	}

	sortIcons(matched)

	total := len(matched)
	start := query.Offset()
	if start > total {
		start = total
	}
	end := start + query.PageSize
	if end > total {
		end = total
	}

	return &models.PaginatedIcons{
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
		Data:     matched[start:end],
	}, nil
}

// GetIcon finds one icon by case-insensitive (provider, id).
func (s *CatalogStore) GetIcon(_ context.Context, provider, id string) (*models.Icon, error) {
	icons, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range icons {
		if strings.EqualFold(icons[i].Provider, provider) && strings.EqualFold(icons[i].ID, id) {
			icon := icons[i]
			return &icon, nil
		}
	}
	return nil, models.ErrNotFound
}

// ListProviders returns the distinct providers in the catalog, sorted.
func (s *CatalogStore) ListProviders(_ context.Context) ([]string, error) {
	icons, err := s.load()
	if err != nil {
		return nil, err
	}
	return distinctSorted(icons, func(icon *models.Icon) []string {
		return []string{icon.Provider}
	}), nil
}

// ListTags returns the distinct tag names in the catalog, sorted.
func (s *CatalogStore) ListTags(_ context.Context) ([]string, error) {
	icons, err := s.load()
	if err != nil {
		return nil, err
	}
	return distinctSorted(icons, func(icon *models.Icon) []string {
		return icon.Tags
	}), nil
}

// Health reports a degraded-but-serving status: the catalog answering at
// all means the service can still resolve icons without the database.
func (s *CatalogStore) Health(_ context.Context) (*models.HealthStatus, error) {
	icons, err := s.load()
	if err != nil {
		return nil, err
	}
	return &models.HealthStatus{
		Status:    "degraded",
		ItemCount: len(icons),
	}, nil
}

func matchesQuery(icon *models.Icon, query ListQuery) bool {
	if !query.wantsAllProviders() && !strings.EqualFold(icon.Provider, query.Provider) {
		return false
	}

	if query.Search != "" && !matchesSearch(icon, query.Search) {
		return false
	}

	if len(query.Tags) > 0 && !hasAnyTag(icon, query.Tags) {
		return false
	}

	return true
}

// matchesSearch mirrors the database search: case-insensitive substring
// match against name, description, identifier, or any tag.
func matchesSearch(icon *models.Icon, search string) bool {
	if strings.Contains(strings.ToLower(icon.IconName), search) ||
		strings.Contains(strings.ToLower(icon.Description), search) ||
		strings.Contains(strings.ToLower(icon.ID), search) {
		return true
	}
	for _, tag := range icon.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// hasAnyTag reports whether the icon carries at least one requested tag
// (OR semantics across the requested set). Requested tags are already
// lowered by Normalize.
func hasAnyTag(icon *models.Icon, requested []string) bool {
	for _, tag := range icon.Tags {
		lowered := strings.ToLower(tag)
		for _, want := range requested {
			if lowered == want {
				return true
			}
		}
	}
	return false
}

// sortIcons orders by provider then name so page boundaries are stable
// across calls, matching the database ORDER BY.
func sortIcons(icons []models.Icon) {
	sort.SliceStable(icons, func(i, j int) bool {
		pi, pj := strings.ToLower(icons[i].Provider), strings.ToLower(icons[j].Provider)
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(icons[i].IconName) < strings.ToLower(icons[j].IconName)
	})
}

func distinctSorted(icons []models.Icon, extract func(*models.Icon) []string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for i := range icons {
		for _, value := range extract(&icons[i]) {
			if value == "" {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			values = append(values, value)
		}
	}
	sort.Strings(values)
	return values
}
