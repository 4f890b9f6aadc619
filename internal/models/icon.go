package models

import (
	"fmt"
	"strings"
)

// ProviderAll is the sentinel provider value meaning "no provider filter".
// Matching is case-insensitive.
const ProviderAll = "all"

// Icon is a catalog metadata record for one vector image asset.
// (provider, id) lowercased is the unique key.
type Icon struct {
	ID          string   `json:"id"          db:"id"`
	Provider    string   `json:"provider"    db:"provider"`
	IconName    string   `json:"icon_name"   db:"icon_name"`
	Description string   `json:"description" db:"description"`
	Tags        []string `json:"tags"`
	SVGPath     string   `json:"svg_path"    db:"svg_path"`
	PNGPath     string   `json:"png_path,omitempty" db:"png_path"`
	License     string   `json:"license,omitempty"  db:"license"`
}

// Key returns the canonical cache/lookup key for this icon.
func (i *Icon) Key() string {
	return IconKey(i.Provider, i.ID)
}

// MatchesProvider reports whether the icon belongs to the given provider.
// The ProviderAll sentinel matches every icon.
func (i *Icon) MatchesProvider(provider string) bool {
	if strings.EqualFold(provider, ProviderAll) {
		return true
	}
	return strings.EqualFold(i.Provider, provider)
}

// IconWithContent is an Icon plus its resolved SVG content at one pixel size.
// It is derived on demand and never persisted.
type IconWithContent struct {
	Icon
	SVGContent string `json:"svg_content"`
	Size       int    `json:"size"`
}

// PaginatedIcons is one page of a listing result together with the total
// match count for the query.
type PaginatedIcons struct {
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Data     []Icon `json:"data"`
}

// PaginatedIconsWithContent is one page of a listing result with every
// icon hydrated by its rendered SVG at a single pixel size.
type PaginatedIconsWithContent struct {
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Data     []IconWithContent `json:"data"`
}

// HealthStatus reports metadata store health for the readiness endpoint.
type HealthStatus struct {
	Status    string `json:"status"`
	ItemCount int    `json:"item_count"`
}

// IconKey builds the canonical case-insensitive key for (provider, id).
func IconKey(provider, id string) string {
	return strings.ToLower(provider) + ":" + strings.ToLower(id)
}

// ContentKey builds the cache key for resolved content of one icon at one
// pixel size. Distinct sizes are distinct entries.
func ContentKey(provider, id string, size int) string {
	return fmt.Sprintf("%s:%d", IconKey(provider, id), size)
}

// NormalizeTags returns tags with surrounding whitespace trimmed and
// empty entries dropped. Order is preserved.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
