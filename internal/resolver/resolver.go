// Package resolver is the lookup core of the icon catalog: it resolves
// icon metadata and rendered SVG content through the cache tiers, the
// metadata stores, and the asset reader.
package resolver

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/cache"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/content"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/metrics"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/models"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/repository"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/svg"
)

// AssetReader reads raw icon assets by relative content path.
type AssetReader interface {
	ReadRaw(contentPath string) ([]byte, error)
}

// Resolver answers icon lookups. Cache tiers are injected, so two
// resolvers never share state implicitly; concurrent misses for the same
// key collapse into one store or disk round trip via singleflight.
type Resolver struct {
	store        repository.Store
	assets       AssetReader
	iconCache    cache.Cache
	contentCache cache.Cache
	group        singleflight.Group
	logger       logger.Logger
	metrics      *metrics.Metrics
	defaultSize  int
}

// Options configures a Resolver.
type Options struct {
	Store        repository.Store
	Assets       AssetReader
	IconCache    cache.Cache
	ContentCache cache.Cache
	Logger       logger.Logger
	Metrics      *metrics.Metrics

	// DefaultSize is the pixel size applied when a caller does not ask
	// for one.
	DefaultSize int
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	if opts.DefaultSize <= 0 {
		opts.DefaultSize = 64
	}
	return &Resolver{
		store:        opts.Store,
		assets:       opts.Assets,
		iconCache:    opts.IconCache,
		contentCache: opts.ContentCache,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		defaultSize:  opts.DefaultSize,
	}
}

// ResolveMetadata returns the icon for (provider, id), consulting the
// metadata cache before the store. Negative results are never cached, so
// an icon added later is visible immediately.
func (r *Resolver) ResolveMetadata(ctx context.Context, provider, id string) (*models.Icon, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveLookup("resolve_metadata", time.Since(start).Seconds())
	}()

	key := models.IconKey(provider, id)

	if cached, ok := r.iconCache.Get(ctx, key); ok {
		var icon models.Icon
		if err := json.Unmarshal([]byte(cached), &icon); err == nil {
			return &icon, nil
		}
		r.logger.Warn("Discarding undecodable cached icon metadata",
			logger.String("key", key),
		)
	}

	result, err, _ := r.group.Do("meta:"+key, func() (any, error) {
		icon, storeErr := r.store.GetIcon(ctx, provider, id)
		if storeErr != nil {
			return nil, storeErr
		}
		r.cacheIcon(ctx, key, icon)
		return icon, nil
	})
	if err != nil {
		return nil, err
	}

	// Copy so concurrent callers sharing one flight never alias.
	icon := *result.(*models.Icon)
	return &icon, nil
}

// ResolveContent returns the icon with its sanitized SVG rendered at the
// requested pixel size (the default size when size is zero). A missing
// SVG asset is not an error: the metadata is still returned with empty
// content, and the gap is logged and counted.
func (r *Resolver) ResolveContent(ctx context.Context, provider, id string, size int) (*models.IconWithContent, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveLookup("resolve_content", time.Since(start).Seconds())
	}()

	if size <= 0 {
		size = r.defaultSize
	}

	icon, err := r.ResolveMetadata(ctx, provider, id)
	if err != nil {
		return nil, err
	}

	return &models.IconWithContent{Icon: *icon, SVGContent: r.contentFor(ctx, icon, size), Size: size}, nil
}

// contentFor returns the rendered SVG for an already-resolved icon at the
// given size, consulting the content cache first and collapsing concurrent
// renders of the same (icon, size) into one.
func (r *Resolver) contentFor(ctx context.Context, icon *models.Icon, size int) string {
	key := models.ContentKey(icon.Provider, icon.ID, size)
	if cached, ok := r.contentCache.Get(ctx, key); ok {
		return cached
	}

	result, _, _ := r.group.Do("content:"+key, func() (any, error) {
		return r.renderContent(ctx, key, icon, size), nil
	})
	return result.(string)
}

// renderContent reads, sanitizes, and resizes the icon's SVG, filling the
// content cache on success. An unreadable asset yields empty content,
// which is never cached so the next lookup retries the disk.
func (r *Resolver) renderContent(ctx context.Context, key string, icon *models.Icon, size int) string {
	if icon.SVGPath == "" {
		r.reportMissingAsset(icon, nil)
		return ""
	}

	raw, err := r.assets.ReadRaw(icon.SVGPath)
	if err != nil {
		r.reportMissingAsset(icon, err)
		return ""
	}

	rendered := svg.Resize(svg.Sanitize(string(raw)), size)
	r.contentCache.Set(ctx, key, rendered)
	return rendered
}

func (r *Resolver) reportMissingAsset(icon *models.Icon, err error) {
	r.metrics.RecordAssetMissing()
	r.logger.Warn("Icon metadata resolved but SVG asset is unreadable",
		logger.String("provider", icon.Provider),
		logger.String("id", icon.ID),
		logger.String("svg_path", icon.SVGPath),
		logger.Error(err),
	)
}

// ListIcons returns one page of icons matching the query. Listings go
// straight to the store: their result space is too wide to cache usefully.
func (r *Resolver) ListIcons(ctx context.Context, query repository.ListQuery) (*models.PaginatedIcons, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveLookup("list_icons", time.Since(start).Seconds())
	}()
	return r.store.ListIcons(ctx, query)
}

// ListIconsWithContent returns one page of icons matching the query, each
// hydrated with its rendered SVG at the requested pixel size (the default
// size when size is zero). Hydration runs through the content cache per
// icon, so repeated listings of a hot page skip the disk entirely. A
// missing asset degrades that item to empty content, same as ResolveContent.
func (r *Resolver) ListIconsWithContent(ctx context.Context, query repository.ListQuery, size int) (*models.PaginatedIconsWithContent, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveLookup("list_icons_with_content", time.Since(start).Seconds())
	}()

	if size <= 0 {
		size = r.defaultSize
	}

	page, err := r.store.ListIcons(ctx, query)
	if err != nil {
		return nil, err
	}

	hydrated := make([]models.IconWithContent, 0, len(page.Data))
	for i := range page.Data {
		icon := page.Data[i]
		hydrated = append(hydrated, models.IconWithContent{
			Icon:       icon,
			SVGContent: r.contentFor(ctx, &icon, size),
			Size:       size,
		})
	}

	return &models.PaginatedIconsWithContent{
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Data:     hydrated,
	}, nil
}

// ListProviders returns all distinct providers.
func (r *Resolver) ListProviders(ctx context.Context) ([]string, error) {
	return r.store.ListProviders(ctx)
}

// ListTags returns all distinct tag names.
func (r *Resolver) ListTags(ctx context.Context) ([]string, error) {
	return r.store.ListTags(ctx)
}

// Health reports store health.
func (r *Resolver) Health(ctx context.Context) (*models.HealthStatus, error) {
	return r.store.Health(ctx)
}

// FlushCaches drops every flushable cache tier. The catalog watcher calls
// this when the catalog file changes on disk.
func (r *Resolver) FlushCaches() {
	flushed := 0
	for _, c := range []cache.Cache{r.iconCache, r.contentCache} {
		if flusher, ok := c.(cache.Flusher); ok {
			flusher.Flush()
			flushed++
		}
	}
	r.logger.Info("Caches flushed", logger.Int("flushed", flushed))
}

func (r *Resolver) cacheIcon(ctx context.Context, key string, icon *models.Icon) {
	encoded, err := json.Marshal(icon)
	if err != nil {
		r.logger.Warn("Failed to encode icon for caching",
			logger.String("key", key),
			logger.Error(err),
		)
		return
	}
	r.iconCache.Set(ctx, key, string(encoded))
}

var _ AssetReader = (*content.Reader)(nil)
