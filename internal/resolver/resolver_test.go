package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/cache"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/content"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/models"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/repository"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/resolver"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/testhelpers"
)

const storageAccountSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 18 18">` +
	`<script>alert(1)</script><path d="M0 0h18v18H0z" onclick="x()"/></svg>`

// countingStore serves fixed icons and records store round trips.
type countingStore struct {
	icons    map[string]*models.Icon
	err      error
	getCalls int
}

func (s *countingStore) GetIcon(_ context.Context, provider, id string) (*models.Icon, error) {
	s.getCalls++
	if s.err != nil {
		return nil, s.err
	}
	icon, ok := s.icons[models.IconKey(provider, id)]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *icon
	return &copied, nil
}

func (s *countingStore) ListIcons(_ context.Context, query repository.ListQuery) (*models.PaginatedIcons, error) {
	if s.err != nil {
		return nil, s.err
	}
	data := make([]models.Icon, 0, len(s.icons))
	for _, icon := range s.icons {
		data = append(data, *icon)
	}
	return &models.PaginatedIcons{Total: len(data), Page: 1, PageSize: 24, Data: data}, nil
}

func (s *countingStore) ListProviders(context.Context) ([]string, error) {
	return []string{"azure"}, s.err
}

func (s *countingStore) ListTags(context.Context) ([]string, error) {
	return []string{"storage"}, s.err
}

func (s *countingStore) Health(context.Context) (*models.HealthStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.HealthStatus{Status: "healthy", ItemCount: len(s.icons)}, nil
}

// countingAssets serves fixed SVG bytes and records disk reads.
type countingAssets struct {
	files     map[string]string
	readCalls int
}

func (a *countingAssets) ReadRaw(contentPath string) ([]byte, error) {
	a.readCalls++
	data, ok := a.files[contentPath]
	if !ok {
		return nil, content.ErrAssetNotFound
	}
	return []byte(data), nil
}

func storageAccountIcon() *models.Icon {
	return &models.Icon{
		ID:       "storage-account",
		Provider: "azure",
		IconName: "Storage Account",
		Tags:     []string{"storage"},
		SVGPath:  "icons/azure/storage-account.svg",
	}
}

func newTestResolver(t *testing.T) (*resolver.Resolver, *countingStore, *countingAssets) {
	t.Helper()

	store := &countingStore{
		icons: map[string]*models.Icon{
			models.IconKey("azure", "storage-account"): storageAccountIcon(),
		},
	}
	assets := &countingAssets{
		files: map[string]string{
			"icons/azure/storage-account.svg": storageAccountSVG,
		},
	}

	r := resolver.New(resolver.Options{
		Store:        store,
		Assets:       assets,
		IconCache:    cache.NewMemoryCache(0),
		ContentCache: cache.NewMemoryCache(100),
		Logger:       testhelpers.NewTestLogger(),
		DefaultSize:  64,
	})
	return r, store, assets
}

func TestResolveMetadataCachesPositiveResults(t *testing.T) {
	r, store, _ := newTestResolver(t)
	ctx := context.Background()

	icon, err := r.ResolveMetadata(ctx, "azure", "storage-account")
	require.NoError(t, err)
	assert.Equal(t, "storage-account", icon.ID)
	assert.Equal(t, []string{"storage"}, icon.Tags)

	again, err := r.ResolveMetadata(ctx, "azure", "storage-account")
	require.NoError(t, err)
	assert.Equal(t, icon, again)
	assert.Equal(t, 1, store.getCalls, "second lookup should be served from cache")
}

func TestResolveMetadataKeyIsCaseInsensitive(t *testing.T) {
	r, store, _ := newTestResolver(t)
	ctx := context.Background()

	_, err := r.ResolveMetadata(ctx, "AZURE", "Storage-Account")
	require.NoError(t, err)
	_, err = r.ResolveMetadata(ctx, "azure", "storage-account")
	require.NoError(t, err)

	assert.Equal(t, 1, store.getCalls)
}

func TestResolveMetadataNegativeResultsNotCached(t *testing.T) {
	r, store, _ := newTestResolver(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := r.ResolveMetadata(ctx, "azure", "no-such-icon")
		assert.ErrorIs(t, err, models.ErrNotFound)
	}
	assert.Equal(t, 2, store.getCalls, "a miss must reach the store every time")
}

func TestResolveMetadataStoreErrorsPropagate(t *testing.T) {
	r, store, _ := newTestResolver(t)
	store.err = models.ErrDataUnavailable

	_, err := r.ResolveMetadata(context.Background(), "azure", "storage-account")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestResolveContentSanitizesAndResizes(t *testing.T) {
	r, _, _ := newTestResolver(t)

	result, err := r.ResolveContent(context.Background(), "azure", "storage-account", 64)
	require.NoError(t, err)

	assert.Equal(t, "storage-account", result.ID)
	assert.Equal(t, 64, result.Size)
	assert.Contains(t, result.SVGContent, `width="64"`)
	assert.Contains(t, result.SVGContent, `height="64"`)
	assert.Contains(t, result.SVGContent, `preserveAspectRatio="xMidYMid meet"`)
	assert.NotContains(t, result.SVGContent, "<script")
	assert.NotContains(t, result.SVGContent, "onclick")
}

func TestResolveContentCachesPerSize(t *testing.T) {
	r, _, assets := newTestResolver(t)
	ctx := context.Background()

	first, err := r.ResolveContent(ctx, "azure", "storage-account", 64)
	require.NoError(t, err)
	second, err := r.ResolveContent(ctx, "azure", "storage-account", 64)
	require.NoError(t, err)
	assert.Equal(t, first.SVGContent, second.SVGContent)
	assert.Equal(t, 1, assets.readCalls, "repeat lookup at the same size should not touch disk")

	bigger, err := r.ResolveContent(ctx, "azure", "storage-account", 128)
	require.NoError(t, err)
	assert.Contains(t, bigger.SVGContent, `width="128"`)
	assert.Equal(t, 2, assets.readCalls, "a new size renders fresh content")
}

func TestResolveContentDefaultSize(t *testing.T) {
	r, _, _ := newTestResolver(t)

	result, err := r.ResolveContent(context.Background(), "azure", "storage-account", 0)
	require.NoError(t, err)
	assert.Equal(t, 64, result.Size)
	assert.Contains(t, result.SVGContent, `width="64"`)
}

func TestResolveContentMissingAsset(t *testing.T) {
	r, store, assets := newTestResolver(t)
	ctx := context.Background()

	store.icons[models.IconKey("azure", "ghost")] = &models.Icon{
		ID:       "ghost",
		Provider: "azure",
		IconName: "Ghost",
		SVGPath:  "icons/azure/ghost.svg",
	}

	result, err := r.ResolveContent(ctx, "azure", "ghost", 64)
	require.NoError(t, err, "a missing asset degrades to empty content, not an error")
	assert.Equal(t, "ghost", result.ID)
	assert.Empty(t, result.SVGContent)

	// Empty content is never cached, so the next lookup retries the disk.
	reads := assets.readCalls
	_, err = r.ResolveContent(ctx, "azure", "ghost", 64)
	require.NoError(t, err)
	assert.Equal(t, reads+1, assets.readCalls)
}

func TestResolveContentNotFoundPropagates(t *testing.T) {
	r, _, assets := newTestResolver(t)

	_, err := r.ResolveContent(context.Background(), "azure", "no-such-icon", 64)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, assets.readCalls)
}

func TestFlushCachesForcesRefetch(t *testing.T) {
	r, store, assets := newTestResolver(t)
	ctx := context.Background()

	_, err := r.ResolveContent(ctx, "azure", "storage-account", 64)
	require.NoError(t, err)

	r.FlushCaches()

	_, err = r.ResolveContent(ctx, "azure", "storage-account", 64)
	require.NoError(t, err)
	assert.Equal(t, 2, store.getCalls)
	assert.Equal(t, 2, assets.readCalls)
}

func TestListingsBypassCaches(t *testing.T) {
	r, _, _ := newTestResolver(t)
	ctx := context.Background()

	result, err := r.ListIcons(ctx, repository.ListQuery{Provider: "all"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)

	providers, err := r.ListProviders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"azure"}, providers)

	tags, err := r.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"storage"}, tags)

	status, err := r.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
}

func TestListIconsWithContentHydratesEachItem(t *testing.T) {
	r, _, assets := newTestResolver(t)
	ctx := context.Background()

	result, err := r.ListIconsWithContent(ctx, repository.ListQuery{Provider: "all"}, 32)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)

	item := result.Data[0]
	assert.Equal(t, "storage-account", item.ID)
	assert.Equal(t, 32, item.Size)
	assert.Contains(t, item.SVGContent, `width="32"`)
	assert.NotContains(t, item.SVGContent, "<script")
	assert.Equal(t, 1, assets.readCalls)
}

func TestListIconsWithContentUsesContentCache(t *testing.T) {
	r, _, assets := newTestResolver(t)
	ctx := context.Background()

	// A single lookup warms the content cache for that (icon, size).
	_, err := r.ResolveContent(ctx, "azure", "storage-account", 64)
	require.NoError(t, err)

	result, err := r.ListIconsWithContent(ctx, repository.ListQuery{Provider: "all"}, 64)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Contains(t, result.Data[0].SVGContent, `width="64"`)
	assert.Equal(t, 1, assets.readCalls, "hydration should hit the content cache")
}

func TestListIconsWithContentDefaultSize(t *testing.T) {
	r, _, _ := newTestResolver(t)

	result, err := r.ListIconsWithContent(context.Background(), repository.ListQuery{Provider: "all"}, 0)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, 64, result.Data[0].Size)
	assert.Contains(t, result.Data[0].SVGContent, `width="64"`)
}

func TestListIconsWithContentMissingAssetDegrades(t *testing.T) {
	r, store, _ := newTestResolver(t)
	ghost := &models.Icon{ID: "ghost", Provider: "azure", IconName: "Ghost", SVGPath: "icons/azure/ghost.svg"}
	store.icons[ghost.Key()] = ghost

	result, err := r.ListIconsWithContent(context.Background(), repository.ListQuery{Provider: "all"}, 64)
	require.NoError(t, err)
	require.Len(t, result.Data, 2)

	for _, item := range result.Data {
		if item.ID == "ghost" {
			assert.Empty(t, item.SVGContent)
		} else {
			assert.NotEmpty(t, item.SVGContent)
		}
	}
}

func TestListIconsWithContentStoreErrorsPropagate(t *testing.T) {
	r, store, _ := newTestResolver(t)
	store.err = models.ErrStoreUnavailable

	_, err := r.ListIconsWithContent(context.Background(), repository.ListQuery{Provider: "all"}, 64)
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestResolveMetadataDistinctErrors(t *testing.T) {
	r, store, _ := newTestResolver(t)
	store.err = errors.New("connection refused")

	_, err := r.ResolveMetadata(context.Background(), "azure", "storage-account")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}
