package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/testhelpers"
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/watcher"
)

func TestWatcherFiresOnCatalogWrite(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "icons.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte("[]"), 0o600))

	fired := make(chan struct{}, 1)
	w, err := watcher.New([]string{catalogPath}, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, testhelpers.NewTestLogger())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watch loop a moment to come up before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(catalogPath, []byte(`[{"id":"x"}]`), 0o600))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change callback after catalog write")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "icons.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte("[]"), 0o600))

	fired := make(chan struct{}, 1)
	w, err := watcher.New([]string{catalogPath}, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, testhelpers.NewTestLogger())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o600))

	select {
	case <-fired:
		t.Fatal("unrelated file should not trigger the callback")
	case <-time.After(time.Second):
	}
}

func TestWatcherRequiresAWatchableDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "icons.json")

	_, err := watcher.New([]string{missing}, func() {}, testhelpers.NewTestLogger())
	assert.Error(t, err)
}

func TestWatcherSkipsMissingCandidates(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "icons.json")
	missing := filepath.Join(dir, "nope", "icons.json")

	w, err := watcher.New([]string{missing, catalogPath}, func() {}, testhelpers.NewTestLogger())
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
