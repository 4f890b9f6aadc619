// Package content reads raw SVG bytes for icons from the content store
// file tree.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
)

// ErrAssetNotFound is returned when the asset is absent at every candidate
// root.
var ErrAssetNotFound = errors.New("asset not found in any content root")

// Reader reads icon assets by relative content path, trying an ordered list
// of candidate base directories. The ordered fallback is a deployment
// portability mechanism, not a cache: every call re-attempts the candidates
// in order and short-circuits on the first successful read.
type Reader struct {
	roots  []string
	logger logger.Logger
}

// NewReader creates a Reader over the given candidate roots, tried in order.
func NewReader(roots []string, log logger.Logger) *Reader {
	return &Reader{
		roots:  roots,
		logger: log,
	}
}

// ReadRaw returns the raw bytes for contentPath from the first candidate
// root holding it. Returns ErrAssetNotFound when no root has the asset.
func (r *Reader) ReadRaw(contentPath string) ([]byte, error) {
	// Force the path under the root so "../" in catalog data cannot
	// escape the content tree.
	relative := filepath.Clean("/" + contentPath)

	var lastErr error
	for _, root := range r.roots {
		fullPath := filepath.Join(root, relative)

		data, err := os.ReadFile(fullPath) // #nosec G304 -- path pinned under candidate root
		if err == nil {
			r.logger.Debug("Asset read",
				logger.String("path", fullPath),
				logger.Int("bytes", len(data)),
			)
			return data, nil
		}

		lastErr = err
		r.logger.Debug("Asset not readable at candidate root, trying next",
			logger.String("root", root),
			logger.String("content_path", contentPath),
			logger.Error(err),
		)
	}

	return nil, fmt.Errorf("%w: %s: %v", ErrAssetNotFound, contentPath, lastErr)
}

// Roots returns the configured candidate roots in lookup order.
func (r *Reader) Roots() []string {
	return r.roots
}
