// Package testhelpers provides shared helpers for package tests.
package testhelpers

import (
	"github.com/jonesrussell/north-cloud/icon-catalog/internal/logger"
)

// NewTestLogger returns a logger that discards all output, for use in tests.
func NewTestLogger() logger.Logger {
	return logger.NewNopLogger()
}
