// Package storage caches analysis reports so repeated runs against the
// same URL can skip the fetch and feature pipeline.
package storage

import (
	"context"
	"time"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

// ReportStore persists analysis reports keyed by canonicalized URL.
type ReportStore interface {
	// Put stores a report under its URL, replacing any previous entry.
	Put(report *models.Report) error

	// Get retrieves the cached report for a URL.
	// Returns (nil, false, nil) on a cache miss, including expired entries.
	Get(url string) (report *models.Report, found bool, err error)

	// Delete removes the cached report for a URL. Deleting a missing entry
	// is not an error.
	Delete(url string) error

	// Count returns an approximate number of cached reports.
	Count() (int, error)

	// RunGC runs periodic value-log garbage collection. Should be run in a
	// goroutine; returns when ctx is cancelled.
	RunGC(ctx context.Context, interval time.Duration)

	// Close cleanly closes the store.
	Close() error
}
