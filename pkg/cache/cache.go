// Package cache provides byte-level caching with TTL support.
//
// The analyzer uses it to memoize portageq output, which is stable between
// world updates but slow to query per package. Backends implement the
// [Cache] interface; [FileCache] persists entries under a directory for CLI
// usage and [NullCache] disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-level cache with TTL support.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A non-positive TTL stores forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MetadataKey builds the cache key for a package's dependency-variable
// query. The variable list is part of the key so a config change never
// serves stale shapes.
func MetadataKey(pkg string, vars []string) string {
	return hashKey("portageq", pkg, vars)
}

// ReportKey is the cache key for a captured emerge depclean report.
func ReportKey(args []string) string {
	return hashKey("emerge", args)
}
