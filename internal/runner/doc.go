// Package runner schedules signal aggregation. Each cycle discovers the
// (ticker, bucket) units touched by recent articles and rebuilds their
// signals concurrently, bounded by the configured concurrency limit.
package runner
