// Package scorer is the client for the external sentiment scoring service.
// Model inference runs out of process; this package only fetches and caches
// the per-article scores the aggregation runner consumes.
package scorer
