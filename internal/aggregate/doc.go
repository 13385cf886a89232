// Package aggregate implements the Contribution Aggregator.
//
// For one (ticker, bucket) unit it computes:
//   - Sentiment: weighted average, weight = confidence x recency decay x credibility
//   - Novelty: 1 - max cosine similarity against prior-bucket embeddings
//   - Velocity: bucket count vs trailing-average baseline, capped
//   - Composite score: configured linear combination, clipped to [-1, 1]
//   - Event tags: keyword/method rules, merged and sorted
//   - Contributors: top-K by weight via a fixed-capacity heap
//
// The computation is pure and deterministic; reading the input snapshot and
// persisting the result belong to internal/store and internal/runner.
package aggregate
