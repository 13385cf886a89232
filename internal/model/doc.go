// Package model defines shared data types used across the Market Pulse engine.
//
// All types mirror the database schema applied by internal/store.
//
// Conventions:
//   - Timestamps: time.Time, always UTC
//   - Scores: sentiment in [-1, 1], novelty in [0, 1], confidence in [0, 1],
//     credibility in [0, 100]
//   - IDs: int64 for articles and signals, string symbols for tickers
package model
