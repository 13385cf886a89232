// Package linker implements the Ticker Link Resolver.
//
// The resolver:
//   - Merges multi-method mention evidence into one row per (article, ticker)
//   - Applies the fixed method priority: cashtag > dict > synonym > ner
//   - Clamps out-of-range confidences and flags them
//   - Filters tickers against the reference validity window at publication time
//
// It is a pure function over its inputs plus an injected Reference lookup;
// persistence happens in internal/store.
package linker
