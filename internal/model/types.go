package model

import "time"

// -----------------------------------------------------------------------------
// Reference Types
// -----------------------------------------------------------------------------

// Ticker represents a tradable symbol with a validity window and alias set.
// Reference data: seeded externally, read-only from this engine.
type Ticker struct {
	Symbol    string     // Primary key (e.g., "AAPL")
	Name      string     // Company name
	Exchange  string     // Listing exchange
	CIK       string     // SEC Central Index Key, if known
	Aliases   []string   // Synonym strings used by the linker
	ValidFrom *time.Time // Start of validity window (nil = open)
	ValidTo   *time.Time // End of validity window (nil = still valid)
}

// ValidAt reports whether the symbol was a valid reference as of t.
func (tk Ticker) ValidAt(t time.Time) bool {
	if tk.ValidFrom != nil && t.Before(*tk.ValidFrom) {
		return false
	}
	if tk.ValidTo != nil && t.After(*tk.ValidTo) {
		return false
	}
	return true
}

// -----------------------------------------------------------------------------
// Article Types
// -----------------------------------------------------------------------------

// Article is a normalized content item (news, filing, social post).
type Article struct {
	ID           int64     // Assigned on first successful insert
	Source       string    // Collector name (e.g., "gdelt", "sec")
	URL          string    // Unique across all sources
	URLCanonical string    // Canonicalized form of URL
	PublishedAt  time.Time // UTC, required
	RetrievedAt  time.Time // UTC
	Title        string
	Text         string  // Cleaned body text
	Lang         string  // ISO-639-1 code
	Hash         string  // Content fingerprint (SHA-1 of title+host, or full text)
	Credibility  float64 // Source credibility, 0-100
}

// LinkMethod identifies how a ticker mention was detected.
// Persisted values are the collector wire strings.
type LinkMethod string

const (
	// MethodCashtag is a direct symbol mention (e.g., "$AAPL").
	MethodCashtag LinkMethod = "cashtag"
	// MethodDict is a company-dictionary match.
	MethodDict LinkMethod = "dict"
	// MethodSynonym is an alias/synonym match.
	MethodSynonym LinkMethod = "synonym"
	// MethodNER is a named-entity-recognition match.
	MethodNER LinkMethod = "ner"
)

// Priority returns the merge priority of the method. Higher wins.
func (m LinkMethod) Priority() int {
	switch m {
	case MethodCashtag:
		return 4
	case MethodDict:
		return 3
	case MethodSynonym:
		return 2
	case MethodNER:
		return 1
	default:
		return 0
	}
}

// Known reports whether m is one of the fixed method enumeration.
func (m LinkMethod) Known() bool {
	return m.Priority() > 0
}

// ArticleTicker links one article to one ticker. At most one row exists per
// (article, ticker) pair; the linker merges multi-method evidence first.
type ArticleTicker struct {
	ArticleID    int64
	Ticker       string
	Confidence   float64 // 0-1
	Method       LinkMethod
	MatchedTerms []string // Surface terms that triggered the match
}

// EmbeddingRecord is one vector per article.
type EmbeddingRecord struct {
	ArticleID int64
	Embedding []float32 // len(Embedding) must equal Dims
	Model     string    // Embedding model identifier
	Dims      int
}

// -----------------------------------------------------------------------------
// Signal Types
// -----------------------------------------------------------------------------

// Signal is a per-ticker, per-bucket composite observation. Immutable once
// written; a re-run for the same bucket replaces it wholesale.
type Signal struct {
	ID        int64
	Ticker    string
	TS        time.Time // Bucket timestamp (start of bucket), UTC
	Sentiment float64   // Weighted average, [-1, 1]
	Novelty   float64   // Weighted average, [0, 1]
	Velocity  float64   // Count vs rolling baseline, [0, velocity cap]
	EventTags []string  // De-duplicated, sorted
	Score     float64   // Composite, [-1, 1]
}

// SignalContribution links a signal to one contributing article.
// Ranks are contiguous starting at 1 for a given signal.
type SignalContribution struct {
	SignalID  int64
	ArticleID int64
	Rank      int
	Weight    float64 // Contribution weight (confidence x recency x credibility)
}

// -----------------------------------------------------------------------------
// Market Data Types
// -----------------------------------------------------------------------------

// PriceBar is an OHLCV bar, consumed for alignment/backtesting only.
type PriceBar struct {
	Ticker    string
	TS        time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Timeframe string // "1m", "1h", or "1d"
}
