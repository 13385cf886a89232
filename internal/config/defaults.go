package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDBPort                  = 5432
	DefaultDBSSLMode               = "prefer"
	DefaultMaxConns                = 10
	DefaultMinConns                = 2
	DefaultSentimentWeight         = 0.4
	DefaultNoveltyWeight           = 0.3
	DefaultVelocityWeight          = 0.3
	DefaultHalfLife                = 6 * time.Hour
	DefaultVelocityCap             = 10.0
	DefaultVelocityBaselineBuckets = 24
	DefaultNoveltyLookbackBuckets  = 24
	DefaultMaxContributors         = 2
	DefaultTimeframe               = time.Hour
	DefaultEmbedModel              = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultEmbedDims               = 384
	DefaultRunnerInterval          = 15 * time.Minute
	DefaultRunnerConcurrency       = 8
	DefaultUnitTimeout             = 30 * time.Second
	DefaultLookbackBuckets         = 4
	DefaultMaxRetries              = 3
	DefaultRetryBaseDelay          = 50 * time.Millisecond
	DefaultRetryMaxDelay           = 2 * time.Second
	DefaultReconcileInterval       = 15 * time.Minute
	DefaultScorerTimeout           = 10 * time.Second
	DefaultMetricsPort             = 9090
	DefaultMetricsPath             = "/metrics"
)

func (c *EngineConfig) applyDefaults() {
	applyDBDefaults(&c.Database.Postgres)

	// Scoring defaults
	if c.Scoring.SentimentWeight == 0 && c.Scoring.NoveltyWeight == 0 && c.Scoring.VelocityWeight == 0 {
		c.Scoring.SentimentWeight = DefaultSentimentWeight
		c.Scoring.NoveltyWeight = DefaultNoveltyWeight
		c.Scoring.VelocityWeight = DefaultVelocityWeight
	}
	if c.Scoring.HalfLife == 0 {
		c.Scoring.HalfLife = DefaultHalfLife
	}
	if c.Scoring.VelocityCap == 0 {
		c.Scoring.VelocityCap = DefaultVelocityCap
	}
	if c.Scoring.VelocityBaselineBuckets == 0 {
		c.Scoring.VelocityBaselineBuckets = DefaultVelocityBaselineBuckets
	}
	if c.Scoring.NoveltyLookbackBuckets == 0 {
		c.Scoring.NoveltyLookbackBuckets = DefaultNoveltyLookbackBuckets
	}
	if c.Scoring.MaxContributors == 0 {
		c.Scoring.MaxContributors = DefaultMaxContributors
	}
	if c.Scoring.Timeframe == 0 {
		c.Scoring.Timeframe = DefaultTimeframe
	}

	// Embedding defaults
	if c.Embed.Model == "" {
		c.Embed.Model = DefaultEmbedModel
	}
	if c.Embed.Dims == 0 {
		c.Embed.Dims = DefaultEmbedDims
	}

	// Runner defaults
	if c.Runner.Interval == 0 {
		c.Runner.Interval = DefaultRunnerInterval
	}
	if c.Runner.Concurrency == 0 {
		c.Runner.Concurrency = DefaultRunnerConcurrency
	}
	if c.Runner.UnitTimeout == 0 {
		c.Runner.UnitTimeout = DefaultUnitTimeout
	}
	if c.Runner.LookbackBuckets == 0 {
		c.Runner.LookbackBuckets = DefaultLookbackBuckets
	}

	// Store defaults
	if c.Store.MaxRetries == 0 {
		c.Store.MaxRetries = DefaultMaxRetries
	}
	if c.Store.RetryBaseDelay == 0 {
		c.Store.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.Store.RetryMaxDelay == 0 {
		c.Store.RetryMaxDelay = DefaultRetryMaxDelay
	}

	// Refdata defaults
	if c.Refdata.ReconcileInterval == 0 {
		c.Refdata.ReconcileInterval = DefaultReconcileInterval
	}

	// Scorer defaults
	if c.Scorer.Timeout == 0 {
		c.Scorer.Timeout = DefaultScorerTimeout
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
