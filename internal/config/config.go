package config

import "time"

// EngineConfig is the root configuration for a pulse engine instance.
type EngineConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Database DatabaseConfig `yaml:"database"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Embed    EmbedConfig    `yaml:"embedding"`
	Runner   RunnerConfig   `yaml:"runner"`
	Store    StoreConfig    `yaml:"store"`
	Refdata  RefdataConfig  `yaml:"refdata"`
	Scorer   ScorerConfig   `yaml:"scorer"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this engine instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// DatabaseConfig holds the PostgreSQL/TimescaleDB connection.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// ScoringConfig holds aggregation parameters. Weights and decay are external
// configuration; the aggregator never hard-codes them.
type ScoringConfig struct {
	SentimentWeight         float64       `yaml:"sentiment_weight"`
	NoveltyWeight           float64       `yaml:"novelty_weight"`
	VelocityWeight          float64       `yaml:"velocity_weight"`
	HalfLife                time.Duration `yaml:"half_life"`
	VelocityCap             float64       `yaml:"velocity_cap"`
	VelocityBaselineBuckets int           `yaml:"velocity_baseline_buckets"`
	NoveltyLookbackBuckets  int           `yaml:"novelty_lookback_buckets"`
	MaxContributors         int           `yaml:"max_contributors"`
	Timeframe               time.Duration `yaml:"timeframe"`
}

// EmbedConfig identifies the embedding model articles are vectorized with.
// Dims is baked into the article_embed column and must match every stored
// vector.
type EmbedConfig struct {
	Model string `yaml:"model"`
	Dims  int    `yaml:"dims"`
}

// RunnerConfig holds aggregation runner settings.
type RunnerConfig struct {
	Interval        time.Duration `yaml:"interval"`
	Concurrency     int           `yaml:"concurrency"`
	UnitTimeout     time.Duration `yaml:"unit_timeout"`
	LookbackBuckets int           `yaml:"lookback_buckets"`
}

// StoreConfig holds transactional retry settings.
type StoreConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	RetryMaxDelay  time.Duration `yaml:"retry_max_delay"`
}

// RefdataConfig holds ticker reference registry settings.
type RefdataConfig struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
}

// ScorerConfig points at the external sentiment scoring service. An empty
// URL disables sentiment lookups; buckets then aggregate without qualifying
// contributors until a scorer is configured.
type ScorerConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Enabled reports whether a scoring service is configured.
func (sc ScorerConfig) Enabled() bool { return sc.URL != "" }

// MetricsConfig holds health/metrics endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
