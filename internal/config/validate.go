package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *EngineConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Scoring.SentimentWeight < 0 || c.Scoring.NoveltyWeight < 0 || c.Scoring.VelocityWeight < 0 {
		return errors.New("scoring weights must be non-negative")
	}
	sum := c.Scoring.SentimentWeight + c.Scoring.NoveltyWeight + c.Scoring.VelocityWeight
	if sum < 0.9 || sum > 1.1 {
		return fmt.Errorf("scoring weights must sum to ~1.0, got %.3f", sum)
	}
	if c.Scoring.HalfLife <= 0 {
		return errors.New("scoring.half_life must be positive")
	}
	if c.Scoring.VelocityCap <= 0 {
		return errors.New("scoring.velocity_cap must be positive")
	}
	if c.Scoring.VelocityBaselineBuckets < 1 {
		return errors.New("scoring.velocity_baseline_buckets must be >= 1")
	}
	if c.Scoring.NoveltyLookbackBuckets < 1 {
		return errors.New("scoring.novelty_lookback_buckets must be >= 1")
	}
	if c.Scoring.MaxContributors < 1 {
		return errors.New("scoring.max_contributors must be >= 1")
	}
	if c.Scoring.Timeframe <= 0 {
		return errors.New("scoring.timeframe must be positive")
	}

	if c.Embed.Dims < 1 {
		return errors.New("embedding.dims must be >= 1")
	}

	if c.Runner.Concurrency < 1 {
		return errors.New("runner.concurrency must be >= 1")
	}
	if c.Runner.UnitTimeout <= 0 {
		return errors.New("runner.unit_timeout must be positive")
	}
	if c.Runner.LookbackBuckets < 1 {
		return errors.New("runner.lookback_buckets must be >= 1")
	}

	if c.Store.MaxRetries < 1 {
		return errors.New("store.max_retries must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
