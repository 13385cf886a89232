package store

import (
	"context"
	"fmt"
)

// schemaDDL returns the full schema with the embedding column sized to the
// configured model dimensionality.
func schemaDDL(dims int) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,

		`CREATE TABLE IF NOT EXISTS ticker (
			symbol     TEXT PRIMARY KEY,
			name       TEXT,
			exchange   TEXT,
			cik        TEXT,
			aliases    JSONB,
			valid_from TIMESTAMPTZ,
			valid_to   TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS article (
			id            BIGSERIAL PRIMARY KEY,
			source        TEXT NOT NULL,
			url           TEXT NOT NULL UNIQUE,
			url_canonical TEXT,
			published_at  TIMESTAMPTZ NOT NULL,
			retrieved_at  TIMESTAMPTZ,
			title         TEXT,
			text          TEXT,
			lang          TEXT,
			hash          TEXT,
			credibility   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_article_published_at
			ON article (published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_article_hash ON article (hash)`,

		`CREATE TABLE IF NOT EXISTS article_ticker (
			article_id    BIGINT NOT NULL REFERENCES article(id) ON DELETE CASCADE,
			ticker        TEXT NOT NULL REFERENCES ticker(symbol),
			confidence    DOUBLE PRECISION NOT NULL,
			method        TEXT NOT NULL,
			matched_terms JSONB,
			PRIMARY KEY (article_id, ticker)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_article_ticker_ticker
			ON article_ticker (ticker)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS article_embed (
			article_id BIGINT PRIMARY KEY REFERENCES article(id) ON DELETE CASCADE,
			embedding  vector(%d) NOT NULL,
			model      TEXT NOT NULL,
			dims       SMALLINT NOT NULL
		)`, dims),

		`CREATE TABLE IF NOT EXISTS signal (
			id         BIGSERIAL,
			ticker     TEXT NOT NULL REFERENCES ticker(symbol),
			ts         TIMESTAMPTZ NOT NULL,
			sentiment  DOUBLE PRECISION NOT NULL,
			novelty    DOUBLE PRECISION NOT NULL,
			velocity   DOUBLE PRECISION NOT NULL,
			event_tags TEXT[],
			score      DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (id, ts),
			UNIQUE (ticker, ts)
		)`,

		`CREATE TABLE IF NOT EXISTS signal_contrib (
			signal_id  BIGINT NOT NULL,
			article_id BIGINT NOT NULL REFERENCES article(id) ON DELETE CASCADE,
			rank       SMALLINT NOT NULL,
			weight     DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (signal_id, article_id)
		)`,

		`CREATE TABLE IF NOT EXISTS price_bar (
			ticker    TEXT NOT NULL REFERENCES ticker(symbol),
			ts        TIMESTAMPTZ NOT NULL,
			o         DOUBLE PRECISION,
			h         DOUBLE PRECISION,
			l         DOUBLE PRECISION,
			c         DOUBLE PRECISION,
			v         BIGINT,
			timeframe TEXT NOT NULL,
			PRIMARY KEY (ticker, ts, timeframe)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_bar_ticker_ts
			ON price_bar (ticker, ts DESC)`,
	}
}

// hypertableDDL converts the time-series tables when the timescaledb
// extension is installed. Failures here are non-fatal: the tables work as
// plain Postgres tables without it.
var hypertableDDL = []string{
	`SELECT create_hypertable('signal', 'ts', if_not_exists => TRUE, migrate_data => TRUE)`,
	`SELECT create_hypertable('price_bar', 'ts', if_not_exists => TRUE, migrate_data => TRUE)`,
}

// EnsureSchema creates all tables and indexes if they do not exist. dims is
// the embedding vector dimensionality baked into article_embed.
func (s *Store) EnsureSchema(ctx context.Context, dims int) error {
	if dims <= 0 {
		return fmt.Errorf("invalid embedding dims %d", dims)
	}
	for _, ddl := range schemaDDL(dims) {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	for _, ddl := range hypertableDDL {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			s.logger.Warn("hypertable setup skipped", "error", err)
			break
		}
	}
	return nil
}
