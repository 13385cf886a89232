package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alextesy/market-pulse/internal/model"
)

// ReplaceSignal writes one signal and its contributor rows, replacing any
// previous signal for the same (ticker, bucket) in the same transaction.
// Re-running the same bucket leaves the table in an identical logical state.
func (s *Store) ReplaceSignal(ctx context.Context, sig model.Signal, contribs []model.SignalContribution) (int64, error) {
	var id int64
	err := s.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM signal_contrib WHERE signal_id IN
				(SELECT id FROM signal WHERE ticker = $1 AND ts = $2)`,
			sig.Ticker, sig.TS); err != nil {
			return fmt.Errorf("clear contributions: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM signal WHERE ticker = $1 AND ts = $2`,
			sig.Ticker, sig.TS); err != nil {
			return fmt.Errorf("clear signal: %w", err)
		}

		if err := tx.QueryRow(ctx, `
			INSERT INTO signal (ticker, ts, sentiment, novelty, velocity, event_tags, score)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			sig.Ticker, sig.TS, sig.Sentiment, sig.Novelty, sig.Velocity,
			sig.EventTags, sig.Score,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert signal: %w", err)
		}

		if len(contribs) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, c := range contribs {
			batch.Queue(`
				INSERT INTO signal_contrib (signal_id, article_id, rank, weight)
				VALUES ($1, $2, $3, $4)`,
				id, c.ArticleID, c.Rank, c.Weight)
		}
		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range contribs {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("insert contribution: %w", err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return 0, fmt.Errorf("replace signal %s@%s: %w",
			sig.Ticker, sig.TS.Format(time.RFC3339), err)
	}
	return id, nil
}

// SignalsByTicker returns signals for a ticker with ts in [from, to),
// newest first.
func (s *Store) SignalsByTicker(ctx context.Context, ticker string, from, to time.Time) ([]model.Signal, error) {
	const q = `
		SELECT id, ticker, ts, sentiment, novelty, velocity, event_tags, score
		FROM signal
		WHERE ticker = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts DESC`

	rows, err := s.pool.Query(ctx, q, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("signals for %s: %w", ticker, err)
	}
	defer rows.Close()

	var out []model.Signal
	for rows.Next() {
		var sig model.Signal
		if err := rows.Scan(&sig.ID, &sig.Ticker, &sig.TS,
			&sig.Sentiment, &sig.Novelty, &sig.Velocity,
			&sig.EventTags, &sig.Score); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

// SignalContributions returns the contributor rows for one signal in rank
// order.
func (s *Store) SignalContributions(ctx context.Context, signalID int64) ([]model.SignalContribution, error) {
	const q = `
		SELECT signal_id, article_id, rank, weight
		FROM signal_contrib
		WHERE signal_id = $1
		ORDER BY rank`

	rows, err := s.pool.Query(ctx, q, signalID)
	if err != nil {
		return nil, fmt.Errorf("contributions for signal %d: %w", signalID, err)
	}
	defer rows.Close()

	var out []model.SignalContribution
	for rows.Next() {
		var c model.SignalContribution
		if err := rows.Scan(&c.SignalID, &c.ArticleID, &c.Rank, &c.Weight); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
