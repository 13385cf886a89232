package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alextesy/market-pulse/internal/model"
)

// InsertPriceBars writes OHLCV bars, skipping rows that already exist for
// their (ticker, ts, timeframe) key. Returns inserted and skipped counts.
func (s *Store) InsertPriceBars(ctx context.Context, bars []model.PriceBar) (inserted, skipped int, err error) {
	if len(bars) == 0 {
		return 0, 0, nil
	}

	err = s.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		inserted, skipped = 0, 0

		batch := &pgx.Batch{}
		for _, b := range bars {
			batch.Queue(`
				INSERT INTO price_bar (ticker, ts, o, h, l, c, v, timeframe)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (ticker, ts, timeframe) DO NOTHING`,
				b.Ticker, b.TS, b.Open, b.High, b.Low, b.Close, b.Volume, b.Timeframe)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range bars {
			tag, err := br.Exec()
			if err != nil {
				return fmt.Errorf("insert price bar: %w", err)
			}
			if tag.RowsAffected() == 0 {
				skipped++
			} else {
				inserted++
			}
		}
		return br.Close()
	})
	if err != nil {
		return 0, 0, fmt.Errorf("insert %d price bars: %w", len(bars), err)
	}
	return inserted, skipped, nil
}

// PriceBarsByTicker returns bars for one ticker and timeframe with ts in
// [from, to), oldest first.
func (s *Store) PriceBarsByTicker(ctx context.Context, ticker, timeframe string, from, to time.Time) ([]model.PriceBar, error) {
	const q = `
		SELECT ticker, ts, o, h, l, c, v, timeframe
		FROM price_bar
		WHERE ticker = $1 AND timeframe = $2 AND ts >= $3 AND ts < $4
		ORDER BY ts`

	rows, err := s.pool.Query(ctx, q, ticker, timeframe, from, to)
	if err != nil {
		return nil, fmt.Errorf("price bars for %s: %w", ticker, err)
	}
	defer rows.Close()

	var out []model.PriceBar
	for rows.Next() {
		var b model.PriceBar
		if err := rows.Scan(&b.Ticker, &b.TS, &b.Open, &b.High, &b.Low,
			&b.Close, &b.Volume, &b.Timeframe); err != nil {
			return nil, fmt.Errorf("scan price bar: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
