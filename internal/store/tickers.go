package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alextesy/market-pulse/internal/model"
)

// UpsertTickers seeds or refreshes reference symbols. Existing rows are
// updated in place so alias and validity changes propagate.
func (s *Store) UpsertTickers(ctx context.Context, tickers []model.Ticker) error {
	if len(tickers) == 0 {
		return nil
	}

	err := s.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, tk := range tickers {
			aliases, err := json.Marshal(tk.Aliases)
			if err != nil {
				return fmt.Errorf("marshal aliases for %s: %w", tk.Symbol, err)
			}
			batch.Queue(`
				INSERT INTO ticker (symbol, name, exchange, cik, aliases, valid_from, valid_to)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (symbol) DO UPDATE SET
					name       = EXCLUDED.name,
					exchange   = EXCLUDED.exchange,
					cik        = EXCLUDED.cik,
					aliases    = EXCLUDED.aliases,
					valid_from = EXCLUDED.valid_from,
					valid_to   = EXCLUDED.valid_to`,
				tk.Symbol, tk.Name, tk.Exchange, tk.CIK, aliases, tk.ValidFrom, tk.ValidTo)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range tickers {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("upsert ticker: %w", err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return fmt.Errorf("upsert %d tickers: %w", len(tickers), err)
	}
	return nil
}

// LoadTickers returns the full reference set ordered by symbol.
func (s *Store) LoadTickers(ctx context.Context) ([]model.Ticker, error) {
	const q = `
		SELECT symbol, name, exchange, cik, aliases, valid_from, valid_to
		FROM ticker ORDER BY symbol`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load tickers: %w", err)
	}
	defer rows.Close()

	var out []model.Ticker
	for rows.Next() {
		var (
			tk  model.Ticker
			raw []byte
		)
		if err := rows.Scan(&tk.Symbol, &tk.Name, &tk.Exchange, &tk.CIK,
			&raw, &tk.ValidFrom, &tk.ValidTo); err != nil {
			return nil, fmt.Errorf("scan ticker: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &tk.Aliases); err != nil {
				return nil, fmt.Errorf("decode aliases for %s: %w", tk.Symbol, err)
			}
		}
		out = append(out, tk)
	}
	return out, rows.Err()
}
