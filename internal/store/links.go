package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alextesy/market-pulse/internal/model"
)

// matchedTerms is the JSONB shape stored in article_ticker.matched_terms.
type matchedTerms struct {
	Terms []string `json:"terms"`
}

// ReplaceArticleLinks replaces the full link set of one article in a single
// transaction. Passing an empty slice clears all links.
func (s *Store) ReplaceArticleLinks(ctx context.Context, articleID int64, links []model.ArticleTicker) error {
	err := s.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM article_ticker WHERE article_id = $1`, articleID); err != nil {
			return fmt.Errorf("clear links: %w", err)
		}
		if len(links) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, l := range links {
			terms, err := json.Marshal(matchedTerms{Terms: l.MatchedTerms})
			if err != nil {
				return fmt.Errorf("marshal matched terms for %s: %w", l.Ticker, err)
			}
			batch.Queue(`
				INSERT INTO article_ticker (article_id, ticker, confidence, method, matched_terms)
				VALUES ($1, $2, $3, $4, $5)`,
				articleID, l.Ticker, l.Confidence, string(l.Method), terms)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range links {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("insert link: %w", err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return fmt.Errorf("replace links for article %d: %w", articleID, err)
	}
	return nil
}

// ArticleLinks returns the current link set of one article, ordered by ticker.
func (s *Store) ArticleLinks(ctx context.Context, articleID int64) ([]model.ArticleTicker, error) {
	const q = `
		SELECT article_id, ticker, confidence, method, matched_terms
		FROM article_ticker
		WHERE article_id = $1
		ORDER BY ticker`

	rows, err := s.pool.Query(ctx, q, articleID)
	if err != nil {
		return nil, fmt.Errorf("links for article %d: %w", articleID, err)
	}
	defer rows.Close()

	var out []model.ArticleTicker
	for rows.Next() {
		var (
			l      model.ArticleTicker
			method string
			raw    []byte
		)
		if err := rows.Scan(&l.ArticleID, &l.Ticker, &l.Confidence, &method, &raw); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		l.Method = model.LinkMethod(method)
		if len(raw) > 0 {
			var mt matchedTerms
			if err := json.Unmarshal(raw, &mt); err != nil {
				return nil, fmt.Errorf("decode matched terms: %w", err)
			}
			l.MatchedTerms = mt.Terms
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
