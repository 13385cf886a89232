package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alextesy/market-pulse/internal/model"
)

const upsertArticleSQL = `
INSERT INTO article
	(source, url, url_canonical, published_at, retrieved_at, title, text, lang, hash, credibility)
VALUES
	($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (url) DO UPDATE SET
	source        = EXCLUDED.source,
	url_canonical = EXCLUDED.url_canonical,
	retrieved_at  = EXCLUDED.retrieved_at,
	title         = EXCLUDED.title,
	text          = EXCLUDED.text,
	lang          = EXCLUDED.lang,
	hash          = EXCLUDED.hash,
	credibility   = EXCLUDED.credibility
RETURNING id, (xmax = 0) AS was_new`

// UpsertArticle inserts the article or, when a row with the same URL already
// exists, refreshes its mutable fields in place. The surrogate id and
// published_at of an existing row are never changed. wasNew reports whether
// this call created the row.
func (s *Store) UpsertArticle(ctx context.Context, a model.Article) (id int64, wasNew bool, err error) {
	err = s.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, upsertArticleSQL,
			a.Source, a.URL, a.URLCanonical, a.PublishedAt, a.RetrievedAt,
			a.Title, a.Text, a.Lang, a.Hash, a.Credibility,
		).Scan(&id, &wasNew)
	})
	if err != nil {
		return 0, false, fmt.Errorf("upsert article %q: %w", a.URL, err)
	}
	return id, wasNew, nil
}

// ArticleByURL fetches a single article by its natural key.
func (s *Store) ArticleByURL(ctx context.Context, url string) (model.Article, error) {
	const q = `
		SELECT id, source, url, url_canonical, published_at, retrieved_at,
		       title, text, lang, hash, credibility
		FROM article WHERE url = $1`

	var a model.Article
	err := s.pool.QueryRow(ctx, q, url).Scan(
		&a.ID, &a.Source, &a.URL, &a.URLCanonical, &a.PublishedAt, &a.RetrievedAt,
		&a.Title, &a.Text, &a.Lang, &a.Hash, &a.Credibility,
	)
	if err == pgx.ErrNoRows {
		return model.Article{}, ErrNotFound
	}
	if err != nil {
		return model.Article{}, fmt.Errorf("article by url %q: %w", url, err)
	}
	return a, nil
}

// ArticlesByTicker returns articles linked to a ticker with published_at in
// [from, to), ordered by id for deterministic iteration.
func (s *Store) ArticlesByTicker(ctx context.Context, ticker string, from, to time.Time) ([]model.Article, error) {
	const q = `
		SELECT a.id, a.source, a.url, a.url_canonical, a.published_at, a.retrieved_at,
		       a.title, a.text, a.lang, a.hash, a.credibility
		FROM article a
		JOIN article_ticker t ON t.article_id = a.id
		WHERE t.ticker = $1 AND a.published_at >= $2 AND a.published_at < $3
		ORDER BY a.id`

	rows, err := s.pool.Query(ctx, q, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("articles by ticker %s: %w", ticker, err)
	}
	defer rows.Close()

	var out []model.Article
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(
			&a.ID, &a.Source, &a.URL, &a.URLCanonical, &a.PublishedAt, &a.RetrievedAt,
			&a.Title, &a.Text, &a.Lang, &a.Hash, &a.Credibility,
		); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
