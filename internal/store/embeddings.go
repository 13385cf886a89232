package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/alextesy/market-pulse/internal/model"
)

// UpsertEmbedding stores or replaces the single embedding row of an article.
// The vector is validated against its declared dimensionality before any
// statement runs.
func (s *Store) UpsertEmbedding(ctx context.Context, rec model.EmbeddingRecord) error {
	if err := model.ValidateEmbedding(rec); err != nil {
		return err
	}

	err := s.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO article_embed (article_id, embedding, model, dims)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (article_id) DO UPDATE SET
				embedding = EXCLUDED.embedding,
				model     = EXCLUDED.model,
				dims      = EXCLUDED.dims`,
			rec.ArticleID, pgvector.NewVector(rec.Embedding), rec.Model, rec.Dims)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert embedding for article %d: %w", rec.ArticleID, err)
	}
	return nil
}

// EmbeddingByArticle fetches the stored embedding for one article.
func (s *Store) EmbeddingByArticle(ctx context.Context, articleID int64) (model.EmbeddingRecord, error) {
	var (
		rec model.EmbeddingRecord
		vec pgvector.Vector
	)
	err := s.pool.QueryRow(ctx, `
		SELECT article_id, embedding, model, dims
		FROM article_embed WHERE article_id = $1`, articleID,
	).Scan(&rec.ArticleID, &vec, &rec.Model, &rec.Dims)
	if err == pgx.ErrNoRows {
		return model.EmbeddingRecord{}, ErrNotFound
	}
	if err != nil {
		return model.EmbeddingRecord{}, fmt.Errorf("embedding for article %d: %w", articleID, err)
	}
	rec.Embedding = vec.Slice()
	return rec, nil
}
