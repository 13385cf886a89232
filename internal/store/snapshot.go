package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/alextesy/market-pulse/internal/model"
)

// BucketArticle is one article linked to the ticker under aggregation, with
// its link evidence and embedding (nil when no embedding is stored).
type BucketArticle struct {
	Article   model.Article
	Link      model.ArticleTicker
	Embedding []float32
}

// BucketSnapshot is everything aggregation needs for one (ticker, bucket)
// unit, read in a single repeatable-read transaction so the bucket, the
// novelty lookback, and the velocity baseline all describe the same instant.
type BucketSnapshot struct {
	Articles        []BucketArticle
	PriorEmbeddings [][]float32
	PriorCounts     []int
}

// ReadBucketSnapshot loads the inputs for one aggregation unit.
// noveltyBuckets and baselineBuckets are the number of whole buckets before
// bucketStart to scan for prior embeddings and prior article counts.
func (s *Store) ReadBucketSnapshot(ctx context.Context, ticker string, bucketStart time.Time, timeframe time.Duration, noveltyBuckets, baselineBuckets int) (BucketSnapshot, error) {
	var snap BucketSnapshot
	err := s.snapshotRead(ctx, func(tx pgx.Tx) error {
		var err error
		if snap.Articles, err = bucketArticles(ctx, tx, ticker, bucketStart, bucketStart.Add(timeframe)); err != nil {
			return err
		}
		noveltyStart := bucketStart.Add(-time.Duration(noveltyBuckets) * timeframe)
		if snap.PriorEmbeddings, err = priorEmbeddings(ctx, tx, ticker, noveltyStart, bucketStart); err != nil {
			return err
		}
		snap.PriorCounts, err = priorCounts(ctx, tx, ticker, bucketStart, timeframe, baselineBuckets)
		return err
	})
	if err != nil {
		return BucketSnapshot{}, fmt.Errorf("snapshot %s@%s: %w",
			ticker, bucketStart.Format(time.RFC3339), err)
	}
	return snap, nil
}

func bucketArticles(ctx context.Context, tx pgx.Tx, ticker string, from, to time.Time) ([]BucketArticle, error) {
	const q = `
		SELECT a.id, a.source, a.url, a.published_at, a.title, a.text,
		       a.lang, a.credibility,
		       t.confidence, t.method,
		       e.embedding
		FROM article a
		JOIN article_ticker t ON t.article_id = a.id
		LEFT JOIN article_embed e ON e.article_id = a.id
		WHERE t.ticker = $1 AND a.published_at >= $2 AND a.published_at < $3
		ORDER BY a.id`

	rows, err := tx.Query(ctx, q, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("bucket articles: %w", err)
	}
	defer rows.Close()

	var out []BucketArticle
	for rows.Next() {
		var (
			ba     BucketArticle
			method string
			vec    *pgvector.Vector
		)
		if err := rows.Scan(
			&ba.Article.ID, &ba.Article.Source, &ba.Article.URL,
			&ba.Article.PublishedAt, &ba.Article.Title, &ba.Article.Text,
			&ba.Article.Lang, &ba.Article.Credibility,
			&ba.Link.Confidence, &method, &vec,
		); err != nil {
			return nil, fmt.Errorf("scan bucket article: %w", err)
		}
		ba.Link.ArticleID = ba.Article.ID
		ba.Link.Ticker = ticker
		ba.Link.Method = model.LinkMethod(method)
		if vec != nil {
			ba.Embedding = vec.Slice()
		}
		out = append(out, ba)
	}
	return out, rows.Err()
}

func priorEmbeddings(ctx context.Context, tx pgx.Tx, ticker string, from, to time.Time) ([][]float32, error) {
	const q = `
		SELECT e.embedding
		FROM article a
		JOIN article_ticker t ON t.article_id = a.id
		JOIN article_embed e ON e.article_id = a.id
		WHERE t.ticker = $1 AND a.published_at >= $2 AND a.published_at < $3
		ORDER BY a.id`

	rows, err := tx.Query(ctx, q, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("prior embeddings: %w", err)
	}
	defer rows.Close()

	var out [][]float32
	for rows.Next() {
		var vec pgvector.Vector
		if err := rows.Scan(&vec); err != nil {
			return nil, fmt.Errorf("scan prior embedding: %w", err)
		}
		out = append(out, vec.Slice())
	}
	return out, rows.Err()
}

// priorCounts returns per-bucket article counts for the baselineBuckets whole
// buckets immediately before bucketStart, oldest first. Empty buckets count
// as zero.
func priorCounts(ctx context.Context, tx pgx.Tx, ticker string, bucketStart time.Time, timeframe time.Duration, baselineBuckets int) ([]int, error) {
	counts := make([]int, baselineBuckets)
	if baselineBuckets == 0 {
		return counts, nil
	}
	baselineStart := bucketStart.Add(-time.Duration(baselineBuckets) * timeframe)

	const q = `
		SELECT floor(extract(epoch FROM (a.published_at - $2::timestamptz)) / $3)::int AS bucket_offset,
		       count(*)
		FROM article a
		JOIN article_ticker t ON t.article_id = a.id
		WHERE t.ticker = $1 AND a.published_at >= $2 AND a.published_at < $4
		GROUP BY bucket_offset`

	rows, err := tx.Query(ctx, q, ticker, baselineStart, timeframe.Seconds(), bucketStart)
	if err != nil {
		return nil, fmt.Errorf("prior counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var offset, n int
		if err := rows.Scan(&offset, &n); err != nil {
			return nil, fmt.Errorf("scan prior count: %w", err)
		}
		if offset >= 0 && offset < baselineBuckets {
			counts[offset] = n
		}
	}
	return counts, rows.Err()
}

// BucketRef identifies one aggregation unit.
type BucketRef struct {
	Ticker      string
	BucketStart time.Time
}

// DirtyBuckets lists the (ticker, bucket) units with at least one linked
// article published in [from, to), ordered by bucket then ticker so
// concurrent runs walk units in a stable order.
func (s *Store) DirtyBuckets(ctx context.Context, from, to time.Time, timeframe time.Duration) ([]BucketRef, error) {
	const q = `
		SELECT t.ticker,
		       to_timestamp(floor(extract(epoch FROM a.published_at) / $3) * $3) AS bucket
		FROM article a
		JOIN article_ticker t ON t.article_id = a.id
		WHERE a.published_at >= $1 AND a.published_at < $2
		GROUP BY t.ticker, bucket
		ORDER BY bucket, t.ticker`

	rows, err := s.pool.Query(ctx, q, from, to, timeframe.Seconds())
	if err != nil {
		return nil, fmt.Errorf("dirty buckets: %w", err)
	}
	defer rows.Close()

	var out []BucketRef
	for rows.Next() {
		var ref BucketRef
		if err := rows.Scan(&ref.Ticker, &ref.BucketStart); err != nil {
			return nil, fmt.Errorf("scan bucket ref: %w", err)
		}
		ref.BucketStart = ref.BucketStart.UTC()
		out = append(out, ref)
	}
	return out, rows.Err()
}
