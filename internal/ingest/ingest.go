package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alextesy/market-pulse/internal/linker"
	"github.com/alextesy/market-pulse/internal/model"
)

// Store is the subset of the store adapter the ingestor needs.
type Store interface {
	UpsertArticle(ctx context.Context, a model.Article) (id int64, wasNew bool, err error)
	ReplaceArticleLinks(ctx context.Context, articleID int64, links []model.ArticleTicker) error
	UpsertEmbedding(ctx context.Context, rec model.EmbeddingRecord) error
}

// Embedding is an inbound article vector before the article id is known.
type Embedding struct {
	Vector []float32
	Model  string
	Dims   int
}

// Item is one unit of ingestion work: a payload plus its externally-computed
// link observations and optional embedding.
type Item struct {
	Payload      Payload
	Observations []linker.Observation
	Embedding    *Embedding
}

// Result reports the outcome of ingesting one item.
type Result struct {
	ArticleID    int64
	WasNew       bool
	Links        int
	DroppedLinks []linker.Dropped
	Clamped      int
}

// Ingestor runs the per-article pipeline: validate, upsert, resolve ticker
// links, store embedding.
type Ingestor struct {
	store  Store
	ref    linker.Reference
	logger *slog.Logger

	now func() time.Time
}

// New creates an Ingestor.
func New(store Store, ref linker.Reference, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		store:  store,
		ref:    ref,
		logger: logger,
		now:    time.Now,
	}
}

// IngestArticle processes one item. A missing or invalid embedding skips the
// embedding step without failing the article; dropped link observations are
// reported in the result, never as an error.
func (in *Ingestor) IngestArticle(ctx context.Context, item Item) (Result, error) {
	article, err := item.Payload.ToArticle(in.now())
	if err != nil {
		return Result{}, err
	}

	id, wasNew, err := in.store.UpsertArticle(ctx, article)
	if err != nil {
		return Result{}, fmt.Errorf("upsert article: %w", err)
	}

	resolved := linker.Resolve(id, article.PublishedAt, item.Observations, in.ref)
	if resolved.Clamped > 0 {
		in.logger.Warn("clamped out-of-range link confidence",
			"article_id", id,
			"count", resolved.Clamped,
		)
	}
	for _, d := range resolved.Dropped {
		in.logger.Debug("dropped link observation",
			"article_id", id,
			"ticker", d.Ticker,
			"reason", d.Reason,
		)
	}

	if err := in.store.ReplaceArticleLinks(ctx, id, resolved.Links); err != nil {
		return Result{}, fmt.Errorf("replace links: %w", err)
	}

	if item.Embedding != nil {
		rec := model.EmbeddingRecord{
			ArticleID: id,
			Embedding: item.Embedding.Vector,
			Model:     item.Embedding.Model,
			Dims:      item.Embedding.Dims,
		}
		if err := model.ValidateEmbedding(rec); err != nil {
			return Result{}, err
		}
		if err := in.store.UpsertEmbedding(ctx, rec); err != nil {
			return Result{}, fmt.Errorf("upsert embedding: %w", err)
		}
	}

	return Result{
		ArticleID:    id,
		WasNew:       wasNew,
		Links:        len(resolved.Links),
		DroppedLinks: resolved.Dropped,
		Clamped:      resolved.Clamped,
	}, nil
}

// BatchStats summarizes one ingestion batch.
type BatchStats struct {
	BatchID  uuid.UUID
	Inserted int
	Updated  int
	Failed   int
}

// IngestBatch processes items sequentially under one batch id. Item failures
// are logged and counted; one bad payload never abandons the batch.
func (in *Ingestor) IngestBatch(ctx context.Context, items []Item) (BatchStats, error) {
	stats := BatchStats{BatchID: uuid.New()}
	start := in.now()

	for i := range items {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		res, err := in.IngestArticle(ctx, items[i])
		if err != nil {
			stats.Failed++
			in.logger.Warn("article ingestion failed",
				"batch_id", stats.BatchID,
				"url", items[i].Payload.URL,
				"error", err,
			)
			continue
		}
		if res.WasNew {
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}

	in.logger.Info("ingestion batch complete",
		"batch_id", stats.BatchID,
		"items", len(items),
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"failed", stats.Failed,
		"duration", time.Since(start),
	)
	return stats, nil
}
