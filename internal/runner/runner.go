package runner

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alextesy/market-pulse/internal/aggregate"
	"github.com/alextesy/market-pulse/internal/model"
	"github.com/alextesy/market-pulse/internal/store"
)

// SignalStore is the slice of the store the runner drives.
type SignalStore interface {
	DirtyBuckets(ctx context.Context, from, to time.Time, timeframe time.Duration) ([]store.BucketRef, error)
	ReadBucketSnapshot(ctx context.Context, ticker string, bucketStart time.Time, timeframe time.Duration, noveltyBuckets, baselineBuckets int) (store.BucketSnapshot, error)
	ReplaceSignal(ctx context.Context, sig model.Signal, contribs []model.SignalContribution) (int64, error)
}

// SentimentSource resolves per-article sentiment scores. Articles the source
// does not know are excluded from aggregation, never defaulted.
type SentimentSource interface {
	Sentiment(articleID int64) (score float64, ok bool)
}

// SentimentFunc is a function adapter for SentimentSource.
type SentimentFunc func(articleID int64) (float64, bool)

func (f SentimentFunc) Sentiment(articleID int64) (float64, bool) {
	return f(articleID)
}

// Config holds runner configuration.
type Config struct {
	Interval    time.Duration // Cycle interval
	Concurrency int           // Max units aggregated concurrently
	UnitTimeout time.Duration // Per-unit timeout

	Timeframe       time.Duration // Bucket width
	LookbackBuckets int           // Whole buckets scanned for dirty units
	NoveltyBuckets  int           // Prior buckets in the novelty comparison set
	BaselineBuckets int           // Prior buckets in the velocity baseline
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:        5 * time.Minute,
		Concurrency:     8,
		UnitTimeout:     30 * time.Second,
		Timeframe:       time.Hour,
		LookbackBuckets: 4,
		NoveltyBuckets:  24,
		BaselineBuckets: 24,
	}
}

// Runner periodically rebuilds signals for every (ticker, bucket) unit that
// saw new articles inside the lookback window. Units are independent; one
// failed unit never blocks the rest of the cycle.
type Runner struct {
	cfg        Config
	store      SignalStore
	agg        *aggregate.Aggregator
	sentiments SentimentSource
	logger     *slog.Logger
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Runner.
func New(cfg Config, st SignalStore, agg *aggregate.Aggregator, sentiments SentimentSource, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg = DefaultConfig()
	}
	return &Runner{
		cfg:        cfg,
		store:      st,
		agg:        agg,
		sentiments: sentiments,
		logger:     logger,
		now:        time.Now,
	}
}

// Start begins the aggregation loop.
func (r *Runner) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("aggregation runner started",
		"interval", r.cfg.Interval,
		"concurrency", r.cfg.Concurrency,
		"timeframe", r.cfg.Timeframe,
	)
	return nil
}

// Stop gracefully shuts down the runner.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("aggregation runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main loop. Cycles immediately on start.
func (r *Runner) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.RunCycle(r.ctx)

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.RunCycle(r.ctx)
		}
	}
}

// CycleStats summarizes one aggregation cycle.
type CycleStats struct {
	CycleID  uuid.UUID
	Units    int
	Written  int64
	Failed   int64
	Excluded int64 // articles skipped for missing sentiment or embedding
}

// RunCycle discovers dirty units and re-aggregates them with bounded
// concurrency. Exported so a one-shot invocation can drive a single cycle.
func (r *Runner) RunCycle(ctx context.Context) CycleStats {
	start := r.now()
	stats := CycleStats{CycleID: uuid.New()}

	from := start.Add(-time.Duration(r.cfg.LookbackBuckets) * r.cfg.Timeframe)
	units, err := r.store.DirtyBuckets(ctx, from, start, r.cfg.Timeframe)
	if err != nil {
		r.logger.Error("dirty bucket discovery failed",
			"cycle_id", stats.CycleID, "error", err)
		return stats
	}
	stats.Units = len(units)
	if len(units) == 0 {
		r.logger.Debug("no dirty buckets", "cycle_id", stats.CycleID)
		return stats
	}

	var written, failed, excluded atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for _, unit := range units {
		unit := unit
		g.Go(func() error {
			skipped, err := r.processUnit(gctx, unit)
			excluded.Add(int64(skipped))
			if err != nil {
				r.logger.Warn("unit aggregation failed",
					"cycle_id", stats.CycleID,
					"ticker", unit.Ticker,
					"bucket", unit.BucketStart.Format(time.RFC3339),
					"error", err,
				)
				failed.Add(1)
				return nil
			}
			written.Add(1)
			return nil
		})
	}
	g.Wait()

	stats.Written = written.Load()
	stats.Failed = failed.Load()
	stats.Excluded = excluded.Load()

	r.logger.Info("aggregation cycle complete",
		"cycle_id", stats.CycleID,
		"units", stats.Units,
		"written", stats.Written,
		"failed", stats.Failed,
		"excluded_articles", stats.Excluded,
		"duration", time.Since(start),
	)
	return stats
}

// processUnit reads one unit's snapshot, aggregates it, and replaces the
// stored signal. Returns the number of articles excluded from the unit.
func (r *Runner) processUnit(ctx context.Context, unit store.BucketRef) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.UnitTimeout)
	defer cancel()

	snap, err := r.store.ReadBucketSnapshot(ctx, unit.Ticker, unit.BucketStart,
		r.cfg.Timeframe, r.cfg.NoveltyBuckets, r.cfg.BaselineBuckets)
	if err != nil {
		return 0, err
	}

	req := aggregate.Request{
		Ticker:      unit.Ticker,
		BucketStart: unit.BucketStart,
		Timeframe:   r.cfg.Timeframe,
		Inputs:      r.buildInputs(snap.Articles),
		Baseline: aggregate.Baseline{
			PriorEmbeddings: snap.PriorEmbeddings,
			PriorCounts:     snap.PriorCounts,
		},
	}

	out := r.agg.Aggregate(req)
	if _, err := r.store.ReplaceSignal(ctx, out.Signal, out.Contributions); err != nil {
		return out.Excluded, err
	}
	return out.Excluded, nil
}

// buildInputs joins snapshot articles with the sentiment source.
func (r *Runner) buildInputs(articles []store.BucketArticle) []aggregate.ArticleInput {
	inputs := make([]aggregate.ArticleInput, 0, len(articles))
	for _, ba := range articles {
		in := aggregate.ArticleInput{
			ArticleID:   ba.Article.ID,
			PublishedAt: ba.Article.PublishedAt,
			Title:       ba.Article.Title,
			Text:        ba.Article.Text,
			Method:      ba.Link.Method,
			Confidence:  ba.Link.Confidence,
			Credibility: ba.Article.Credibility,
			Embedding:   ba.Embedding,
		}
		if r.sentiments != nil {
			in.Sentiment, in.HasSentiment = r.sentiments.Sentiment(ba.Article.ID)
		}
		inputs = append(inputs, in)
	}
	return inputs
}
