package aggregate

import (
	"sort"
	"time"

	"github.com/alextesy/market-pulse/internal/model"
)

// Config holds the aggregation parameters. All of it is external
// configuration; nothing here is hard-coded in the computation.
type Config struct {
	SentimentWeight float64
	NoveltyWeight   float64
	VelocityWeight  float64

	// HalfLife controls recency decay relative to bucket end.
	HalfLife time.Duration

	// VelocityCap bounds velocity against baseline-zero spikes and
	// normalizes its share of the composite score.
	VelocityCap float64

	// BaselineEpsilon floors the velocity baseline.
	BaselineEpsilon float64

	// MaxContributors is K, the contributor set bound.
	MaxContributors int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		SentimentWeight: 0.4,
		NoveltyWeight:   0.3,
		VelocityWeight:  0.3,
		HalfLife:        6 * time.Hour,
		VelocityCap:     10.0,
		BaselineEpsilon: 1.0,
		MaxContributors: 2,
	}
}

// ArticleInput is one qualifying (article, link, scores) tuple for a bucket.
type ArticleInput struct {
	ArticleID   int64
	PublishedAt time.Time
	Title       string
	Text        string
	Method      model.LinkMethod
	Confidence  float64 // link confidence, 0-1
	Credibility float64 // source credibility, 0-100

	Sentiment    float64 // [-1, 1], valid only when HasSentiment
	HasSentiment bool
	Embedding    []float32 // empty = missing
}

// Baseline carries the historical context read from one consistent snapshot.
type Baseline struct {
	// PriorEmbeddings are the embeddings of the ticker's articles from the
	// previous N buckets (novelty comparison set).
	PriorEmbeddings [][]float32

	// PriorCounts are the qualifying article counts of the previous P
	// buckets (velocity baseline).
	PriorCounts []int
}

// Request is one (ticker, bucket) unit of aggregation work.
type Request struct {
	Ticker      string
	BucketStart time.Time
	Timeframe   time.Duration
	Inputs      []ArticleInput
	Baseline    Baseline
}

// Output is the computed signal plus its ranked contributions. Contribution
// SignalID is zero until the store assigns it.
type Output struct {
	Signal        model.Signal
	Contributions []model.SignalContribution
	Excluded      int // inputs dropped for missing sentiment or embedding
}

// Aggregator combines per-article scores into per-ticker-bucket signals.
type Aggregator struct {
	cfg   Config
	rules []TagRule
}

// New creates an Aggregator. Nil rules fall back to the default rule set.
func New(cfg Config, rules []TagRule) *Aggregator {
	if rules == nil {
		rules = DefaultTagRules()
	}
	return &Aggregator{cfg: cfg, rules: rules}
}

// Aggregate computes one Signal and its contributions for a bucket.
//
// Articles missing sentiment or embedding are excluded from the contribution
// set; the bucket itself never fails on them. The composite score is
// clip(ws*sentiment + wn*novelty + wv*velocity/cap, -1, 1). The computation
// is deterministic for a given input set: inputs are ordered by article id,
// tags are sorted, and contributor ties break by ascending article id, so a
// re-run over unchanged inputs reproduces identical rows.
func (a *Aggregator) Aggregate(req Request) Output {
	bucketEnd := req.BucketStart.Add(req.Timeframe)

	qualified := make([]ArticleInput, 0, len(req.Inputs))
	excluded := 0
	for _, in := range req.Inputs {
		if !in.HasSentiment || len(in.Embedding) == 0 {
			excluded++
			continue
		}
		qualified = append(qualified, in)
	}
	sort.Slice(qualified, func(i, j int) bool {
		return qualified[i].ArticleID < qualified[j].ArticleID
	})

	var (
		weightSum    float64
		sentimentSum float64
		noveltySum   float64
		perTags      = make([][]string, 0, len(qualified))
		top          = newTopK(a.cfg.MaxContributors)
	)

	for _, in := range qualified {
		w := contributionWeight(in.Confidence, in.Credibility, in.PublishedAt, bucketEnd, a.cfg.HalfLife)
		nov := noveltyOf(in.Embedding, req.Baseline.PriorEmbeddings)

		weightSum += w
		sentimentSum += w * in.Sentiment
		noveltySum += w * nov

		perTags = append(perTags, evalTags(a.rules, in.Title, in.Text, in.Method))
		top.Add(in.ArticleID, w)
	}

	var sentiment, novelty float64
	if weightSum > 0 {
		sentiment = sentimentSum / weightSum
		novelty = noveltySum / weightSum
	}

	velocity := a.velocity(len(qualified), req.Baseline.PriorCounts)

	score := a.cfg.SentimentWeight*sentiment +
		a.cfg.NoveltyWeight*novelty +
		a.cfg.VelocityWeight*(velocity/a.cfg.VelocityCap)
	score = clamp(score, -1, 1)

	ranked := top.Ranked()
	contribs := make([]model.SignalContribution, len(ranked))
	for i, c := range ranked {
		contribs[i] = model.SignalContribution{
			ArticleID: c.ArticleID,
			Rank:      i + 1,
			Weight:    c.Weight,
		}
	}

	return Output{
		Signal: model.Signal{
			Ticker:    req.Ticker,
			TS:        req.BucketStart.UTC(),
			Sentiment: sentiment,
			Novelty:   novelty,
			Velocity:  velocity,
			EventTags: mergeTags(perTags),
			Score:     score,
		},
		Contributions: contribs,
		Excluded:      excluded,
	}
}

// velocity normalizes the bucket count against the trailing-average baseline,
// capped to avoid unbounded spikes when the baseline is near zero.
func (a *Aggregator) velocity(count int, priorCounts []int) float64 {
	var baseline float64
	if len(priorCounts) > 0 {
		sum := 0
		for _, c := range priorCounts {
			sum += c
		}
		baseline = float64(sum) / float64(len(priorCounts))
	}
	if baseline < a.cfg.BaselineEpsilon {
		baseline = a.cfg.BaselineEpsilon
	}

	v := float64(count) / baseline
	if v > a.cfg.VelocityCap {
		v = a.cfg.VelocityCap
	}
	return v
}
