package scorer

import (
	"context"
	"sync"
	"time"
)

// cache is flushed wholesale once it reaches this size; article scores are
// immutable so dropping them only costs refetches.
const maxCachedScores = 65536

// Source adapts the Client to the runner's per-article lookup and caches
// scores across aggregation cycles.
type Source struct {
	client  *Client
	ctx     context.Context
	timeout time.Duration

	mu     sync.RWMutex
	scores map[int64]float64
}

// NewSource creates a Source. ctx bounds the lifetime of all lookups.
func NewSource(ctx context.Context, client *Client, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Source{
		client:  client,
		ctx:     ctx,
		timeout: timeout,
		scores:  make(map[int64]float64),
	}
}

// Sentiment returns the score for one article. Lookup failures and unscored
// articles both report ok=false; the article is excluded from aggregation
// and picked up on a later cycle.
func (s *Source) Sentiment(articleID int64) (float64, bool) {
	s.mu.RLock()
	score, ok := s.scores[articleID]
	s.mu.RUnlock()
	if ok {
		return score, true
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	score, ok, err := s.client.ArticleSentiment(ctx, articleID)
	if err != nil {
		s.client.logger.Warn("sentiment lookup failed",
			"article_id", articleID, "error", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}

	s.mu.Lock()
	if len(s.scores) >= maxCachedScores {
		s.scores = make(map[int64]float64)
	}
	s.scores[articleID] = score
	s.mu.Unlock()
	return score, true
}

// Warm prefetches scores for a batch of articles into the cache.
func (s *Source) Warm(ctx context.Context, articleIDs []int64) error {
	missing := make([]int64, 0, len(articleIDs))
	s.mu.RLock()
	for _, id := range articleIDs {
		if _, ok := s.scores[id]; !ok {
			missing = append(missing, id)
		}
	}
	s.mu.RUnlock()
	if len(missing) == 0 {
		return nil
	}

	fetched, err := s.client.BatchSentiments(ctx, missing)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if len(s.scores)+len(fetched) > maxCachedScores {
		s.scores = make(map[int64]float64)
	}
	for id, score := range fetched {
		s.scores[id] = score
	}
	s.mu.Unlock()
	return nil
}
