package scorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestArticleSentiment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/articles/42/sentiment" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"article_id": 42, "sentiment": -0.35}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	score, ok, err := c.ArticleSentiment(context.Background(), 42)
	if err != nil {
		t.Fatalf("ArticleSentiment() error = %v", err)
	}
	if !ok || score != -0.35 {
		t.Errorf("ArticleSentiment() = (%v, %v), want (-0.35, true)", score, ok)
	}
}

func TestArticleSentimentNotScored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, ok, err := c.ArticleSentiment(context.Background(), 7)
	if err != nil {
		t.Fatalf("ArticleSentiment() error = %v", err)
	}
	if ok {
		t.Error("unscored article should report ok=false")
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"article_id": 1, "sentiment": 0.2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", WithRetries(2, time.Millisecond))
	score, ok, err := c.ArticleSentiment(context.Background(), 1)
	if err != nil {
		t.Fatalf("ArticleSentiment() error = %v", err)
	}
	if !ok || score != 0.2 {
		t.Errorf("ArticleSentiment() = (%v, %v), want (0.2, true)", score, ok)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", WithRetries(3, time.Millisecond))
	if _, _, err := c.ArticleSentiment(context.Background(), 1); err == nil {
		t.Fatal("expected error on 400")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (400 is not retryable)", calls.Load())
	}
}

func TestBatchSentiments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("article_ids"); got != "1,2,3" {
			t.Errorf("article_ids = %q, want 1,2,3", got)
		}
		w.Write([]byte(`{"sentiments": [
			{"article_id": 1, "sentiment": 0.1},
			{"article_id": 3, "sentiment": -0.4}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	scores, err := c.BatchSentiments(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("BatchSentiments() error = %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2 (article 2 unscored)", len(scores))
	}
	if scores[1] != 0.1 || scores[3] != -0.4 {
		t.Errorf("scores = %v", scores)
	}
}

func TestSourceCachesScores(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"article_id": 5, "sentiment": 0.6}`))
	}))
	defer srv.Close()

	src := NewSource(context.Background(), NewClient(srv.URL, ""), time.Second)

	for i := 0; i < 3; i++ {
		score, ok := src.Sentiment(5)
		if !ok || score != 0.6 {
			t.Fatalf("Sentiment(5) = (%v, %v), want (0.6, true)", score, ok)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (cached after first)", calls.Load())
	}
}

func TestSourceLookupFailureExcludes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewSource(context.Background(), NewClient(srv.URL, "", WithRetries(0, time.Millisecond)), time.Second)
	if _, ok := src.Sentiment(9); ok {
		t.Error("failed lookup should report ok=false")
	}
}

func TestSourceWarm(t *testing.T) {
	var batchCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batchCalls.Add(1)
		w.Write([]byte(`{"sentiments": [{"article_id": 10, "sentiment": 0.9}]}`))
	}))
	defer srv.Close()

	src := NewSource(context.Background(), NewClient(srv.URL, ""), time.Second)
	if err := src.Warm(context.Background(), []int64{10}); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}

	score, ok := src.Sentiment(10)
	if !ok || score != 0.9 {
		t.Errorf("Sentiment(10) = (%v, %v), want (0.9, true)", score, ok)
	}
	if batchCalls.Load() != 1 {
		t.Errorf("batch calls = %d, want 1", batchCalls.Load())
	}
}
