package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError represents an error from the scoring service.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scorer api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

type sentimentResponse struct {
	ArticleID int64   `json:"article_id"`
	Sentiment float64 `json:"sentiment"`
}

type batchSentimentResponse struct {
	Sentiments []sentimentResponse `json:"sentiments"`
}

// ArticleSentiment fetches the score for one article. ok is false when the
// service has not scored the article yet.
func (c *Client) ArticleSentiment(ctx context.Context, articleID int64) (score float64, ok bool, err error) {
	var resp sentimentResponse
	err = c.get(ctx, "/v1/articles/"+strconv.FormatInt(articleID, 10)+"/sentiment", nil, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("sentiment for article %d: %w", articleID, err)
	}
	return resp.Sentiment, true, nil
}

// BatchSentiments fetches scores for many articles at once. Unscored
// articles are absent from the result.
func (c *Client) BatchSentiments(ctx context.Context, articleIDs []int64) (map[int64]float64, error) {
	if len(articleIDs) == 0 {
		return map[int64]float64{}, nil
	}

	ids := make([]string, len(articleIDs))
	for i, id := range articleIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{}
	query.Set("article_ids", strings.Join(ids, ","))

	var resp batchSentimentResponse
	if err := c.get(ctx, "/v1/sentiments", query, &resp); err != nil {
		return nil, fmt.Errorf("batch sentiments: %w", err)
	}

	out := make(map[int64]float64, len(resp.Sentiments))
	for _, s := range resp.Sentiments {
		out[s.ArticleID] = s.Sentiment
	}
	return out, nil
}

// doRequest performs one HTTP request.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a request with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			c.logger.Debug("retrying scorer request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, method, path, query)
		if err == nil {
			return body, nil
		}

		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// get performs a GET request with retries.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
