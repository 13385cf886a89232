package ingest

import (
	"time"

	"github.com/alextesy/market-pulse/internal/model"
)

// Payload is the inbound article record produced by external
// normalization/cleaning, before identity resolution.
type Payload struct {
	Source       string
	URL          string
	CanonicalURL string // Falls back to URL when empty
	PublishedAt  time.Time
	RetrievedAt  time.Time
	Title        string
	Text         string
	Lang         string
	Credibility  float64 // 0-100
}

// Validate rejects malformed payloads with the offending field.
func (p *Payload) Validate() error {
	if p.URL == "" {
		return model.Invalid("url", "required")
	}
	if p.PublishedAt.IsZero() {
		return model.Invalid("published_at", "required")
	}
	if p.Source == "" {
		return model.Invalid("source", "required")
	}
	if _, err := HostOf(p.URL); err != nil {
		return model.Invalid("url", "not parseable: %v", err)
	}
	return nil
}

// ToArticle normalizes the payload into an Article ready for upsert:
// timestamps to UTC, credibility clamped to [0, 100], fingerprint computed
// over title + canonical host (or full text when the title is absent).
func (p *Payload) ToArticle(now time.Time) (model.Article, error) {
	if err := p.Validate(); err != nil {
		return model.Article{}, err
	}

	canonical := p.CanonicalURL
	if canonical == "" {
		canonical = p.URL
	}
	host, err := HostOf(canonical)
	if err != nil {
		return model.Article{}, model.Invalid("canonical_url", "not parseable: %v", err)
	}

	retrieved := p.RetrievedAt
	if retrieved.IsZero() {
		retrieved = now
	}

	cred := p.Credibility
	if cred < 0 {
		cred = 0
	} else if cred > 100 {
		cred = 100
	}

	return model.Article{
		Source:       p.Source,
		URL:          p.URL,
		URLCanonical: canonical,
		PublishedAt:  p.PublishedAt.UTC(),
		RetrievedAt:  retrieved.UTC(),
		Title:        p.Title,
		Text:         p.Text,
		Lang:         p.Lang,
		Hash:         Fingerprint(p.Title, host, p.Text),
		Credibility:  cred,
	}, nil
}
