package linker

import (
	"time"

	"github.com/alextesy/market-pulse/internal/model"
)

// Observation is one raw ticker-mention detection for an article, as produced
// by an upstream linking algorithm. Callers must supply observations in a
// source-stable order; ties are broken by input position.
type Observation struct {
	Ticker       string
	Confidence   float64
	Method       model.LinkMethod
	MatchedTerms []string
}

// Reference is the externally-owned ticker lookup injected at call time.
type Reference interface {
	Lookup(symbol string) (model.Ticker, bool)
}

// Dropped records an observation that was rejected, and why. The article's
// ingestion still succeeds; only the link is lost.
type Dropped struct {
	Ticker string
	Reason string
}

// Drop reasons.
const (
	ReasonUnknownTicker = "ticker not in reference set"
	ReasonOutsideWindow = "ticker not valid at publication date"
	ReasonUnknownMethod = "unrecognized detection method"
	ReasonMissingTicker = "empty ticker symbol"
)

// Result is the outcome of resolving one article's observations.
type Result struct {
	Links   []model.ArticleTicker
	Dropped []Dropped
	Clamped int // observations whose confidence was clamped into [0,1]
}

// Resolve merges raw observations into at most one link per (article, ticker)
// pair.
//
// Within a ticker group the winning observation is chosen by method priority
// (cashtag > dict > synonym > ner), then by higher confidence, with matched
// terms unioned across all observations in input order. On a full tie the
// first method encountered wins. Tickers absent from the reference set, or
// not valid as of publishedAt, are dropped per-observation. Out-of-range
// confidences are clamped and counted, never dropped.
func Resolve(articleID int64, publishedAt time.Time, obs []Observation, ref Reference) Result {
	var res Result

	merged := make(map[string]*model.ArticleTicker)
	var order []string

	for _, o := range obs {
		if o.Ticker == "" {
			res.Dropped = append(res.Dropped, Dropped{Ticker: o.Ticker, Reason: ReasonMissingTicker})
			continue
		}
		if !o.Method.Known() {
			res.Dropped = append(res.Dropped, Dropped{Ticker: o.Ticker, Reason: ReasonUnknownMethod})
			continue
		}

		tk, ok := ref.Lookup(o.Ticker)
		if !ok {
			res.Dropped = append(res.Dropped, Dropped{Ticker: o.Ticker, Reason: ReasonUnknownTicker})
			continue
		}
		if !tk.ValidAt(publishedAt) {
			res.Dropped = append(res.Dropped, Dropped{Ticker: o.Ticker, Reason: ReasonOutsideWindow})
			continue
		}

		conf := o.Confidence
		if conf < 0 || conf > 1 {
			conf = clamp01(conf)
			res.Clamped++
		}

		link, seen := merged[o.Ticker]
		if !seen {
			merged[o.Ticker] = &model.ArticleTicker{
				ArticleID:    articleID,
				Ticker:       o.Ticker,
				Confidence:   conf,
				Method:       o.Method,
				MatchedTerms: unionTerms(nil, o.MatchedTerms),
			}
			order = append(order, o.Ticker)
			continue
		}

		// All evidence contributes its surface terms; the winning method and
		// confidence come from the strongest observation.
		link.MatchedTerms = unionTerms(link.MatchedTerms, o.MatchedTerms)

		switch {
		case o.Method.Priority() > link.Method.Priority():
			link.Method = o.Method
			link.Confidence = conf
		case o.Method.Priority() == link.Method.Priority() && conf > link.Confidence:
			link.Method = o.Method
			link.Confidence = conf
		}
		// Lower priority, or full tie: keep the first-encountered method.
	}

	res.Links = make([]model.ArticleTicker, 0, len(order))
	for _, sym := range order {
		res.Links = append(res.Links, *merged[sym])
	}
	return res
}

// unionTerms appends terms not already present, preserving input order.
func unionTerms(dst, terms []string) []string {
	for _, t := range terms {
		dup := false
		for _, existing := range dst {
			if existing == t {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, t)
		}
	}
	return dst
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
