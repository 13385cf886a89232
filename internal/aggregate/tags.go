package aggregate

import (
	"sort"
	"strings"

	"github.com/alextesy/market-pulse/internal/model"
)

// TagRule maps keyword and link-method patterns to an event tag.
// A rule matches when any keyword occurs in the article's title+text, or the
// article's link method is one of the rule's methods.
type TagRule struct {
	Tag      string
	Keywords []string
	Methods  []model.LinkMethod
}

// DefaultTagRules returns the built-in event rule set.
func DefaultTagRules() []TagRule {
	return []TagRule{
		{Tag: "earnings", Keywords: []string{"earnings", "eps", "quarterly results", "beats estimates", "misses estimates"}},
		{Tag: "guidance", Keywords: []string{"guidance", "outlook", "raises forecast", "cuts forecast"}},
		{Tag: "ma", Keywords: []string{"merger", "acquisition", "acquires", "takeover", "buyout"}},
		{Tag: "capital-return", Keywords: []string{"dividend", "buyback", "share repurchase"}},
		{Tag: "regulatory", Keywords: []string{"sec filing", "lawsuit", "investigation", "antitrust", "probe"}},
		{Tag: "analyst", Keywords: []string{"upgrade", "downgrade", "price target", "initiates coverage"}},
		{Tag: "social", Methods: []model.LinkMethod{model.MethodCashtag}},
	}
}

// matches reports whether the rule applies to one article's text and method.
func (r TagRule) matches(loweredText string, method model.LinkMethod) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(loweredText, kw) {
			return true
		}
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// evalTags evaluates the rules for one article.
func evalTags(rules []TagRule, title, text string, method model.LinkMethod) []string {
	lowered := strings.ToLower(title + " " + text)
	var tags []string
	for _, r := range rules {
		if r.matches(lowered, method) {
			tags = append(tags, r.Tag)
		}
	}
	return tags
}

// mergeTags de-duplicates and sorts tags from all contributing articles so
// repeated runs produce identical rows.
func mergeTags(perArticle [][]string) []string {
	seen := make(map[string]struct{})
	for _, tags := range perArticle {
		for _, tag := range tags {
			seen[tag] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	merged := make([]string, 0, len(seen))
	for tag := range seen {
		merged = append(merged, tag)
	}
	sort.Strings(merged)
	return merged
}
