// Package search implements the typo tolerant filtering of the item snapshot.
package search

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tair/inventory-console/internal/item/domain"
)

const (
	// DefaultThreshold is the worst score still counted as a match
	DefaultThreshold = 0.4

	// DefaultDistance is how far into a field a match may start before the
	// position penalty alone exceeds a score of 1
	DefaultDistance = 100
)

// Key names the item fields that are searched
type Key string

const (
	KeyName     Key = "name"
	KeyCategory Key = "category"
	KeyStatus   Key = "status"
)

var keys = []Key{KeyName, KeyCategory, KeyStatus}

// Result is a matched item with its best score; 0 is a perfect match
type Result struct {
	Item  domain.Item
	Score float64
	Key   Key
	index int
}

// Matcher scores items against a query
type Matcher struct {
	threshold float64
	distance  int
}

// NewMatcher creates a matcher; non-positive values fall back to the defaults
func NewMatcher(threshold float64, distance int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if distance <= 0 {
		distance = DefaultDistance
	}
	return &Matcher{threshold: threshold, distance: distance}
}

var defaultMatcher = NewMatcher(DefaultThreshold, DefaultDistance)

// Filter returns items matching query using the default threshold.
// An empty query returns items unchanged.
func Filter(query string, items []domain.Item) []domain.Item {
	return defaultMatcher.Filter(query, items)
}

// Threshold returns the match threshold in use
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Filter returns the matching items, best first. An empty query returns items unchanged.
func (m *Matcher) Filter(query string, items []domain.Item) []domain.Item {
	if query == "" {
		return items
	}

	results := m.Search(query, items)
	out := make([]domain.Item, len(results))
	for i, r := range results {
		out[i] = r.Item
	}
	return out
}

// Search scores every item and returns the matches ordered by ascending score;
// ties keep snapshot order.
func (m *Matcher) Search(query string, items []domain.Item) []Result {
	var results []Result
	for i, item := range items {
		best, bestKey := math.Inf(1), Key("")
		for _, k := range keys {
			score, ok := m.Score(query, fieldValue(item, k))
			if ok && score < best {
				best, bestKey = score, k
			}
		}
		if bestKey != "" {
			results = append(results, Result{Item: item, Score: best, Key: bestKey, index: i})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score < results[b].Score
		}
		return results[a].index < results[b].index
	})
	return results
}

// Score returns the best approximate-substring score of query inside text and
// whether it is within the threshold. Scoring is case-insensitive: the edit
// distance against a window of text, relative to the query length, plus a
// penalty for how far into text the window starts.
func (m *Matcher) Score(query, text string) (float64, bool) {
	q := []rune(strings.ToLower(query))
	t := []rune(strings.ToLower(text))
	if len(q) == 0 {
		return 0, true
	}

	maxErrors := int(m.threshold * float64(len(q)))
	minLen := len(q) - maxErrors
	if minLen < 1 {
		minLen = 1
	}

	best := math.Inf(1)
	pattern := string(q)
	for start := 0; start < len(t); start++ {
		penalty := float64(start) / float64(m.distance)
		if penalty > m.threshold || penalty >= best {
			break
		}

		maxLen := len(q) + maxErrors
		if rest := len(t) - start; maxLen > rest {
			maxLen = rest
		}
		lo := minLen
		if start == 0 && lo > maxLen {
			lo = maxLen
		}
		for l := lo; l <= maxLen; l++ {
			errs := levenshtein.ComputeDistance(pattern, string(t[start:start+l]))
			score := float64(errs)/float64(len(q)) + penalty
			if score < best {
				best = score
			}
		}
		if best == 0 {
			break
		}
	}

	return best, best <= m.threshold
}

func fieldValue(item domain.Item, k Key) string {
	switch k {
	case KeyName:
		return item.Name
	case KeyCategory:
		return item.Category
	case KeyStatus:
		return string(item.Status)
	}
	return ""
}
