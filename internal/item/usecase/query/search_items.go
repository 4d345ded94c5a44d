package query

import (
	"github.com/tair/inventory-console/internal/item/domain"
	"github.com/tair/inventory-console/internal/item/search"
)

// SearchItemsQuery represents a fuzzy search over an in-memory snapshot
type SearchItemsQuery struct {
	Query string
	Items []domain.Item
}

// SearchItemsHandler handles search items query
type SearchItemsHandler struct {
	matcher *search.Matcher
}

// NewSearchItemsHandler creates a new search items handler
func NewSearchItemsHandler(matcher *search.Matcher) *SearchItemsHandler {
	return &SearchItemsHandler{matcher: matcher}
}

// Handle returns the filtered view; it never touches the network
func (h *SearchItemsHandler) Handle(q SearchItemsQuery) []domain.Item {
	return h.matcher.Filter(q.Query, q.Items)
}
