package usecase

import (
	"sort"

	"github.com/samber/lo"

	"github.com/flight-search/flight-deal-scanner/internal/domain"
)

// SortDeals returns the deals ordered by numeric price, cheapest first.
//
// Behavior:
//   - Uses a stable sort, so equal prices keep their route-then-rank order
//   - Returns an empty (non-nil) slice for empty input
//   - Does NOT mutate the input slice
func SortDeals(deals []domain.FormattedDeal) []domain.FormattedDeal {
	result := make([]domain.FormattedDeal, len(deals))
	copy(result, deals)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PriceRaw < result[j].PriceRaw
	})

	return result
}

// TopDeals returns at most n leading deals. It never returns nil.
func TopDeals(deals []domain.FormattedDeal, n int) []domain.FormattedDeal {
	if n <= 0 || len(deals) == 0 {
		return []domain.FormattedDeal{}
	}
	return lo.Slice(deals, 0, n)
}
