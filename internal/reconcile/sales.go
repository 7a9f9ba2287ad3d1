package reconcile

import (
	"sort"

	"github.com/retailops/arledger/pkg/money"
	"github.com/retailops/arledger/pkg/period"
)

// ItemSales accumulates the quantity and revenue of one item within a
// window.
type ItemSales struct {
	Quantity int
	Total    money.Money
}

// RankedItemSales is an ItemSales with its item name, for sorted views.
type RankedItemSales struct {
	ItemName string
	Quantity int
	Total    money.Money
}

// AggregateSales groups every order line inside the window by item name.
// The category filter applies per line when non-empty. A reversed window
// yields an empty result, not an error. The returned map is unordered;
// presentation sorts it.
func (e *Engine) AggregateSales(orders []Order, window period.Window, category string) map[string]ItemSales {
	result := make(map[string]ItemSales)
	if window.Empty() {
		return result
	}

	for _, order := range orders {
		if !window.Contains(order.Date) {
			continue
		}
		for _, line := range order.Lines {
			if category != "" && line.Category != category {
				continue
			}
			agg := result[line.ItemName]
			agg.Quantity += line.Quantity
			agg.Total = agg.Total.Add(line.Extension())
			result[line.ItemName] = agg
		}
	}
	return result
}

// TopItemsByQuantity sorts a sales aggregate by quantity descending, item
// name ascending on ties, truncated to topN when positive.
func TopItemsByQuantity(sales map[string]ItemSales, topN int) []RankedItemSales {
	return rankItems(sales, topN, func(a, b RankedItemSales) bool {
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.ItemName < b.ItemName
	})
}

// TopItemsByTotal sorts a sales aggregate by revenue descending, item name
// ascending on ties, truncated to topN when positive.
func TopItemsByTotal(sales map[string]ItemSales, topN int) []RankedItemSales {
	return rankItems(sales, topN, func(a, b RankedItemSales) bool {
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.ItemName < b.ItemName
	})
}

func rankItems(sales map[string]ItemSales, topN int, less func(a, b RankedItemSales) bool) []RankedItemSales {
	ranked := make([]RankedItemSales, 0, len(sales))
	for name, agg := range sales {
		ranked = append(ranked, RankedItemSales{ItemName: name, Quantity: agg.Quantity, Total: agg.Total})
	}
	sort.Slice(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
