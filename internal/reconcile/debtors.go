package reconcile

import "sort"

// RankDebtors filters and orders customer balances for top-debtor views.
// Only customers with positive balance appear; settled and credit customers
// are absent, not ranked last. Ties break on customer id ascending so the
// ranking is deterministic. topN <= 0 returns the full ranking.
func (e *Engine) RankDebtors(balances []CustomerBalance, topN int) []CustomerBalance {
	ranked := make([]CustomerBalance, 0, len(balances))
	for _, b := range balances {
		if b.Balance.IsPositive() {
			ranked = append(ranked, b)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Balance != ranked[j].Balance {
			return ranked[i].Balance > ranked[j].Balance
		}
		return ranked[i].CustomerID.String() < ranked[j].CustomerID.String()
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
