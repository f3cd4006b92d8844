package kpi

import "sort"

// DenseRank ranks values in descending order. Equal values share a rank and
// the next distinct value gets the following rank, so ranks have no gaps.
func DenseRank(values []float64) []int {
	distinct := make([]float64, 0, len(values))
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		distinct = append(distinct, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	rankOf := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		rankOf[v] = i + 1
	}

	ranks := make([]int, len(values))
	for i, v := range values {
		ranks[i] = rankOf[v]
	}
	return ranks
}

// groupDenseRank ranks values in descending order within each group key.
func groupDenseRank(keys []string, values []float64) []int {
	idx := make(map[string][]int)
	order := make([]string, 0)
	for i, k := range keys {
		if _, ok := idx[k]; !ok {
			order = append(order, k)
		}
		idx[k] = append(idx[k], i)
	}

	ranks := make([]int, len(values))
	for _, k := range order {
		members := idx[k]
		vals := make([]float64, len(members))
		for j, i := range members {
			vals[j] = values[i]
		}
		for j, r := range DenseRank(vals) {
			ranks[members[j]] = r
		}
	}
	return ranks
}
