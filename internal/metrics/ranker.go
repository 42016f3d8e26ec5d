package metrics

import (
	"context"
	"sort"
)

// DefaultTopN is the number of processes shown when no limit is configured.
const DefaultTopN = 10

// Rank returns the top processes by CPU usage, descending, truncated to
// limit. The sort is stable so ties keep their enumeration order. The input
// slice is not modified.
func Rank(procs []ProcessInfo, limit int) []ProcessInfo {
	if limit <= 0 {
		limit = DefaultTopN
	}

	ranked := make([]ProcessInfo, len(procs))
	copy(ranked, procs)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CPUPercent > ranked[j].CPUPercent
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Ranker produces the top-N process view each tick.
type Ranker struct {
	provider Provider
	limit    int
}

// NewRanker creates a ranker; limit <= 0 uses DefaultTopN.
func NewRanker(provider Provider, limit int) *Ranker {
	if limit <= 0 {
		limit = DefaultTopN
	}
	return &Ranker{provider: provider, limit: limit}
}

// Top enumerates processes and returns the top N by CPU usage.
// Enumeration failure yields an empty view, never an error; individual
// vanished processes were already skipped by the provider.
func (r *Ranker) Top(ctx context.Context) []ProcessInfo {
	procs, err := r.provider.Processes(ctx)
	if err != nil {
		return nil
	}
	return Rank(procs, r.limit)
}
