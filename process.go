package main

import "sort"

// rankLimit is the number of slots in each per-tick process ranking. The
// output schema reserves exactly this many slots per metric regardless of how
// many processes were observed.
const rankLimit = 10

// TopByCPU returns at most limit observations sorted by CPU share descending.
// Equal shares keep their enumeration order; the input slice is not modified.
func TopByCPU(obs []ProcessObservation, limit int) []ProcessObservation {
	return topBy(obs, limit, func(o ProcessObservation) float64 { return o.CPUShare })
}

// TopByMemory returns at most limit observations sorted by memory share
// descending, with the same tie and ownership rules as TopByCPU.
func TopByMemory(obs []ProcessObservation, limit int) []ProcessObservation {
	return topBy(obs, limit, func(o ProcessObservation) float64 { return o.MemoryShare })
}

func topBy(obs []ProcessObservation, limit int, key func(ProcessObservation) float64) []ProcessObservation {
	if limit <= 0 || len(obs) == 0 {
		return nil
	}

	ranked := make([]ProcessObservation, len(obs))
	copy(ranked, obs)

	// SliceStable keeps enumeration order among equal shares.
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i]) > key(ranked[j])
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
