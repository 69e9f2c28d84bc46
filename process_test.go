package main

import "testing"

func makeObservations(n int) []ProcessObservation {
	obs := make([]ProcessObservation, n)
	for i := range obs {
		obs[i] = ProcessObservation{
			PID:         int32(i + 1),
			Name:        "proc",
			CPUShare:    float64(i),
			MemoryShare: float64(n - i),
		}
	}
	return obs
}

// TestTopBySizeBound verifies len(result) == min(n, limit) for several n.
func TestTopBySizeBound(t *testing.T) {
	for _, n := range []int{0, 1, 3, 10, 11, 25} {
		obs := makeObservations(n)
		want := n
		if want > rankLimit {
			want = rankLimit
		}
		if got := len(TopByCPU(obs, rankLimit)); got != want {
			t.Errorf("n=%d: TopByCPU returned %d entries, expected %d", n, got, want)
		}
		if got := len(TopByMemory(obs, rankLimit)); got != want {
			t.Errorf("n=%d: TopByMemory returned %d entries, expected %d", n, got, want)
		}
	}
}

// TestTopByDescendingOrder verifies both rankings sort by their metric
// descending.
func TestTopByDescendingOrder(t *testing.T) {
	obs := []ProcessObservation{
		{PID: 1, CPUShare: 5, MemoryShare: 1},
		{PID: 2, CPUShare: 50, MemoryShare: 9},
		{PID: 3, CPUShare: 0.5, MemoryShare: 30},
		{PID: 4, CPUShare: 12, MemoryShare: 2},
	}

	topCPU := TopByCPU(obs, rankLimit)
	for i := 0; i < len(topCPU)-1; i++ {
		if topCPU[i].CPUShare < topCPU[i+1].CPUShare {
			t.Errorf("TopByCPU not descending at %d: %v < %v", i, topCPU[i].CPUShare, topCPU[i+1].CPUShare)
		}
	}

	topMem := TopByMemory(obs, rankLimit)
	for i := 0; i < len(topMem)-1; i++ {
		if topMem[i].MemoryShare < topMem[i+1].MemoryShare {
			t.Errorf("TopByMemory not descending at %d: %v < %v", i, topMem[i].MemoryShare, topMem[i+1].MemoryShare)
		}
	}
}

// TestTopByStableOnTies verifies enumeration order survives among equal
// shares.
func TestTopByStableOnTies(t *testing.T) {
	obs := []ProcessObservation{
		{PID: 10, CPUShare: 5},
		{PID: 20, CPUShare: 5},
		{PID: 30, CPUShare: 7},
		{PID: 40, CPUShare: 5},
	}

	top := TopByCPU(obs, rankLimit)

	wantOrder := []int32{30, 10, 20, 40}
	for i, pid := range wantOrder {
		if top[i].PID != pid {
			t.Fatalf("position %d: expected pid %d, got %d (full order %v)", i, pid, top[i].PID, top)
		}
	}
}

// TestTopByDoesNotMutateInput verifies the caller's slice keeps its order.
func TestTopByDoesNotMutateInput(t *testing.T) {
	obs := []ProcessObservation{
		{PID: 1, CPUShare: 1},
		{PID: 2, CPUShare: 9},
		{PID: 3, CPUShare: 4},
	}

	TopByCPU(obs, rankLimit)

	for i, pid := range []int32{1, 2, 3} {
		if obs[i].PID != pid {
			t.Fatalf("input slice reordered: %v", obs)
		}
	}
}

// TestTopByEmptyAndTrimmedSets covers the empty case and a reduced survivor
// set (processes that failed to read are simply absent from the input).
func TestTopByEmptyAndTrimmedSets(t *testing.T) {
	if got := TopByCPU(nil, rankLimit); len(got) != 0 {
		t.Errorf("empty input should yield empty ranking, got %v", got)
	}

	// 15 enumerated, 7 survived.
	survivors := makeObservations(7)
	top := TopByMemory(survivors, rankLimit)
	if len(top) != 7 {
		t.Fatalf("expected all 7 survivors ranked, got %d", len(top))
	}
	for i := 0; i < len(top)-1; i++ {
		if top[i].MemoryShare < top[i+1].MemoryShare {
			t.Errorf("reduced set ranking not descending at %d", i)
		}
	}
}
