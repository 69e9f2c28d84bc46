package main

// TrackRates converts two successive cumulative counter snapshots plus the
// elapsed interval into per-second transfer rates in kilobytes. The math is
// a pure delta: (curr - prev) / 1024 / interval. A counter that decreased
// between snapshots (OS counter reset) produces a negative rate on purpose;
// masking resets here would hide them from the output.
//
// intervalSeconds must be > 0; callers own that invariant.
func TrackRates(prev, curr CounterSnapshot, intervalSeconds float64) Rates {
	return Rates{
		DiskReadKBs:  counterRate(prev.DiskReadBytes, curr.DiskReadBytes, intervalSeconds),
		DiskWriteKBs: counterRate(prev.DiskWriteBytes, curr.DiskWriteBytes, intervalSeconds),
		NetSentKBs:   counterRate(prev.NetSentBytes, curr.NetSentBytes, intervalSeconds),
		NetRecvKBs:   counterRate(prev.NetRecvBytes, curr.NetRecvBytes, intervalSeconds),
	}
}

// counterRate subtracts in float64 space so a reset counter yields a negative
// delta instead of a uint64 underflow.
func counterRate(prev, curr uint64, intervalSeconds float64) float64 {
	return (float64(curr) - float64(prev)) / 1024 / intervalSeconds
}
