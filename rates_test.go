package main

import (
	"math"
	"testing"
)

func floatsClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestTrackRatesDelta verifies the core rate math: (curr-prev)/1024/interval.
func TestTrackRatesDelta(t *testing.T) {
	prev := CounterSnapshot{
		DiskReadBytes:  1000,
		DiskWriteBytes: 2000,
		NetSentBytes:   3000,
		NetRecvBytes:   4000,
	}
	curr := CounterSnapshot{
		DiskReadBytes:  1000 + 1024,
		DiskWriteBytes: 2000 + 2048,
		NetSentBytes:   3000 + 5120,
		NetRecvBytes:   4000 + 512,
	}

	rates := TrackRates(prev, curr, 5)

	if !floatsClose(rates.DiskReadKBs, 0.2) {
		t.Errorf("disk read rate: expected 0.2, got %v", rates.DiskReadKBs)
	}
	if !floatsClose(rates.DiskWriteKBs, 0.4) {
		t.Errorf("disk write rate: expected 0.4, got %v", rates.DiskWriteKBs)
	}
	if !floatsClose(rates.NetSentKBs, 1.0) {
		t.Errorf("net sent rate: expected 1.0, got %v", rates.NetSentKBs)
	}
	if !floatsClose(rates.NetRecvKBs, 0.1) {
		t.Errorf("net recv rate: expected 0.1, got %v", rates.NetRecvKBs)
	}
}

// TestTrackRatesZeroDelta checks that unchanged counters produce zero rates.
func TestTrackRatesZeroDelta(t *testing.T) {
	snap := CounterSnapshot{DiskReadBytes: 500, NetSentBytes: 500}
	rates := TrackRates(snap, snap, 1)
	if rates.DiskReadKBs != 0 || rates.DiskWriteKBs != 0 || rates.NetSentKBs != 0 || rates.NetRecvKBs != 0 {
		t.Errorf("expected all-zero rates, got %+v", rates)
	}
}

// TestTrackRatesCounterReset checks that a decreased counter passes through
// as a negative rate instead of being clamped or underflowing.
func TestTrackRatesCounterReset(t *testing.T) {
	prev := CounterSnapshot{DiskReadBytes: 10240}
	curr := CounterSnapshot{DiskReadBytes: 0}

	rates := TrackRates(prev, curr, 10)

	if !floatsClose(rates.DiskReadKBs, -1.0) {
		t.Errorf("expected -1.0 for reset counter, got %v", rates.DiskReadKBs)
	}
	if rates.DiskReadKBs >= 0 {
		t.Error("reset counter must not be masked to a non-negative rate")
	}
}

// TestTrackRatesFractionalInterval exercises sub-second intervals.
func TestTrackRatesFractionalInterval(t *testing.T) {
	prev := CounterSnapshot{NetRecvBytes: 0}
	curr := CounterSnapshot{NetRecvBytes: 512}

	rates := TrackRates(prev, curr, 0.5)

	if !floatsClose(rates.NetRecvKBs, 1.0) {
		t.Errorf("expected 1.0, got %v", rates.NetRecvKBs)
	}
}
