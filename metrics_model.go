package main

import "time"

// Envelope wraps a value emitted by the sampling loop for live consumers.
type Envelope struct {
	Timestamp time.Time
	Source    Source
	Payload   any
}

// Source indicates the origin of an emitted value for routing/labeling.
type Source string

const (
	SourceSample Source = "sample"
	SourceNotice Source = "notice"
)

// ProcessObservation is one process's share of CPU and memory at a sampling
// instant. Observations are rebuilt from scratch every tick; the only state
// carried across ticks lives inside the MetricSource's CPU accounting.
type ProcessObservation struct {
	PID         int32
	Name        string
	CPUShare    float64
	MemoryShare float64
}

// MemoryInfo is a point-in-time view of system memory.
type MemoryInfo struct {
	Percent    float64
	UsedBytes  uint64
	TotalBytes uint64
}

// CounterSnapshot holds cumulative disk and network byte totals as reported
// by the OS. Values are monotonically non-decreasing except across counter
// resets, which surface downstream as negative rates.
type CounterSnapshot struct {
	DiskReadBytes  uint64
	DiskWriteBytes uint64
	NetSentBytes   uint64
	NetRecvBytes   uint64
}

// Rates holds per-second transfer rates derived from two CounterSnapshots.
type Rates struct {
	DiskReadKBs  float64
	DiskWriteKBs float64
	NetSentKBs   float64
	NetRecvKBs   float64
}

// Sample is one fully assembled observation for one tick. It is created once
// by the sampling loop and never mutated afterwards.
type Sample struct {
	TimestampUnix  float64
	TimestampHuman string
	CPUPercent     float64
	MemoryPercent  float64
	MemoryUsedGB   float64
	DiskReadKBs    float64
	DiskWriteKBs   float64
	NetSentKBs     float64
	NetRecvKBs     float64
	Charging       bool

	// TopCPU and TopMem hold at most rankLimit entries each, sorted by the
	// respective share descending, stable on ties.
	TopCPU []ProcessObservation
	TopMem []ProcessObservation
}

// Notice conveys non-fatal loop events (progress, warnings) to the UI.
type Notice struct {
	Component string
	Message   string
}

// Progress reports tick completion for status displays.
type Progress struct {
	Completed int
	Scheduled int
}
