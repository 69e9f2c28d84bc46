package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

// ErrNoMetricSource is returned when the collector is built without a source.
var ErrNoMetricSource = errors.New("collector: metric source is nil")

// ErrNoTicks is returned when the configured interval exceeds the total
// duration, leaving no room for even a single tick.
var ErrNoTicks = errors.New("collector: sample interval exceeds total duration")

// EmitFunc consumes envelopes produced by the sampling loop.
type EmitFunc func(Envelope) error

const collectorLogPrefix = "[collector] "

func collectorLogf(format string, args ...any) {
	log.Printf(collectorLogPrefix+format, args...)
}

// CollectorConfig bounds one collection run.
type CollectorConfig struct {
	TotalDuration  time.Duration
	SampleInterval time.Duration
}

// ScheduledTicks is the number of samples a full run produces:
// floor(total / interval).
func (c CollectorConfig) ScheduledTicks() int {
	if c.SampleInterval <= 0 {
		return 0
	}
	return int(c.TotalDuration / c.SampleInterval)
}

func (c CollectorConfig) validate() error {
	if c.SampleInterval <= 0 {
		return fmt.Errorf("collector: sample interval must be positive, got %s", c.SampleInterval)
	}
	if c.ScheduledTicks() == 0 {
		return ErrNoTicks
	}
	return nil
}

// Collector owns one run's sampling state: the counter baselines and the
// ordered record of samples. It is single-threaded; Run drives everything.
type Collector struct {
	source MetricSource
	cfg    CollectorConfig
}

// NewCollector creates a Collector over the given source and run bounds.
func NewCollector(source MetricSource, cfg CollectorConfig) *Collector {
	return &Collector{source: source, cfg: cfg}
}

// Run executes the full collection: prime the CPU accounting, then one tick
// per scheduled interval, assembling one Sample each. The returned slice is
// chronological and append-only during the run.
//
// Cancellation is cooperative: it is observed at tick boundaries and inside
// the blocking CPU read, stops the loop without error, and never discards
// samples already collected. A fatal metric failure aborts the run but still
// returns everything collected before it, so callers can persist the partial
// record.
func (c *Collector) Run(ctx context.Context, emit EmitFunc) ([]Sample, error) {
	if c.source == nil {
		return nil, ErrNoMetricSource
	}
	if err := c.cfg.validate(); err != nil {
		return nil, err
	}

	scheduled := c.cfg.ScheduledTicks()
	collectorLogf("starting: %d tick(s) at %s interval", scheduled, c.cfg.SampleInterval)

	prev, err := c.prime(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			collectorLogf("canceled during priming")
			return nil, nil
		}
		return nil, fmt.Errorf("priming: %w", err)
	}

	samples := make([]Sample, 0, scheduled)
	for i := 0; i < scheduled; i++ {
		if ctx.Err() != nil {
			collectorLogf("canceled after %d tick(s)", len(samples))
			return samples, nil
		}

		sample, curr, err := c.tick(ctx, prev)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				collectorLogf("canceled after %d tick(s)", len(samples))
				return samples, nil
			}
			return samples, fmt.Errorf("tick %d/%d: %w", i+1, scheduled, err)
		}
		prev = curr
		samples = append(samples, sample)

		if err := c.emitTick(emit, sample, len(samples), scheduled); err != nil {
			if errors.Is(err, context.Canceled) {
				return samples, nil
			}
			return samples, err
		}
	}

	collectorLogf("finished: %d sample(s) collected", len(samples))
	return samples, nil
}

// prime takes the baseline-establishing reads: a first CPU reading (system and
// per-process, both discarded) and the initial cumulative counters that seed
// the first tick's rate deltas.
func (c *Collector) prime(ctx context.Context) (CounterSnapshot, error) {
	if err := c.source.Prime(ctx); err != nil {
		return CounterSnapshot{}, err
	}
	return c.readCounters(ctx)
}

// tick produces one Sample. The blocking CPU read inside is the tick's pacing;
// there is no separate sleep.
func (c *Collector) tick(ctx context.Context, prev CounterSnapshot) (Sample, CounterSnapshot, error) {
	now := time.Now()

	charging, err := c.source.PowerState(ctx)
	if err != nil {
		return Sample{}, prev, fmt.Errorf("reading power state: %w", err)
	}

	cpuPct, err := c.source.CPUPercent(ctx, c.cfg.SampleInterval)
	if err != nil {
		return Sample{}, prev, err
	}

	memInfo, err := c.source.Memory(ctx)
	if err != nil {
		return Sample{}, prev, fmt.Errorf("reading memory: %w", err)
	}

	curr, err := c.readCounters(ctx)
	if err != nil {
		return Sample{}, prev, err
	}
	rates := TrackRates(prev, curr, c.cfg.SampleInterval.Seconds())

	obs, err := c.source.Processes(ctx)
	if err != nil {
		return Sample{}, prev, fmt.Errorf("enumerating processes: %w", err)
	}

	sample := Sample{
		TimestampUnix:  float64(now.UnixNano()) / float64(time.Second),
		TimestampHuman: now.Format("2006-01-02 15:04:05"),
		CPUPercent:     cpuPct,
		MemoryPercent:  memInfo.Percent,
		MemoryUsedGB:   round2(float64(memInfo.UsedBytes) / (1 << 30)),
		DiskReadKBs:    rates.DiskReadKBs,
		DiskWriteKBs:   rates.DiskWriteKBs,
		NetSentKBs:     rates.NetSentKBs,
		NetRecvKBs:     rates.NetRecvKBs,
		Charging:       charging,
		TopCPU:         TopByCPU(obs, rankLimit),
		TopMem:         TopByMemory(obs, rankLimit),
	}
	return sample, curr, nil
}

func (c *Collector) readCounters(ctx context.Context) (CounterSnapshot, error) {
	diskStat, err := c.source.DiskCounters(ctx)
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("reading disk counters: %w", err)
	}
	netStat, err := c.source.NetCounters(ctx)
	if err != nil {
		return CounterSnapshot{}, fmt.Errorf("reading net counters: %w", err)
	}
	return CounterSnapshot{
		DiskReadBytes:  diskStat.ReadBytes,
		DiskWriteBytes: diskStat.WriteBytes,
		NetSentBytes:   netStat.SentBytes,
		NetRecvBytes:   netStat.RecvBytes,
	}, nil
}

func (c *Collector) emitTick(emit EmitFunc, sample Sample, completed, scheduled int) error {
	if emit == nil {
		return nil
	}
	now := time.Now()
	if err := emit(Envelope{Timestamp: now, Source: SourceSample, Payload: sample}); err != nil {
		return err
	}
	return emit(Envelope{Timestamp: now, Source: SourceNotice, Payload: Progress{Completed: completed, Scheduled: scheduled}})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
