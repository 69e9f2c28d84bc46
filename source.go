package main

import (
	"context"
	"time"

	"github.com/distatus/battery"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
	gprocess "github.com/shirou/gopsutil/v3/process"
)

// DiskCounters holds cumulative disk byte totals across all devices.
type DiskCounters struct {
	ReadBytes  uint64
	WriteBytes uint64
}

// NetCounters holds cumulative network byte totals across all interfaces.
type NetCounters struct {
	SentBytes uint64
	RecvBytes uint64
}

// MetricSource is the capability the sampling loop consumes for every OS-level
// read. CPUPercent doubles as the loop's pacing mechanism: it blocks for the
// requested window and measures utilization over exactly that window, so the
// loop never sleeps separately. Prime must be called once before the first
// tick; per-process CPU accounting is meaningless without a baseline.
type MetricSource interface {
	Prime(ctx context.Context) error
	CPUPercent(ctx context.Context, window time.Duration) (float64, error)
	Memory(ctx context.Context) (MemoryInfo, error)
	PowerState(ctx context.Context) (bool, error)
	DiskCounters(ctx context.Context) (DiskCounters, error)
	NetCounters(ctx context.Context) (NetCounters, error)
	Processes(ctx context.Context) ([]ProcessObservation, error)
}

// systemSource reads live metrics through gopsutil. It keeps per-pid CPU time
// baselines across calls so each enumeration reports CPU share over the window
// since the previous enumeration.
type systemSource struct {
	prevProcTimes map[int32]procTimes
}

type procTimes struct {
	total     float64
	timestamp time.Time
}

// NewSystemSource returns a MetricSource backed by the host OS.
func NewSystemSource() MetricSource {
	return &systemSource{prevProcTimes: make(map[int32]procTimes)}
}

// Prime takes a first system-wide CPU reading and a first per-process CPU
// reading for every live process. The results are discarded; the point is to
// seed the baselines so the first real tick has a meaningful delta window.
func (s *systemSource) Prime(ctx context.Context) error {
	if _, err := cpu.TimesWithContext(ctx, false); err != nil {
		return err
	}
	_, err := s.Processes(ctx)
	return err
}

// CPUPercent blocks for the given window and returns the system utilization
// over it, computed from two cpu.Times readings. Cancellation mid-window
// aborts the measurement; the partial window is discarded.
func (s *systemSource) CPUPercent(ctx context.Context, window time.Duration) (float64, error) {
	before, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return 0, err
	}

	timer := time.NewTimer(window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
	}

	after, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(before) == 0 || len(after) == 0 {
		return 0, nil
	}

	busy, total := cpuBusyAndTotal(after[0], before[0])
	if total <= 0 {
		return 0, nil
	}
	return clampPercent(busy / total * 100), nil
}

func (s *systemSource) Memory(ctx context.Context) (MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryInfo{}, err
	}
	return MemoryInfo{
		Percent:    vm.UsedPercent,
		UsedBytes:  vm.Used,
		TotalBytes: vm.Total,
	}, nil
}

// PowerState reports whether the machine is on external power. Hosts without
// a battery, and hosts where battery state cannot be read, report false; a
// missing battery is an expected configuration, not an error.
func (s *systemSource) PowerState(_ context.Context) (bool, error) {
	batteries, err := battery.GetAll()
	if err != nil || len(batteries) == 0 {
		return false, nil
	}
	for _, b := range batteries {
		switch b.State {
		case battery.Charging, battery.Full:
			return true, nil
		}
	}
	return false, nil
}

func (s *systemSource) DiskCounters(ctx context.Context) (DiskCounters, error) {
	perDevice, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return DiskCounters{}, err
	}
	var out DiskCounters
	for _, stat := range perDevice {
		out.ReadBytes += stat.ReadBytes
		out.WriteBytes += stat.WriteBytes
	}
	return out, nil
}

func (s *systemSource) NetCounters(ctx context.Context) (NetCounters, error) {
	// pernic=false returns a single aggregate entry.
	stats, err := gnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetCounters{}, err
	}
	if len(stats) == 0 {
		return NetCounters{}, nil
	}
	return NetCounters{SentBytes: stats[0].BytesSent, RecvBytes: stats[0].BytesRecv}, nil
}

// Processes enumerates live processes and returns one observation per process
// whose metrics could all be read. Processes that exit mid-enumeration or deny
// access are dropped from this snapshot; process populations are racy and a
// partial snapshot is the expected outcome. A process seen for the first time
// has no CPU baseline yet and reports share 0.
func (s *systemSource) Processes(ctx context.Context) ([]ProcessObservation, error) {
	procs, err := gprocess.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	obs := make([]ProcessObservation, 0, len(procs))
	seen := make(map[int32]struct{}, len(procs))

	for _, proc := range procs {
		o, ok := s.observe(ctx, proc, now)
		if !ok {
			continue
		}
		seen[proc.Pid] = struct{}{}
		obs = append(obs, o)
	}

	// Drop baselines for processes that vanished.
	for pid := range s.prevProcTimes {
		if _, ok := seen[pid]; !ok {
			delete(s.prevProcTimes, pid)
		}
	}

	return obs, nil
}

// observe performs the fallible per-process reads. Any failure excludes the
// process from this tick's snapshot.
func (s *systemSource) observe(ctx context.Context, proc *gprocess.Process, now time.Time) (ProcessObservation, bool) {
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return ProcessObservation{}, false
	}

	timesStat, err := proc.TimesWithContext(ctx)
	if err != nil {
		return ProcessObservation{}, false
	}
	total := timesStat.User + timesStat.System

	memShare, err := proc.MemoryPercentWithContext(ctx)
	if err != nil {
		return ProcessObservation{}, false
	}

	prev, hadBaseline := s.prevProcTimes[proc.Pid]
	s.prevProcTimes[proc.Pid] = procTimes{total: total, timestamp: now}

	var cpuShare float64
	if hadBaseline {
		if elapsed := now.Sub(prev.timestamp).Seconds(); elapsed > 0 {
			cpuShare = (total - prev.total) / elapsed * 100
			if cpuShare < 0 {
				cpuShare = 0
			}
		}
	}

	return ProcessObservation{
		PID:         proc.Pid,
		Name:        name,
		CPUShare:    cpuShare,
		MemoryShare: float64(memShare),
	}, true
}

func cpuBusyAndTotal(curr, prev cpu.TimesStat) (busy float64, total float64) {
	total = curr.Total() - prev.Total()
	idle := (curr.Idle - prev.Idle) + (curr.Iowait - prev.Iowait)
	if idle < 0 {
		idle = 0
	}
	busy = total - idle
	if busy < 0 {
		busy = 0
	}
	if total < 0 {
		total = 0
	}
	return busy, total
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
