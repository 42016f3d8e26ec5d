package metrics

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/rileyhilliard/sour/internal/errors"
)

// killWaitTimeout bounds how long KillTree waits for processes to exit.
const killWaitTimeout = 3 * time.Second

// SystemProvider implements Provider on top of gopsutil.
type SystemProvider struct{}

// NewSystemProvider returns the gopsutil-backed provider.
func NewSystemProvider() *SystemProvider {
	return &SystemProvider{}
}

// CPUPercent returns overall CPU utilization since the previous call.
// gopsutil keeps the last-call state internally when interval is zero, so
// this never blocks the tick waiting for a measurement window.
func (p *SystemProvider) CPUPercent(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, nil
	}
	return percents[0], nil
}

// MemoryPercent returns virtual memory utilization.
func (p *SystemProvider) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.UsedPercent, nil
}

// DiskPercent returns usage of the filesystem containing path.
func (p *SystemProvider) DiskPercent(ctx context.Context, path string) (float64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return usage.UsedPercent, nil
}

// NetCounters returns cumulative network byte counters summed across all
// interfaces (pernic=false collapses them into one pseudo-interface).
func (p *SystemProvider) NetCounters(ctx context.Context) (uint64, uint64, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, 0, err
	}
	if len(counters) == 0 {
		return 0, 0, nil
	}
	return counters[0].BytesSent, counters[0].BytesRecv, nil
}

// BootTime returns the host boot timestamp.
func (p *SystemProvider) BootTime(ctx context.Context) (uint64, error) {
	return host.BootTimeWithContext(ctx)
}

// Hostname returns the host's name.
func (p *SystemProvider) Hostname() (string, error) {
	return os.Hostname()
}

// Processes enumerates running processes with CPU and memory percentages.
// Any per-process read error means the process vanished mid-enumeration or
// is inaccessible; those entries are skipped.
func (p *SystemProvider) Processes(ctx context.Context) ([]ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, err := proc.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		memPct, err := proc.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}
		infos = append(infos, ProcessInfo{
			PID:        proc.Pid,
			Name:       name,
			CPUPercent: cpuPct,
			MemPercent: float64(memPct),
		})
	}
	return infos, nil
}

// Partitions lists physical partitions with usage percentages.
func (p *SystemProvider) Partitions(ctx context.Context) ([]PartitionUsage, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	rows := make([]PartitionUsage, 0, len(parts))
	for _, part := range parts {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			// Typically a permission error on a restricted mount; skip it.
			continue
		}
		rows = append(rows, PartitionUsage{
			Device:      part.Device,
			Mountpoint:  part.Mountpoint,
			Fstype:      part.Fstype,
			UsedPercent: usage.UsedPercent,
		})
	}
	return rows, nil
}

// KillTree terminates the process and its descendants, children first, then
// waits briefly for the tree to exit. Failures on individual processes do
// not abort the walk; the first error is reported.
func (p *SystemProvider) KillTree(ctx context.Context, pid int32) error {
	parent, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrKill,
			"Process not found",
			"It may have already exited")
	}

	descendants := collectDescendants(ctx, parent)

	var firstErr error
	for _, child := range descendants {
		if err := child.KillWithContext(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := parent.KillWithContext(ctx); err != nil && firstErr == nil {
		firstErr = err
	}

	waitForExit(ctx, append(descendants, parent), killWaitTimeout)

	if firstErr != nil {
		return errors.WrapWithCode(firstErr, errors.ErrKill,
			"Could not terminate the whole process tree",
			"You may not have permission to kill this process")
	}
	return nil
}

// collectDescendants walks the child tree depth-first, leaves last so the
// returned order is safe to kill front to back before the parent.
func collectDescendants(ctx context.Context, parent *process.Process) []*process.Process {
	children, err := parent.ChildrenWithContext(ctx)
	if err != nil {
		return nil
	}

	var all []*process.Process
	for _, child := range children {
		all = append(all, collectDescendants(ctx, child)...)
		all = append(all, child)
	}
	return all
}

// waitForExit polls until every process is gone or the timeout elapses.
func waitForExit(ctx context.Context, procs []*process.Process, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		alive := false
		for _, proc := range procs {
			if running, err := proc.IsRunningWithContext(ctx); err == nil && running {
				alive = true
				break
			}
		}
		if !alive {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}
