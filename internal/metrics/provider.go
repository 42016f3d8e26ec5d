package metrics

import "context"

// Provider is the capability surface the dashboard needs from the operating
// system. The production implementation wraps gopsutil; tests substitute an
// in-memory fake.
type Provider interface {
	// CPUPercent returns overall CPU utilization as 0-100.
	CPUPercent(ctx context.Context) (float64, error)

	// MemoryPercent returns virtual memory utilization as 0-100.
	MemoryPercent(ctx context.Context) (float64, error)

	// DiskPercent returns usage of the filesystem containing path as 0-100.
	DiskPercent(ctx context.Context, path string) (float64, error)

	// NetCounters returns cumulative bytes sent and received across all
	// interfaces since boot. Rate computation is the caller's concern.
	NetCounters(ctx context.Context) (sent, recv uint64, err error)

	// BootTime returns the host boot timestamp as a Unix time.
	BootTime(ctx context.Context) (uint64, error)

	// Hostname returns the host's name.
	Hostname() (string, error)

	// Processes enumerates running processes. Processes that disappear
	// mid-enumeration are skipped, not reported as errors.
	Processes(ctx context.Context) ([]ProcessInfo, error)

	// Partitions lists physical disk partitions with usage. Partitions the
	// caller cannot stat (permissions) are skipped silently.
	Partitions(ctx context.Context) ([]PartitionUsage, error)

	// KillTree terminates pid and its descendants, children first.
	// Best effort: a partial failure is returned but the walk continues.
	KillTree(ctx context.Context, pid int32) error
}
