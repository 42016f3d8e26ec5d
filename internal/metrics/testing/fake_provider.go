// Package testing provides test doubles for the metrics package.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/sour/internal/metrics"
)

// FakeProvider is an in-memory metrics.Provider for tests. Fields are read
// under a mutex so tests may mutate them between ticks from other goroutines.
type FakeProvider struct {
	mu sync.Mutex

	CPU      float64
	Mem      float64
	Disk     float64
	Sent     uint64
	Recv     uint64
	Boot     uint64
	Host     string
	Procs    []metrics.ProcessInfo
	Parts    []metrics.PartitionUsage
	KillErr  error
	ReadErr  error // returned by every metric read when set
	Killed   []int32
	NetCalls int
}

// NewFakeProvider returns a provider with benign defaults.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{Host: "testhost", Boot: 1000}
}

// Set updates the gauge values under the lock.
func (f *FakeProvider) Set(cpu, mem, disk float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CPU, f.Mem, f.Disk = cpu, mem, disk
}

// SetCounters updates the cumulative network counters under the lock.
func (f *FakeProvider) SetCounters(sent, recv uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent, f.Recv = sent, recv
}

func (f *FakeProvider) CPUPercent(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CPU, f.ReadErr
}

func (f *FakeProvider) MemoryPercent(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Mem, f.ReadErr
}

func (f *FakeProvider) DiskPercent(ctx context.Context, path string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Disk, f.ReadErr
}

func (f *FakeProvider) NetCounters(ctx context.Context) (uint64, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.NetCalls++
	return f.Sent, f.Recv, f.ReadErr
}

func (f *FakeProvider) BootTime(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Boot, f.ReadErr
}

func (f *FakeProvider) Hostname() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Host, nil
}

func (f *FakeProvider) Processes(ctx context.Context) ([]metrics.ProcessInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	procs := make([]metrics.ProcessInfo, len(f.Procs))
	copy(procs, f.Procs)
	return procs, nil
}

func (f *FakeProvider) Partitions(ctx context.Context) ([]metrics.PartitionUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	parts := make([]metrics.PartitionUsage, len(f.Parts))
	copy(parts, f.Parts)
	return parts, nil
}

// KillTree records the request and returns the configured error.
func (f *FakeProvider) KillTree(ctx context.Context, pid int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Killed = append(f.Killed, pid)
	return f.KillErr
}

// KilledPIDs returns a copy of the recorded kill requests.
func (f *FakeProvider) KilledPIDs() []int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	pids := make([]int32, len(f.Killed))
	copy(pids, f.Killed)
	return pids
}
