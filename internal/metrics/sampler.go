package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/sour/internal/logger"
)

// Sampler produces one SystemSnapshot per tick. It owns the rolling
// previous-counter state that network rate computation needs; there are no
// package-level globals, so independent samplers never interfere. Sample is
// safe to call from concurrent goroutines: slow metric reads can make one
// cycle outlast the tick interval, so two cycles may overlap in flight.
type Sampler struct {
	provider Provider
	diskPath string
	log      logger.Logger

	// Rolling state: raw counters and timestamp from the previous sample,
	// guarded by mu against overlapping sampling cycles.
	mu       sync.Mutex
	prevSent uint64
	prevRecv uint64
	prevTime time.Time
	hasPrev  bool

	// now is swappable for tests.
	now func() time.Time
}

// NewSampler creates a sampler reading from the given provider.
// diskPath selects the filesystem reported in DiskPercent (usually "/").
func NewSampler(provider Provider, diskPath string, log logger.Logger) *Sampler {
	if log == nil {
		log = logger.Noop()
	}
	if diskPath == "" {
		diskPath = "/"
	}
	return &Sampler{
		provider: provider,
		diskPath: diskPath,
		log:      log,
		now:      time.Now,
	}
}

// Prime snapshots the network counters without emitting a rate, so the
// first real sample after startup already has a baseline.
func (s *Sampler) Prime(ctx context.Context) {
	sent, recv, err := s.provider.NetCounters(ctx)
	if err != nil {
		s.log.Debug("prime: net counters unavailable: %v", err)
		return
	}

	s.mu.Lock()
	s.prevSent = sent
	s.prevRecv = recv
	s.prevTime = s.now()
	s.hasPrev = true
	s.mu.Unlock()
}

// Sample collects a fresh snapshot. Individual metric read failures are
// logged and leave the corresponding field at zero; the dashboard keeps
// running regardless.
func (s *Sampler) Sample(ctx context.Context) *SystemSnapshot {
	snap := &SystemSnapshot{}

	if cpuPct, err := s.provider.CPUPercent(ctx); err == nil {
		snap.CPUPercent = cpuPct
	} else {
		s.log.Debug("cpu read failed: %v", err)
	}

	if memPct, err := s.provider.MemoryPercent(ctx); err == nil {
		snap.MemPercent = memPct
	} else {
		s.log.Debug("memory read failed: %v", err)
	}

	if diskPct, err := s.provider.DiskPercent(ctx, s.diskPath); err == nil {
		snap.DiskPercent = diskPct
	} else {
		s.log.Debug("disk read failed for %s: %v", s.diskPath, err)
	}

	s.sampleNetwork(ctx, snap)

	if boot, err := s.provider.BootTime(ctx); err == nil {
		if uptime := s.now().Unix() - int64(boot); uptime > 0 {
			snap.UptimeSeconds = uptime
		}
	} else {
		s.log.Debug("boot time read failed: %v", err)
	}

	if hostname, err := s.provider.Hostname(); err == nil {
		snap.Hostname = hostname
	}

	return snap
}

// sampleNetwork computes send/receive rates from the counter deltas since
// the previous sample. The first sample, a non-positive elapsed time, or a
// counter that went backwards (reset/wraparound) all yield a zero rate; the
// result is always finite and non-negative.
func (s *Sampler) sampleNetwork(ctx context.Context, snap *SystemSnapshot) {
	sent, recv, err := s.provider.NetCounters(ctx)
	if err != nil {
		s.log.Debug("net counters read failed: %v", err)
		return
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasPrev {
		if dt := now.Sub(s.prevTime).Seconds(); dt > 0 {
			snap.NetSentRate = counterRate(sent, s.prevSent, dt)
			snap.NetRecvRate = counterRate(recv, s.prevRecv, dt)
		}
	}

	s.prevSent = sent
	s.prevRecv = recv
	s.prevTime = now
	s.hasPrev = true
}

// counterRate converts a cumulative counter delta to a per-second rate,
// clamping negative deltas to zero.
func counterRate(cur, prev uint64, dt float64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / dt
}
