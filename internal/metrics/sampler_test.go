package metrics

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sour/internal/logger"
)

// stubProvider is a minimal Provider for sampler tests. The shared fake in
// the testing subpackage cannot be used here without an import cycle.
type stubProvider struct {
	mu    sync.Mutex
	cpu   float64
	mem   float64
	disk  float64
	sent  uint64
	recv  uint64
	boot  uint64
	host  string
	err   error
	procs []ProcessInfo
}

func (s *stubProvider) CPUPercent(ctx context.Context) (float64, error) {
	return s.cpu, s.err
}

func (s *stubProvider) MemoryPercent(ctx context.Context) (float64, error) {
	return s.mem, s.err
}

func (s *stubProvider) DiskPercent(ctx context.Context, path string) (float64, error) {
	return s.disk, s.err
}

func (s *stubProvider) NetCounters(ctx context.Context) (uint64, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent, s.recv, s.err
}

func (s *stubProvider) setCounters(sent, recv uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent, s.recv = sent, recv
}

func (s *stubProvider) BootTime(ctx context.Context) (uint64, error) {
	return s.boot, s.err
}

func (s *stubProvider) Hostname() (string, error) {
	return s.host, nil
}

func (s *stubProvider) Processes(ctx context.Context) ([]ProcessInfo, error) {
	return s.procs, s.err
}

func (s *stubProvider) Partitions(ctx context.Context) ([]PartitionUsage, error) {
	return nil, s.err
}

func (s *stubProvider) KillTree(ctx context.Context, pid int32) error {
	return nil
}

// fixedClock returns a now() func that advances by step on each call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func TestSamplerFirstSampleHasZeroRates(t *testing.T) {
	provider := &stubProvider{sent: 5000, recv: 9000, host: "box", boot: 100}
	s := NewSampler(provider, "/", logger.Noop())

	snap := s.Sample(context.Background())

	require.NotNil(t, snap)
	assert.Zero(t, snap.NetSentRate)
	assert.Zero(t, snap.NetRecvRate)
	assert.Equal(t, "box", snap.Hostname)
}

func TestSamplerComputesRatesFromDeltas(t *testing.T) {
	provider := &stubProvider{sent: 1000, recv: 2000}
	s := NewSampler(provider, "/", logger.Noop())
	s.now = fixedClock(time.Unix(1000, 0), 2*time.Second)

	s.Sample(context.Background()) // baseline

	provider.setCounters(3000, 6000)
	snap := s.Sample(context.Background())

	// 2000 bytes sent and 4000 received over 2 seconds
	assert.InDelta(t, 1000.0, snap.NetSentRate, 0.001)
	assert.InDelta(t, 2000.0, snap.NetRecvRate, 0.001)
}

func TestSamplerZeroRateWhenNoTimeElapsed(t *testing.T) {
	provider := &stubProvider{sent: 1000, recv: 1000}
	s := NewSampler(provider, "/", logger.Noop())
	s.now = fixedClock(time.Unix(1000, 0), 0) // clock does not advance

	s.Sample(context.Background())
	provider.setCounters(9999, 9999)
	snap := s.Sample(context.Background())

	assert.Zero(t, snap.NetSentRate, "dt <= 0 must not produce a rate")
	assert.Zero(t, snap.NetRecvRate)
}

func TestSamplerClampsCounterResets(t *testing.T) {
	provider := &stubProvider{sent: 10000, recv: 10000}
	s := NewSampler(provider, "/", logger.Noop())
	s.now = fixedClock(time.Unix(1000, 0), time.Second)

	s.Sample(context.Background())
	provider.setCounters(100, 100) // counters went backwards
	snap := s.Sample(context.Background())

	assert.Zero(t, snap.NetSentRate, "negative delta must clamp to zero")
	assert.Zero(t, snap.NetRecvRate)
	assert.GreaterOrEqual(t, snap.NetSentRate, 0.0)
}

func TestSamplerPrimeEstablishesBaseline(t *testing.T) {
	provider := &stubProvider{sent: 1000, recv: 1000}
	s := NewSampler(provider, "/", logger.Noop())
	s.now = fixedClock(time.Unix(1000, 0), time.Second)

	s.Prime(context.Background())
	provider.setCounters(2024, 3048)
	snap := s.Sample(context.Background())

	assert.InDelta(t, 1024.0, snap.NetSentRate, 0.001)
	assert.InDelta(t, 2048.0, snap.NetRecvRate, 0.001)
}

func TestSamplerSurvivesProviderErrors(t *testing.T) {
	provider := &stubProvider{err: assert.AnError}
	log := logger.NewBufferLogger()
	s := NewSampler(provider, "/", log)

	snap := s.Sample(context.Background())

	require.NotNil(t, snap, "read failures must not abort the tick")
	assert.Zero(t, snap.CPUPercent)
	assert.Zero(t, snap.MemPercent)
	assert.True(t, log.HasLevel("debug"))
}

func TestSamplerUptime(t *testing.T) {
	now := time.Unix(5000, 0)
	provider := &stubProvider{boot: 1400}
	s := NewSampler(provider, "/", logger.Noop())
	s.now = func() time.Time { return now }

	snap := s.Sample(context.Background())

	assert.Equal(t, int64(3600), snap.UptimeSeconds)
}

func TestSamplerConcurrentSamples(t *testing.T) {
	provider := &stubProvider{host: "box", boot: 100}
	s := NewSampler(provider, "/", logger.Noop())
	s.Prime(context.Background())

	// Slow cycles can overlap the next tick, so two sampling goroutines may
	// run at once. The rolling counter state must not tear: every rate stays
	// finite and non-negative throughout.
	const iterations = 1000
	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(offset uint64) {
			defer wg.Done()
			for i := uint64(0); i < iterations; i++ {
				provider.setCounters(offset+i*1500, offset+i*3000)
				snap := s.Sample(context.Background())
				if snap.NetSentRate < 0 || snap.NetRecvRate < 0 ||
					math.IsNaN(snap.NetSentRate) || math.IsInf(snap.NetSentRate, 0) ||
					math.IsNaN(snap.NetRecvRate) || math.IsInf(snap.NetRecvRate, 0) {
					t.Errorf("torn rate: sent=%v recv=%v", snap.NetSentRate, snap.NetRecvRate)
					return
				}
			}
		}(uint64(w) * 100_000_000)
	}
	wg.Wait()
}

func TestCounterRate(t *testing.T) {
	tests := []struct {
		name string
		cur  uint64
		prev uint64
		dt   float64
		want float64
	}{
		{"normal delta", 3000, 1000, 2.0, 1000},
		{"no change", 1000, 1000, 1.0, 0},
		{"counter reset", 100, 5000, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, counterRate(tt.cur, tt.prev, tt.dt))
		})
	}
}
