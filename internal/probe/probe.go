// Package probe manages the background network speed measurement. A single
// worker goroutine runs the external speed-test executable, streams its
// line-oriented output, and re-samples the host network counters at each
// line to build a rolling throughput series for the sparkline panel.
//
// All compound state (running flag, output text, error text, samples) lives
// behind one mutex shared by the worker and the render loop.
package probe

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/sour/internal/logger"
)

const (
	// MaxSamples caps the throughput series; the oldest sample is evicted
	// first once the cap is reached.
	MaxSamples = 200

	// GraphWidth is how many samples the display snapshot renders.
	GraphWidth = 50

	// exitWaitTimeout bounds the wait for subprocess exit after its output
	// closes. Exceeding it is treated as completion, not an error.
	exitWaitTimeout = 10 * time.Second

	// minElapsed floors the elapsed time between counter samples so the
	// rate division can never blow up.
	minElapsed = 1e-6
)

// CounterFunc returns cumulative network byte counters (sent, received).
type CounterFunc func() (sent, recv uint64, err error)

// WaitFunc waits for the measurement subprocess to exit, bounded by timeout.
type WaitFunc func(timeout time.Duration) error

// Launcher starts the external measurement process and exposes its stdout
// line stream. Tests substitute a fake; production uses ExecLauncher.
type Launcher interface {
	Launch() (stdout io.Reader, wait WaitFunc, err error)
}

// Probe owns the speed-test state machine: Idle -> Running -> (Completed |
// Failed) -> Idle, where a new Start resets back to Running.
type Probe struct {
	launcher Launcher
	counters CounterFunc
	log      logger.Logger
	now      func() time.Time

	mu         sync.Mutex
	running    bool
	resultText string
	errText    string
	samples    *sampleRing
}

// DisplaySnapshot is a consistent read of the probe state for rendering.
// Graph maps the most recent samples to filled/empty glyphs by sign.
type DisplaySnapshot struct {
	Graph   string
	Text    string
	Err     string
	Running bool
}

// New creates a probe. counters is typically backed by the metrics provider.
func New(launcher Launcher, counters CounterFunc, log logger.Logger) *Probe {
	if log == nil {
		log = logger.Noop()
	}
	return &Probe{
		launcher: launcher,
		counters: counters,
		log:      log,
		now:      time.Now,
		samples:  newSampleRing(MaxSamples),
	}
}

// Start launches a measurement run. While a run is in flight this is a
// no-op; the checked-and-set under the lock guarantees at most one worker.
// Returns whether a new run began.
func (p *Probe) Start() bool {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return false
	}
	p.running = true
	p.resultText = ""
	p.errText = ""
	p.samples.reset()
	p.mu.Unlock()

	p.log.Debug("speed probe starting")
	go p.run()
	return true
}

// Running reports whether a measurement run is in flight.
func (p *Probe) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Snapshot returns a consistent view of the probe state for the panel.
// Text and Err are returned verbatim; placeholder wording is the view's job.
func (p *Probe) Snapshot() DisplaySnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	recent := p.samples.lastN(GraphWidth)
	var graph strings.Builder
	for _, v := range recent {
		if v > 0 {
			graph.WriteRune('█')
		} else {
			graph.WriteRune(' ')
		}
	}

	return DisplaySnapshot{
		Graph:   graph.String(),
		Text:    p.resultText,
		Err:     p.errText,
		Running: p.running,
	}
}

// SampleCount returns how many throughput samples are retained.
func (p *Probe) SampleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samples.len()
}

// Samples returns the retained throughput series, oldest first.
func (p *Probe) Samples() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samples.lastN(p.samples.len())
}

// run is the worker goroutine body.
func (p *Probe) run() {
	stdout, wait, err := p.launcher.Launch()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			p.finish("speedtest-cli not found.")
		} else {
			p.finish(fmt.Sprintf("Failed to start speedtest: %v", err))
		}
		return
	}

	lastSent, lastRecv, counterErr := p.counters()
	lastTime := p.now()

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			p.appendLine(line)
		}

		// Re-sample counters at each line arrival; the line cadence is the
		// sampling cadence.
		curSent, curRecv, err := p.counters()
		if err != nil || counterErr != nil {
			counterErr = err
			lastSent, lastRecv = curSent, curRecv
			lastTime = p.now()
			continue
		}

		now := p.now()
		dt := math.Max(now.Sub(lastTime).Seconds(), minElapsed)
		downBps := counterDelta(curRecv, lastRecv) / dt
		upBps := counterDelta(curSent, lastSent) / dt
		p.appendSample(math.Max(downBps, upBps) * 8.0 / 1e6)

		lastSent, lastRecv = curSent, curRecv
		lastTime = now
	}

	if err := scanner.Err(); err != nil {
		p.finish(fmt.Sprintf("Speedtest error: %v", err))
		_ = wait(exitWaitTimeout)
		return
	}

	// A timeout here counts as the subprocess having finished; a non-zero
	// exit is already reflected in whatever it printed.
	if err := wait(exitWaitTimeout); err != nil {
		p.log.Debug("speedtest exit: %v", err)
	}
	p.finish("")
}

// appendLine adds one output line (plus newline) to the result text.
func (p *Probe) appendLine(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resultText += line + "\n"
}

// appendSample pushes one throughput value, evicting the oldest at the cap.
func (p *Probe) appendSample(mbps float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples.push(mbps)
}

// finish ends the run, recording errText when the run failed.
func (p *Probe) finish(errText string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	if errText != "" {
		p.errText = errText
	}
}

// counterDelta clamps counter resets to zero.
func counterDelta(cur, prev uint64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur - prev)
}
