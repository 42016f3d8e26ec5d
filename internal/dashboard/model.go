// Package dashboard implements the live system view: a Bubble Tea model
// that samples host metrics on a fixed tick, renders gauges and tables, and
// routes the single-key commands (kill, freeze, speedtest).
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/sour/internal/command"
	"github.com/rileyhilliard/sour/internal/logger"
	"github.com/rileyhilliard/sour/internal/metrics"
	"github.com/rileyhilliard/sour/internal/probe"
)

// DefaultInterval is the refresh cadence when none is configured.
const DefaultInterval = 200 * time.Millisecond

// feedbackDuration is how long kill feedback lines stay on screen.
const feedbackDuration = 1500 * time.Millisecond

// cpuHistorySize caps the CPU readings kept for the history sparkline.
const cpuHistorySize = 50

// viewMode selects between the live dashboard and the kill prompt.
type viewMode int

const (
	modeLive viewMode = iota
	modeKill
)

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	sampler  *metrics.Sampler
	ranker   *metrics.Ranker
	provider metrics.Provider
	probe    *probe.Probe
	flags    *command.Flags
	dispatch *command.Dispatcher
	log      logger.Logger

	interval time.Duration
	width    int
	height   int

	snapshot   *metrics.SystemSnapshot
	procs      []metrics.ProcessInfo
	partitions []metrics.PartitionUsage

	// cpuHistory holds the most recent CPU readings for the history
	// sparkline, newest last.
	cpuHistory []float64

	// lastFrame is the most recent live render; while frozen it is served
	// untouched so the display holds still while sampling continues.
	lastFrame string

	mode      viewMode
	killInput textinput.Model
	// killProcs pins the process listing shown by the kill prompt so the
	// numbered entries do not shift under the user's cursor.
	killProcs []metrics.ProcessInfo

	feedback      string
	feedbackUntil time.Time

	quitting bool
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// sampleMsg carries one sampling cycle's results.
type sampleMsg struct {
	snapshot   *metrics.SystemSnapshot
	procs      []metrics.ProcessInfo
	partitions []metrics.PartitionUsage
}

// killResultMsg carries the outcome line of a kill attempt.
type killResultMsg struct {
	text string
}

// Options configures a dashboard model.
type Options struct {
	Provider metrics.Provider
	Probe    *probe.Probe
	Interval time.Duration
	TopN     int
	DiskPath string
	Logger   logger.Logger
}

// NewModel builds the dashboard from its collaborators. The command flags
// and dispatcher are owned by the model; the input stream feeding Update is
// the single event source fanning out to them.
func NewModel(opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	flags := &command.Flags{}
	dispatch := command.NewDispatcher(flags, func() { opts.Probe.Start() }, opts.Logger)

	input := textinput.New()
	input.Prompt = "Enter number (0 to cancel): "
	input.CharLimit = 6

	return Model{
		sampler:   metrics.NewSampler(opts.Provider, opts.DiskPath, opts.Logger),
		ranker:    metrics.NewRanker(opts.Provider, opts.TopN),
		provider:  opts.Provider,
		probe:     opts.Probe,
		flags:     flags,
		dispatch:  dispatch,
		log:       opts.Logger,
		interval:  opts.Interval,
		killInput: input,
	}
}

// Init primes the network counters and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.sampler.Prime(context.Background())
	return tea.Batch(m.tickCmd(), m.sampleCmd())
}

// Update handles messages and advances the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if !m.feedbackUntil.IsZero() && time.Time(msg).After(m.feedbackUntil) {
			m.feedback = ""
			m.feedbackUntil = time.Time{}
		}
		return m, tea.Batch(m.tickCmd(), m.sampleCmd())

	case sampleMsg:
		m.snapshot = msg.snapshot
		m.procs = msg.procs
		m.partitions = msg.partitions
		if msg.snapshot != nil {
			m.cpuHistory = append(m.cpuHistory, msg.snapshot.CPUPercent)
			if len(m.cpuHistory) > cpuHistorySize {
				m.cpuHistory = m.cpuHistory[len(m.cpuHistory)-cpuHistorySize:]
			}
		}

		// A latched kill request suspends the live view and opens the
		// prompt over a pinned copy of the current top processes.
		if m.mode == modeLive && m.flags.ConsumeKill() {
			m.mode = modeKill
			m.killProcs = msg.procs
			m.killInput.SetValue("")
			m.killInput.Focus()
			return m, textinput.Blink
		}

		if m.mode == modeLive && !m.flags.Frozen() {
			m.lastFrame = m.renderDashboard()
		}

	case killResultMsg:
		m.feedback = msg.text
		m.feedbackUntil = time.Now().Add(feedbackDuration)
	}

	return m, nil
}

// View renders the current frame. While frozen the cached frame is returned
// byte for byte; the kill prompt replaces the live view entirely.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeKill {
		return m.renderKillPrompt()
	}
	if m.lastFrame == "" {
		return "Starting up..."
	}
	return m.lastFrame
}

// tickCmd schedules the next refresh tick.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sampleCmd collects one cycle of metrics off the update loop.
func (m Model) sampleCmd() tea.Cmd {
	sampler, ranker, provider := m.sampler, m.ranker, m.provider
	return func() tea.Msg {
		ctx := context.Background()
		snap := sampler.Sample(ctx)
		procs := ranker.Top(ctx)
		parts, err := provider.Partitions(ctx)
		if err != nil {
			parts = nil
		}
		return sampleMsg{snapshot: snap, procs: procs, partitions: parts}
	}
}

// killCmd terminates the selected process tree and reports the outcome.
func (m Model) killCmd(target metrics.ProcessInfo) tea.Cmd {
	provider, log := m.provider, m.log
	return func() tea.Msg {
		if err := provider.KillTree(context.Background(), target.PID); err != nil {
			log.Warn("kill failed: %v", err)
			return killResultMsg{text: fmt.Sprintf("Could not kill %s (PID %d): %v", target.Name, target.PID, err)}
		}
		return killResultMsg{text: fmt.Sprintf("Killed %s (PID %d)", target.Name, target.PID)}
	}
}

// handleKey routes keyboard input: quit keys, the kill prompt's line
// editing, then the command dispatcher.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == KeyQuit || key == KeyQuitAlt {
		m.quitting = true
		return m, tea.Quit
	}

	if m.mode == modeKill {
		switch key {
		case KeyConfirm:
			return m.submitKillSelection()
		case KeyCancel:
			return m.closeKillPrompt("Canceled.")
		default:
			var cmd tea.Cmd
			m.killInput, cmd = m.killInput.Update(msg)
			return m, cmd
		}
	}

	m.dispatch.Handle(key)
	return m, nil
}

// submitKillSelection parses the entered index and acts on it. Zero
// cancels; anything unparseable or out of range reports an invalid
// selection without touching any process.
func (m Model) submitKillSelection() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.killInput.Value())

	idx, err := strconv.Atoi(raw)
	if err != nil {
		return m.closeKillPrompt("Invalid selection")
	}
	if idx == 0 {
		return m.closeKillPrompt("Canceled.")
	}
	if idx < 1 || idx > len(m.killProcs) {
		return m.closeKillPrompt("Invalid selection")
	}

	target := m.killProcs[idx-1]
	model, _ := m.closeKillPrompt("")
	next := model.(Model)
	return next, next.killCmd(target)
}

// closeKillPrompt returns to the live view, optionally posting feedback.
func (m Model) closeKillPrompt(feedback string) (tea.Model, tea.Cmd) {
	m.mode = modeLive
	m.killInput.Blur()
	m.killProcs = nil
	if feedback != "" {
		m.feedback = feedback
		m.feedbackUntil = time.Now().Add(feedbackDuration)
	}
	return m, nil
}

// Frozen reports whether the display is currently held.
func (m Model) Frozen() bool {
	return m.flags.Frozen()
}
