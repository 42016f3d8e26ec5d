package dashboard

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sour/internal/metrics"
	mtest "github.com/rileyhilliard/sour/internal/metrics/testing"
	"github.com/rileyhilliard/sour/internal/probe"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// stubLauncher keeps probe construction cheap; the reader decides whether
// the fake run completes immediately or stays in flight.
type stubLauncher struct {
	reader io.Reader
}

func (s *stubLauncher) Launch() (io.Reader, probe.WaitFunc, error) {
	r := s.reader
	if r == nil {
		r = strings.NewReader("")
	}
	return r, func(time.Duration) error { return nil }, nil
}

func newTestModel(t *testing.T, launcher probe.Launcher) (Model, *mtest.FakeProvider) {
	t.Helper()

	provider := mtest.NewFakeProvider()
	provider.Set(10, 20, 30)
	provider.Procs = []metrics.ProcessInfo{
		{PID: 101, Name: "chrome", CPUPercent: 42.0, MemPercent: 9.0},
		{PID: 202, Name: "postgres", CPUPercent: 17.5, MemPercent: 4.2},
	}
	provider.Parts = []metrics.PartitionUsage{
		{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4", UsedPercent: 61.0},
	}

	if launcher == nil {
		launcher = &stubLauncher{}
	}
	counters := func() (uint64, uint64, error) { return provider.NetCounters(context.Background()) }
	p := probe.New(launcher, counters, nil)

	m := NewModel(Options{
		Provider: provider,
		Probe:    p,
		Interval: 50 * time.Millisecond,
		TopN:     10,
		DiskPath: "/",
	})
	return m, provider
}

func press(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// sample runs one sampling cycle synchronously and feeds the result back.
func sample(m Model) (Model, tea.Cmd) {
	msg := m.sampleCmd()()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestLiveViewRendersSections(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = sample(m)

	view := m.View()
	assert.Contains(t, view, "testhost")
	assert.Contains(t, view, "CPU ")
	assert.Contains(t, view, "Network")
	assert.Contains(t, view, "Top processes")
	assert.Contains(t, view, "chrome")
	assert.Contains(t, view, "Disks")
	assert.Contains(t, view, "/dev/sda1")
	assert.Contains(t, view, "k = kill process | f = freeze | n = speedtest")
}

func TestFreezeHoldsFrame(t *testing.T) {
	m, provider := newTestModel(t, nil)
	m, _ = sample(m)

	m, _ = press(m, "f")
	require.True(t, m.Frozen())
	frozen := m.View()

	// Sampling continues underneath, but the frame must not move.
	provider.Set(95, 96, 97)
	m, _ = sample(m)
	assert.Equal(t, frozen, m.View(), "frozen frame must be byte-identical")

	m, _ = press(m, "f")
	require.False(t, m.Frozen())
	m, _ = sample(m)
	assert.NotEqual(t, frozen, m.View(), "unfreezing resumes live rendering")
	assert.Contains(t, m.View(), "95.0")
}

func TestKillPromptCancelWithEsc(t *testing.T) {
	m, provider := newTestModel(t, nil)
	m, _ = sample(m)

	m, _ = press(m, "k")
	m, _ = sample(m)
	require.Contains(t, m.View(), "Select a process to kill")
	assert.Contains(t, m.View(), "chrome")

	m, _ = press(m, "esc")
	m, _ = sample(m)
	assert.Contains(t, m.View(), "Canceled.")
	assert.Empty(t, provider.KilledPIDs(), "cancel must not touch any process")
}

func TestKillPromptZeroCancels(t *testing.T) {
	m, provider := newTestModel(t, nil)
	m, _ = sample(m)

	m, _ = press(m, "k")
	m, _ = sample(m)
	m, _ = press(m, "0")
	m, cmd := press(m, "enter")

	assert.Nil(t, cmd)
	m, _ = sample(m)
	assert.Contains(t, m.View(), "Canceled.")
	assert.Empty(t, provider.KilledPIDs())
}

func TestKillPromptInvalidSelection(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"out of range", "9"},
		{"not a number", "x"},
		{"negative", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, provider := newTestModel(t, nil)
			m, _ = sample(m)

			m, _ = press(m, "k")
			m, _ = sample(m)
			for _, ch := range tt.entry {
				m, _ = press(m, string(ch))
			}
			m, cmd := press(m, "enter")

			assert.Nil(t, cmd)
			m, _ = sample(m)
			assert.Contains(t, m.View(), "Invalid selection")
			assert.Empty(t, provider.KilledPIDs())
		})
	}
}

func TestKillPromptValidSelection(t *testing.T) {
	m, provider := newTestModel(t, nil)
	m, _ = sample(m)

	m, _ = press(m, "k")
	m, _ = sample(m)
	m, _ = press(m, "1")
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(killResultMsg)
	require.True(t, ok)
	assert.Equal(t, "Killed chrome (PID 101)", result.text)
	assert.Equal(t, []int32{101}, provider.KilledPIDs())

	next, _ := m.Update(msg)
	m = next.(Model)
	m, _ = sample(m)
	assert.Contains(t, m.View(), "Killed chrome (PID 101)")
}

func TestKillFailureIsNonFatal(t *testing.T) {
	m, provider := newTestModel(t, nil)
	provider.KillErr = assert.AnError
	m, _ = sample(m)

	m, _ = press(m, "k")
	m, _ = sample(m)
	m, _ = press(m, "1")
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)

	result, ok := cmd().(killResultMsg)
	require.True(t, ok)
	assert.Contains(t, result.text, "Could not kill chrome")
	_ = m
}

func TestSpeedtestToggleSwapsPanel(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = sample(m)
	require.Contains(t, m.View(), "Network")

	m, _ = press(m, "n")
	m, _ = sample(m)
	view := m.View()
	assert.Contains(t, view, "Speedtest")
	assert.NotContains(t, view, "Network")

	m, _ = press(m, "n")
	m, _ = sample(m)
	assert.Contains(t, m.View(), "Network")
}

func TestProbePanelShowsRunningPlaceholder(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	m, _ := newTestModel(t, &stubLauncher{reader: pr})
	m, _ = sample(m)

	m, _ = press(m, "n")
	m, _ = sample(m)
	assert.Contains(t, m.View(), "(running...)")
}

// failingReader serves its wrapped data, then fails instead of EOF.
type failingReader struct {
	r   io.Reader
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, f.err
	}
	return n, err
}

func TestCPUSparklineTracksHistory(t *testing.T) {
	m, provider := newTestModel(t, nil)

	for _, cpu := range []float64{0, 50, 100} {
		provider.Set(cpu, 20, 30)
		m, _ = sample(m)
	}

	assert.Contains(t, m.View(), "▁▄█")
	assert.Equal(t, []float64{0, 50, 100}, m.cpuHistory)
}

func TestCPUHistoryIsBounded(t *testing.T) {
	m, _ := newTestModel(t, nil)

	for i := 0; i < cpuHistorySize+10; i++ {
		m, _ = sample(m)
	}

	assert.Len(t, m.cpuHistory, cpuHistorySize)
}

func TestProbePanelShowsOutputAndError(t *testing.T) {
	launcher := &stubLauncher{reader: &failingReader{
		r:   strings.NewReader("Download: 94.1 Mbit/s\n"),
		err: errors.New("link down"),
	}}
	m, _ := newTestModel(t, launcher)
	m, _ = sample(m)

	m, _ = press(m, "n")
	require.Eventually(t, func() bool { return !m.probe.Running() },
		2*time.Second, 5*time.Millisecond)

	m, _ = sample(m)
	view := m.View()
	assert.Contains(t, view, "Download: 94.1 Mbit/s", "output before the failure stays visible")
	assert.Contains(t, view, "Speedtest error: link down")
}

func TestFeedbackExpiresAfterPause(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = sample(m)

	m, _ = press(m, "k")
	m, _ = sample(m)
	m, _ = press(m, "esc")
	m, _ = sample(m)
	require.Contains(t, m.View(), "Canceled.")

	next, _ := m.Update(tickMsg(time.Now().Add(2 * feedbackDuration)))
	m = next.(Model)
	m, _ = sample(m)
	assert.NotContains(t, m.View(), "Canceled.")
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			m, _ := newTestModel(t, nil)
			m, cmd := press(m, key)
			require.NotNil(t, cmd)
			assert.Empty(t, m.View())
		})
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		want    string
	}{
		{"zero", 0, "0:00:00"},
		{"under a minute", 59, "0:00:59"},
		{"minutes and seconds", 125, "0:02:05"},
		{"hours", 3*3600 + 4*60 + 5, "3:04:05"},
		{"days roll into hours", 90000, "25:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatUptime(tt.seconds))
		})
	}
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "short", truncateName("short", 10))
	assert.Equal(t, "exactlyten", truncateName("exactlyten", 10))
	assert.Equal(t, "loooooooo…", truncateName("looooooooooong", 10))
}
