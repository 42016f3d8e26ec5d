package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/sour/internal/config"
	"github.com/rileyhilliard/sour/internal/dashboard"
	"github.com/rileyhilliard/sour/internal/errors"
	"github.com/rileyhilliard/sour/internal/logger"
	"github.com/rileyhilliard/sour/internal/metrics"
	"github.com/rileyhilliard/sour/internal/probe"
)

// runDashboard wires the metrics provider, speed probe, and dashboard
// model together and runs the TUI in the alternate screen.
func runDashboard(cfg *config.Config) error {
	log := logger.NewEnvLogger("sour")
	provider := metrics.NewSystemProvider()

	counters := func() (uint64, uint64, error) {
		return provider.NetCounters(context.Background())
	}
	speedProbe := probe.New(
		&probe.ExecLauncher{Argv: cfg.SpeedtestCommand},
		counters,
		log,
	)

	model := dashboard.NewModel(dashboard.Options{
		Provider: provider,
		Probe:    speedProbe,
		Interval: cfg.Interval,
		TopN:     cfg.Top,
		DiskPath: cfg.DiskPath,
		Logger:   log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrMetrics,
			"Dashboard exited with an error",
			"Check terminal compatibility; set SOUR_DEBUG=1 for details")
	}

	fmt.Println("Exiting sour. Goodbye!")
	return nil
}
