// Package cli defines the sour command-line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/sour/internal/config"
	"github.com/rileyhilliard/sour/internal/errors"
)

// Root command flags
var (
	configFlag   string
	intervalFlag time.Duration
	topFlag      int
	pathFlag     string
)

// rootCmd runs the dashboard when invoked with no subcommand.
var rootCmd = &cobra.Command{
	Use:   "sour",
	Short: "Live terminal dashboard for system metrics",
	Long: `sour is a live terminal dashboard showing CPU, memory, disk, and
network usage, plus the top processes by CPU.

Keyboard shortcuts:
  k           Kill a process (opens a numbered picker)
  f           Freeze / unfreeze the display
  n           Toggle the speedtest panel (runs speedtest-cli)
  q / Ctrl+C  Quit

Examples:
  sour
  sour --interval 500ms
  sour --top 15 --path /home`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New(errors.ErrConfig,
				"Standard output is not a terminal",
				"Run sour in an interactive terminal")
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return runDashboard(cfg)
	},
}

// resolveConfig loads the config file and lets explicitly set flags
// override its values.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("interval") {
		cfg.Interval = intervalFlag
	}
	if cmd.Flags().Changed("top") {
		cfg.Top = topFlag
	}
	if cmd.Flags().Changed("path") {
		cfg.DiskPath = pathFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.Flags().DurationVar(&intervalFlag, "interval", 200*time.Millisecond, "refresh interval (minimum 50ms)")
	rootCmd.Flags().IntVar(&topFlag, "top", 10, "number of processes to show")
	rootCmd.Flags().StringVar(&pathFlag, "path", "/", "mount point tracked by the disk gauge")
}

// Execute runs the root command, printing structured errors on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
