package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sour/internal/errors"
)

// fileConfig is the YAML shape written by `sour init`. The interval is a
// duration string so the file stays human-editable.
type fileConfig struct {
	Interval         string   `yaml:"interval"`
	Top              int      `yaml:"top"`
	DiskPath         string   `yaml:"disk_path"`
	SpeedtestCommand []string `yaml:"speedtest_command"`
}

const fileHeader = `# sour configuration
# interval: refresh cadence (minimum 50ms)
# top: number of processes shown (1-50)
# disk_path: mount point tracked by the disk gauge
# speedtest_command: argv of the external speed-test tool
`

// WriteDefault writes the default configuration to path, creating parent
// directories as needed.
func WriteDefault(path string) error {
	defaults := DefaultConfig()
	out := fileConfig{
		Interval:         defaults.Interval.String(),
		Top:              defaults.Top,
		DiskPath:         defaults.DiskPath,
		SpeedtestCommand: defaults.SpeedtestCommand,
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to render default config",
			"This is a bug; please report it")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to create config directory",
				"Check permissions for "+dir)
		}
	}

	if err := os.WriteFile(path, append([]byte(fileHeader), data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check permissions for "+path)
	}
	return nil
}
