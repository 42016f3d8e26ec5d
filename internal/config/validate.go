package config

import (
	"fmt"

	"github.com/rileyhilliard/sour/internal/errors"
)

// Validate checks the settings against their allowed ranges.
func (c *Config) Validate() error {
	if c.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is below the minimum %s", c.Interval, MinInterval),
			"Use an interval of at least 50ms")
	}

	if c.Top < 1 || c.Top > MaxTop {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Process count %d is out of range", c.Top),
			fmt.Sprintf("Use a value between 1 and %d", MaxTop))
	}

	if c.DiskPath == "" {
		return errors.New(errors.ErrConfig,
			"Disk path is empty",
			"Set disk_path to the mount point to track, e.g. \"/\"")
	}

	return nil
}
