package config

import (
	"fmt"
	"time"

	"github.com/alexanderramin/laststart/internal/scheduler"
)

// SchedulingConfig bounds each planning run.
type SchedulingConfig struct {
	// MaxItems caps how many pending items one run places.
	MaxItems int `json:"max_items"`
	// MaxLookbackDays bounds how far before its deadline an item is placed.
	MaxLookbackDays int `json:"max_lookback_days"`
	// RefreshIntervalSeconds is the watch command's recompute period.
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
}

func (c *SchedulingConfig) SetDefaults() {
	if c.MaxItems == 0 {
		c.MaxItems = scheduler.DefaultMaxItems
	}
	if c.MaxLookbackDays == 0 {
		c.MaxLookbackDays = int(scheduler.DefaultMaxLookback / (24 * time.Hour))
	}
	if c.RefreshIntervalSeconds == 0 {
		c.RefreshIntervalSeconds = 60
	}
}

func (c SchedulingConfig) Validate() error {
	if c.MaxItems < 1 {
		return fmt.Errorf("max_items must be positive, got %d", c.MaxItems)
	}
	if c.MaxLookbackDays < 1 {
		return fmt.Errorf("max_lookback_days must be positive, got %d", c.MaxLookbackDays)
	}
	if c.RefreshIntervalSeconds < 1 {
		return fmt.Errorf("refresh_interval_seconds must be positive, got %d", c.RefreshIntervalSeconds)
	}
	return nil
}

// Options converts the section into engine options.
func (c SchedulingConfig) Options() scheduler.Options {
	return scheduler.Options{
		MaxItems:    c.MaxItems,
		MaxLookback: time.Duration(c.MaxLookbackDays) * 24 * time.Hour,
	}
}

// RefreshInterval returns the watch period.
func (c SchedulingConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}
