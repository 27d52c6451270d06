package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvRunnersTTL           = "RUNNERS_TTL"
	EnvRunnersPruneAfter    = "RUNNERS_PRUNE_AFTER"
	EnvRunnersSweepInterval = "RUNNERS_SWEEP_INTERVAL"
)

// RunnersConfig controls how long runner presence records are kept.
type RunnersConfig struct {
	// TTL is how long after its last poll a runner counts as active.
	TTL string `toml:"ttl"`

	// PruneAfter is how long after its last poll a runner is forgotten.
	PruneAfter string `toml:"prune_after"`

	SweepInterval string `toml:"sweep_interval"`
}

func (c *RunnersConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

func (c *RunnersConfig) PruneAfterDuration() time.Duration {
	d, _ := time.ParseDuration(c.PruneAfter)
	return d
}

func (c *RunnersConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

func (c *RunnersConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *RunnersConfig) Merge(overlay *RunnersConfig) {
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.PruneAfter != "" {
		c.PruneAfter = overlay.PruneAfter
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
}

func (c *RunnersConfig) loadDefaults() {
	if c.TTL == "" {
		c.TTL = "1m"
	}
	if c.PruneAfter == "" {
		c.PruneAfter = "1h"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "1m"
	}
}

func (c *RunnersConfig) loadEnv() {
	if v := os.Getenv(EnvRunnersTTL); v != "" {
		c.TTL = v
	}
	if v := os.Getenv(EnvRunnersPruneAfter); v != "" {
		c.PruneAfter = v
	}
	if v := os.Getenv(EnvRunnersSweepInterval); v != "" {
		c.SweepInterval = v
	}
}

func (c *RunnersConfig) validate() error {
	durations := []struct {
		name, value string
	}{
		{"ttl", c.TTL},
		{"prune_after", c.PruneAfter},
		{"sweep_interval", c.SweepInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", d.name)
		}
	}
	if c.PruneAfterDuration() < c.TTLDuration() {
		return fmt.Errorf("prune_after (%s) must not be shorter than ttl (%s)", c.PruneAfter, c.TTL)
	}
	return nil
}
