package openapi

import "os"

// Config sets document metadata.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`

	// Output is a file the rendered document is written to at startup. Empty disables it.
	Output string `toml:"output"`
}

// ConfigEnv maps environment variable names for document metadata.
type ConfigEnv struct {
	Title       string
	Description string
	Output      string
}

// Finalize applies defaults and environment overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Job Broker API"
	}
	if c.Description == "" {
		c.Description = "Queues shell jobs and hands them to polling runners."
	}
	if env != nil {
		if v := os.Getenv(env.Title); env.Title != "" && v != "" {
			c.Title = v
		}
		if v := os.Getenv(env.Description); env.Description != "" && v != "" {
			c.Description = v
		}
		if v := os.Getenv(env.Output); env.Output != "" && v != "" {
			c.Output = v
		}
	}
	return nil
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Output != "" {
		c.Output = overlay.Output
	}
}
