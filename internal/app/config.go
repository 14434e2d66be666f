package app

import "errors"

// Config holds the CLI-level configuration for an App instance. Log settings
// left empty defer to the HCL host config.
type Config struct {
	ConfigPath string // hcl file or directory
	LogFormat  string
	LogLevel   string
}

// NewConfig validates the CLI-level configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
