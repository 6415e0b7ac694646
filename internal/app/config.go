package app

import (
	"errors"
	"time"
)

// Defaults applied by NewConfig.
const (
	DefaultProgramID = "pyorator"
	DefaultCooldown  = 5 * time.Second
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkDir   string // holds <program>_setup_batch.json
	ProgramID string
	RunFnsDir string // directory of the run spreadsheet for a batch run

	LogFormat string
	LogLevel  string
	// Cooldown is how long a fatal error stays on screen before exit.
	Cooldown  time.Duration
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkDir == "" {
		return nil, errors.New("WorkDir is a required configuration field and cannot be empty")
	}
	if cfg.ProgramID == "" {
		cfg.ProgramID = DefaultProgramID
	}
	if cfg.Cooldown < 0 {
		return nil, errors.New("Cooldown cannot be negative")
	}
	return &cfg, nil
}
