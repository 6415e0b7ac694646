package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vk/orabatch/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// envConfig holds the defaults that flags override.
type envConfig struct {
	LogLevel  string        `env:"ORATOR_LOG_LEVEL"  envDefault:"info"`
	LogFormat string        `env:"ORATOR_LOG_FORMAT" envDefault:"text"`
	WorkDir   string        `env:"ORATOR_WORKDIR"`
	ProgramID string        `env:"ORATOR_PROGRAM_ID" envDefault:"pyorator"`
	Cooldown  time.Duration `env:"ORATOR_COOLDOWN"   envDefault:"5s"`
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return parse(args, output, env.ToMap(os.Environ()))
}

func parse(args []string, output io.Writer, environ map[string]string) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var defaults envConfig
	if err := env.ParseWithOptions(&defaults, env.Options{Environment: environ}); err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("parse env: %v", err)}
	}

	flagSet := flag.NewFlagSet("orabatch", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
orabatch - batch runner for the ORATOR farm model.

Usage:
  orabatch [options] RUN_FNS_DIR

Arguments:
  RUN_FNS_DIR
    Directory holding the run spreadsheet `+"FarmWthrMgmt.xlsx"+`.

Options:
`)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workDirFlag := flagSet.String("workdir", defaults.WorkDir, "Directory holding <program-id>_setup_batch.json. Defaults to the current directory.")
	programIDFlag := flagSet.String("program-id", defaults.ProgramID, "Program id; selects the setup and config file names.")
	cooldownFlag := flagSet.Duration("cooldown", defaults.Cooldown, "How long a fatal error stays on screen before exit.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No run directory provided, printing usage.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "missing RUN_FNS_DIR"}
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected one RUN_FNS_DIR, got %d arguments", flagSet.NArg())}
	}

	runFnsDir, err := NormalizePath(flagSet.Arg(0))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Run directory determined.", "path", runFnsDir)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	workDir := *workDirFlag
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	} else if workDir, err = NormalizePath(workDir); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		WorkDir:   workDir,
		ProgramID: *programIDFlag,
		RunFnsDir: runFnsDir,
		LogFormat: logFormat,
		LogLevel:  logLevel,
		Cooldown:  *cooldownFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// NormalizePath expands environment variables and a leading ~, then makes
// p absolute and clean. It does not check that p exists.
func NormalizePath(p string) (string, error) {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", p, err)
		}
		p = filepath.Join(home, p[1:])
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}
