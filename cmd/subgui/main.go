package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/orabatch/internal/cli"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/subgui"
	"github.com/vk/orabatch/internal/ui"
)

// jobLogName collects the output of the jobs submitted from the form.
const jobLogName = "pyorator_sub_gui_jobs.log"

// main is the entrypoint for the batch-job submission form.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	flagSet := flag.NewFlagSet("orasubgui", flag.ContinueOnError)
	flagSet.SetOutput(outW)
	workDirFlag := flagSet.String("workdir", "", "Directory holding "+subgui.SetupFileName+". Defaults to the current directory.")
	themeFlag := flagSet.String("theme", "dark", "Colour theme. Options: 'dark' or 'light'.")
	cooldownFlag := flagSet.Duration("cooldown", 5*time.Second, "How long a fatal error stays on screen before exit.")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	workDir := *workDirFlag
	var err error
	if workDir == "" {
		workDir, err = os.Getwd()
	} else {
		workDir, err = cli.NormalizePath(workDir)
	}
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	ctx := ctxlog.WithLogger(context.Background(), slog.Default())
	console := diag.NewConsole(outW)
	settings, diags := subgui.LoadSetup(ctx, workDir, console)
	if err := diag.AsFatal("setup", diags); err != nil {
		console.Printf("Setup failed")
		time.Sleep(*cooldownFlag)
		return &cli.ExitError{Code: diag.ExitFatal, Message: err.Error()}
	}

	runFn, err := subgui.LoadConfig(settings.ConfigFile)
	if err != nil {
		// The form still starts; the user picks a run file again.
		console.Printf("%s%v", diag.WarnPrefix, err)
		runFn = ""
	}

	jobLog, err := os.OpenFile(filepath.Join(settings.ConfigDir, jobLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open job log: %w", err)
	}
	defer jobLog.Close()
	ctx = ctxlog.WithLogger(ctx, slog.New(slog.NewTextHandler(jobLog, nil)))

	final, err := ui.Run(ctx, ui.Options{
		Settings:  settings,
		RunFn:     runFn,
		JobOutput: jobLog,
		Theme:     *themeFlag,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(outW, "Updated %s (run file: %s)\n", settings.ConfigFile, final)
	return nil
}
