package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/vk/orabatch/internal/app"
	"github.com/vk/orabatch/internal/cli"
	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/diag"
)

// main is the entrypoint for the batch runner.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
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

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	batchApp := app.NewApp(outW, appConfig, collab.Default())
	defer batchApp.Close()

	_, err = batchApp.Run(context.Background())
	var fatal *diag.FatalError
	if errors.As(err, &fatal) {
		// Leave the diagnostics on screen before the window closes.
		fmt.Fprintf(outW, "%sstopping in %s\n", diag.ErrorPrefix, appConfig.Cooldown)
		time.Sleep(appConfig.Cooldown)
		return &cli.ExitError{Code: diag.ExitFatal, Message: fatal.Error()}
	}
	return err
}
