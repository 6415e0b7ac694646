package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/orabatch/internal/cli"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/testutil"
)

func TestRun_FatalSetupExitsAfterCooldown(t *testing.T) {
	// --- Arrange ---
	// No setup file in the working directory is fatal.
	in := testutil.NewInstall(t)
	args := []string{"--workdir", in.WorkDir, "--cooldown", "0s", in.Root}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr), "fatal errors should map to an ExitError")
	require.Equal(t, diag.ExitFatal, exitErr.Code)
	require.Contains(t, exitErr.Message, "_setup_batch.json must exist")
	require.Contains(t, out.String(), diag.ErrorPrefix+"stopping in 0s")
}

func TestRun_BatchRunSucceeds(t *testing.T) {
	// --- Arrange ---
	in := testutil.NewInstall(t)
	farm := in.AddFarm(t, "Study", "Farm", true)
	in.WriteSetup(t, "pyorator", in.SetupDoc())
	args := []string{"--workdir", in.WorkDir, "--cooldown", "0s", farm}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Management directory: "+farm)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
