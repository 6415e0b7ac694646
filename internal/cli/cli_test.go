package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/orabatch/internal/app"
)

func TestParse_DefaultsAndFlags(t *testing.T) {
	t.Parallel()
	runDir := t.TempDir()
	workDir := t.TempDir()

	cases := []struct {
		name    string
		args    []string
		environ map[string]string
		check   func(t *testing.T, cfg *app.Config)
	}{
		{
			name:    "env defaults",
			args:    []string{runDir},
			environ: map[string]string{"ORATOR_WORKDIR": workDir},
			check: func(t *testing.T, cfg *app.Config) {
				require.Equal(t, "info", cfg.LogLevel)
				require.Equal(t, "text", cfg.LogFormat)
				require.Equal(t, "pyorator", cfg.ProgramID)
				require.Equal(t, 5*time.Second, cfg.Cooldown)
				require.Equal(t, workDir, cfg.WorkDir)
				require.Equal(t, runDir, cfg.RunFnsDir)
			},
		},
		{
			name: "env overrides defaults",
			args: []string{runDir},
			environ: map[string]string{
				"ORATOR_WORKDIR":    workDir,
				"ORATOR_LOG_LEVEL":  "debug",
				"ORATOR_PROGRAM_ID": "spec_run",
				"ORATOR_COOLDOWN":   "0s",
			},
			check: func(t *testing.T, cfg *app.Config) {
				require.Equal(t, "debug", cfg.LogLevel)
				require.Equal(t, "spec_run", cfg.ProgramID)
				require.Zero(t, cfg.Cooldown)
			},
		},
		{
			name:    "flags override env",
			args:    []string{"--log-level", "WARN", "--log-format", "json", "--workdir", workDir, "--cooldown", "1s", runDir},
			environ: map[string]string{"ORATOR_LOG_LEVEL": "debug"},
			check: func(t *testing.T, cfg *app.Config) {
				require.Equal(t, "warn", cfg.LogLevel)
				require.Equal(t, "json", cfg.LogFormat)
				require.Equal(t, time.Second, cfg.Cooldown)
				require.Equal(t, workDir, cfg.WorkDir)
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, exit, err := parse(tc.args, &bytes.Buffer{}, tc.environ)
			require.NoError(t, err)
			require.False(t, exit)
			tc.check(t, cfg)
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		args    []string
		environ map[string]string
		want    string
	}{
		{name: "unknown flag", args: []string{"--nope", "x"}, want: "flag provided but not defined"},
		{name: "bad log format", args: []string{"--log-format", "xml", "x"}, want: "invalid log-format"},
		{name: "bad log level", args: []string{"--log-level", "loud", "x"}, want: "invalid log-level"},
		{name: "two run dirs", args: []string{"a", "b"}, want: "expected one RUN_FNS_DIR"},
		{name: "bad env duration", args: []string{"x"}, environ: map[string]string{"ORATOR_COOLDOWN": "soon"}, want: "parse env"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, exit, err := parse(tc.args, &bytes.Buffer{}, tc.environ)
			require.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
			require.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestParse_Help(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	cfg, exit, err := parse([]string{"-h"}, out, nil)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_MissingRunDirIsUsageError(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	cfg, exit, err := parse(nil, out, nil)
	require.False(t, exit)
	require.Nil(t, cfg)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Equal(t, "missing RUN_FNS_DIR", exitErr.Message)
	require.Contains(t, out.String(), "Usage:")
}

func TestNormalizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("ORATOR_TEST_ROOT", "/data/orator")

	cases := map[string]string{
		"$ORATOR_TEST_ROOT/runs/../farm": "/data/orator/farm",
		"~/runs":                         filepath.Join(home, "runs"),
		"/abs//path/":                    "/abs/path",
	}
	for in, want := range cases {
		got, err := NormalizePath(in)
		require.NoError(t, err)
		require.Equal(t, want, got, in)
	}

	cwd, err := os.Getwd()
	require.NoError(t, err)
	got, err := NormalizePath("relative")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cwd, "relative"), got)
}
