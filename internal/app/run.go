package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/fsutil"
)

// RunResult summarizes a completed batch run.
type RunResult struct {
	Session *Session
	MgmtDir string
	Stages  []string
}

// Run executes one batch run: initiate the session, select the management
// directory and run the registered model stages in order.
func (a *App) Run(ctx context.Context) (*RunResult, error) {
	a.logger.Debug("App.Run method started.", "run_fns_dir", a.config.RunFnsDir)

	sess, err := a.Initiate(ctx)
	if err != nil {
		return nil, err
	}
	ctx = a.withLogger(ctx)

	mgmtDir, err := a.selectMgmtDir(sess)
	if err != nil {
		return &RunResult{Session: sess}, err
	}
	sess.Settings.SetString(config.KeyMgmtDir, mgmtDir)
	sess.Settings.SetString(config.KeyInpDir, mgmtDir)
	sess.Settings.SetString(config.KeyStudy, filepath.Base(filepath.Dir(mgmtDir)))
	a.console.Printf("Management directory: %s", mgmtDir)

	rc := &collab.RunContext{
		Settings:         sess.Settings,
		Config:           sess.Config,
		MgmtDir:          mgmtDir,
		Params:           sess.Params,
		AnimalProduction: sess.AnimalProduction,
		WeatherSets:      sess.WeatherSets,
	}

	a.logger.Info("🚀 Starting model run.", "stages", a.handlers.Len(), "study", sess.Settings.String(config.KeyStudy))
	ran, err := a.handlers.Run(ctx, rc, a.logger)
	result := &RunResult{Session: sess, MgmtDir: mgmtDir, Stages: ran}
	if err != nil {
		return result, fmt.Errorf("model run failed: %w", err)
	}
	a.logger.Info("🏁 Model run finished.", "stages_run", ran)
	return result, nil
}

// selectMgmtDir prefers the run directory given on the command line when it
// holds a run spreadsheet, and otherwise uses the one from the config.
func (a *App) selectMgmtDir(sess *Session) (string, error) {
	runDir := a.config.RunFnsDir
	if runDir != "" && fsutil.IsFile(filepath.Join(runDir, config.FnameRun)) {
		return filepath.Clean(runDir), nil
	}
	if runDir != "" {
		a.logger.Warn("Run directory holds no run file; using the configured management directory.",
			"run_fns_dir", runDir, "fname_run", config.FnameRun)
	}
	if sess.ConfigValid && !sess.Settings.IsNull(config.KeyMgmtDir) {
		return sess.Settings.String(config.KeyMgmtDir), nil
	}

	report := diag.NewReport(a.console)
	report.Fatal("No management directory to run", fmt.Sprintf("%s holds no %s and the configuration has none", runDir, config.FnameRun))
	return "", diag.AsFatal("run", report.Diags)
}
