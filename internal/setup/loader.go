// Package setup loads and validates the installation-level setup file,
// <program>_setup_batch.json, into Settings.
//
// Loading runs in three phases: Read (file, JSON and mandatory keys),
// Validate (external dependencies and derived keys, no file system writes)
// and Provision (creation of the log and config directories). Every step
// reports through a diag.Report, so the console shows a progress line for
// each check and the caller receives the diagnostics.
package setup

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/orabatch/internal/collab"
	"github.com/vk/orabatch/internal/config"
	"github.com/vk/orabatch/internal/ctxlog"
	"github.com/vk/orabatch/internal/diag"
	"github.com/vk/orabatch/internal/fsutil"
)

// FileSuffix completes the setup file name after the program id.
const FileSuffix = "_setup_batch.json"

// pathSettings must be non-empty strings. wthr_dir is excluded because null
// is a valid way to disable weather data.
var pathSettings = []string{
	config.KeyConfigDir, config.KeyFnamePNG, config.KeyLogDir, config.KeyFnameLookup,
	config.KeyStudyAreaDir, config.KeyHWSDDir, config.KeyExcelDir, config.KeyParamsXLS,
}

// anchoredSettings are paths that, when relative, are taken relative to
// the loader's WorkDir.
var anchoredSettings = append(slices.Clone(pathSettings), config.KeyWthrDir, config.KeyNotepadExe)

// Loader reads the setup file from WorkDir.
type Loader struct {
	WorkDir string
	Console *diag.Console
	Collab  collab.Set
}

// Result is a successfully loaded setup.
type Result struct {
	Settings config.Values
	Lookup   *collab.Lookup
}

// NewLoader creates a loader. Nil collaborators are replaced by defaults.
func NewLoader(workDir string, console *diag.Console, set collab.Set) *Loader {
	if console == nil {
		console = diag.NewConsole(nil)
	}
	return &Loader{WorkDir: workDir, Console: console, Collab: set.WithDefaults()}
}

// FileName returns the setup file name for programID.
func FileName(programID string) string {
	return programID + FileSuffix
}

// Path returns the setup file path for programID.
func (l *Loader) Path(programID string) string {
	return filepath.Join(l.WorkDir, FileName(programID))
}

// ConfigFile returns the session config path derived from the settings.
func ConfigFile(settings config.Values, programID string) string {
	return filepath.Join(settings.String(config.KeyConfigDir), programID+"_config.json")
}

// Load reads, validates and provisions. Diagnostics with errors mean the
// setup is unusable and the session must end.
func (l *Loader) Load(ctx context.Context, programID string) (*Result, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	report := diag.NewReport(l.Console)

	settings := l.read(programID, report)
	if report.HasErrors() {
		return nil, report.Diags
	}
	logger.Debug("Setup file read.", "path", l.Path(programID), "keys", len(settings))

	lookup := l.validate(ctx, programID, settings, report)
	if report.HasErrors() {
		return nil, report.Diags
	}
	logger.Debug("Setup validated.", "studies", settings.Strings(config.KeyStudies))

	Provision(settings, report)
	if report.HasErrors() {
		return nil, report.Diags
	}
	return &Result{Settings: settings, Lookup: lookup}, report.Diags
}

// Read loads the setup file and checks the mandatory keys, without
// validating external dependencies.
func (l *Loader) Read(programID string) (config.Values, hcl.Diagnostics) {
	report := diag.NewReport(l.Console)
	settings := l.read(programID, report)
	return settings, report.Diags
}

func (l *Loader) read(programID string, report *diag.Report) config.Values {
	setupFile := l.Path(programID)
	if !fsutil.Exists(setupFile) {
		report.Fatal(fmt.Sprintf("setup file %s must exist", setupFile), "")
		return nil
	}

	doc, diags := config.ReadFile(setupFile)
	if diags.HasErrors() {
		report.Extend(diags)
		return nil
	}

	raw, ok := doc["setup"]
	if !ok || raw.IsNull() || !(raw.Type().IsObjectType() || raw.Type().IsMapType()) {
		report.Fatal(fmt.Sprintf("setup file %s must contain a \"setup\" object", setupFile), "")
		return nil
	}
	settings := config.FromObject(raw)

	for _, key := range config.MandatorySettings {
		if !settings.Has(key) {
			report.Fatal(fmt.Sprintf("setting %s is required in setup file %s", key, setupFile), "")
			return nil
		}
	}
	for _, key := range pathSettings {
		if settings.String(key) == "" {
			report.Fatal(fmt.Sprintf("setting %s in setup file %s must be a non-empty path", key, setupFile), "")
			return nil
		}
	}

	anchorPaths(settings, l.WorkDir)

	report.Progress("Read setup file: %s\nLogs will be written to: %s", setupFile, settings.String(config.KeyLogDir))
	return settings
}

func anchorPaths(settings config.Values, workDir string) {
	if workDir == "" {
		return
	}
	for _, key := range anchoredSettings {
		p := settings.String(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		settings.SetString(key, filepath.Join(workDir, p))
	}
}
